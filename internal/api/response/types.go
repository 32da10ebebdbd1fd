package response

import (
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/stats"
)

// User is the public user summary returned by auth endpoints
type User struct {
	ID        string `json:"id"`
	SteamID   string `json:"steam_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// UserFromModel converts a model.Identity to a response User
func UserFromModel(identity *model.Identity) User {
	return User{
		ID:        string(identity.ID),
		SteamID:   identity.SteamID,
		Username:  identity.DisplayName,
		AvatarURL: identity.AvatarURL,
	}
}

// LoginResponse carries the Steam redirect URL
type LoginResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// CallbackResponse is returned after a successful Steam callback
type CallbackResponse struct {
	Success      bool   `json:"success"`
	SessionToken string `json:"session_token"`
	User         User   `json:"user"`
}

// VerifyResponse is returned for a valid session
type VerifyResponse struct {
	Valid bool `json:"valid"`
	User  User `json:"user"`
}

// LogoutResponse is returned after logout
type LogoutResponse struct {
	Success bool `json:"success"`
}

// StatsUser is the user block inside a stats response
type StatsUser struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	SteamID   string `json:"steam_id"`
}

// Stats holds the raw counters plus derived ratios and rank
type Stats struct {
	Kills         int64   `json:"kills"`
	Deaths        int64   `json:"deaths"`
	Assists       int64   `json:"assists"`
	Headshots     int64   `json:"headshots"`
	KDRatio       float64 `json:"kd_ratio"`
	MatchesPlayed int64   `json:"matches_played"`
	MatchesWon    int64   `json:"matches_won"`
	WinRate       float64 `json:"win_rate"`
	HeadshotRate  float64 `json:"headshot_rate"`
	PlaytimeHours int64   `json:"playtime_hours"`
	Level         int64   `json:"level"`
	Experience    int64   `json:"experience"`
	Rank          int     `json:"rank"`
}

// StatsResponse pairs the user summary with the stats view
type StatsResponse struct {
	User  StatsUser `json:"user"`
	Stats Stats     `json:"stats"`
}

// StatsResponseFromView converts a stats.PlayerView
func StatsResponseFromView(view *stats.PlayerView) StatsResponse {
	v := view.Stats

	// A freshly created row reports level 1 even though it stores zero
	level := v.Level
	if level == 0 {
		level = 1
	}

	return StatsResponse{
		User: StatsUser{
			Username:  view.Identity.DisplayName,
			AvatarURL: view.Identity.AvatarURL,
			SteamID:   view.Identity.SteamID,
		},
		Stats: Stats{
			Kills:         v.Kills,
			Deaths:        v.Deaths,
			Assists:       v.Assists,
			Headshots:     v.Headshots,
			KDRatio:       v.KDRatio,
			MatchesPlayed: v.MatchesPlayed,
			MatchesWon:    v.MatchesWon,
			WinRate:       v.WinRate,
			HeadshotRate:  v.HeadshotRate,
			PlaytimeHours: v.PlaytimeHours,
			Level:         level,
			Experience:    v.Experience,
			Rank:          v.Rank,
		},
	}
}
