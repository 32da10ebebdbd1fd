package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case LoginResult:
		fmt.Printf("Open this URL in a browser to sign in through Steam:\n%s\n", v.RedirectURL)
	case VerifyResult:
		o.printUser(v.User)
	case CallbackResult:
		fmt.Println("Logged in.")
		o.printUser(v.User)
	case LogoutResult:
		fmt.Println("Logged out.")
	case StatsResult:
		o.printStats(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s\n", u.Username)
	fmt.Printf("  Steam ID: %s\n", u.SteamID)
	if u.AvatarURL != "" {
		fmt.Printf("  Avatar:   %s\n", u.AvatarURL)
	}
}

func (o *Output) printStats(s StatsResult) {
	fmt.Printf("Player: %s (steam id %s)\n", s.User.Username, s.User.SteamID)
	fmt.Printf("  Rank:          #%d\n", s.Stats.Rank)
	fmt.Printf("  K/D/A:         %d/%d/%d (K/D %.2f)\n",
		s.Stats.Kills, s.Stats.Deaths, s.Stats.Assists, s.Stats.KDRatio)
	fmt.Printf("  Headshots:     %d (%.1f%%)\n", s.Stats.Headshots, s.Stats.HeadshotRate)
	fmt.Printf("  Matches:       %d played, %d won (%.1f%%)\n",
		s.Stats.MatchesPlayed, s.Stats.MatchesWon, s.Stats.WinRate)
	fmt.Printf("  Playtime:      %dh\n", s.Stats.PlaytimeHours)
	fmt.Printf("  Level:         %d (%d xp)\n", s.Stats.Level, s.Stats.Experience)
}

// User response type (matches API)
type User struct {
	ID        string `json:"id"`
	SteamID   string `json:"steam_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// LoginResult carries the Steam redirect URL
type LoginResult struct {
	RedirectURL string `json:"redirect_url"`
}

// CallbackResult is the callback response
type CallbackResult struct {
	Success      bool   `json:"success"`
	SessionToken string `json:"session_token"`
	User         User   `json:"user"`
}

// VerifyResult is the verify response
type VerifyResult struct {
	Valid bool `json:"valid"`
	User  User `json:"user"`
}

// LogoutResult is the logout response
type LogoutResult struct {
	Success bool `json:"success"`
}

// StatsUser is the user block of a stats response
type StatsUser struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	SteamID   string `json:"steam_id"`
}

// Stats is the stats block of a stats response
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

// StatsResult is the full stats response
type StatsResult struct {
	User  StatsUser `json:"user"`
	Stats Stats     `json:"stats"`
}

// HealthResult is the health response
type HealthResult struct {
	Status string `json:"status"`
}
