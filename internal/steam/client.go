package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default Steam endpoints
const (
	DefaultOpenIDURL = "https://steamcommunity.com/openid/login"
	DefaultAPIURL    = "http://api.steampowered.com"
)

// openidNS is the OpenID 2.0 namespace identifier
const openidNS = "http://specs.openid.net/auth/2.0"

// Profile holds the public profile facts fetched from Steam
type Profile struct {
	DisplayName string
	AvatarURL   string
	ProfileURL  string
}

// Config holds Steam client settings
type Config struct {
	// APIKey is the Steam Web API key used for profile lookups
	APIKey string

	// OpenIDURL and APIURL override the Steam endpoints (for testing)
	OpenIDURL string
	APIURL    string

	// Timeout bounds each outbound call
	Timeout time.Duration
}

// Client performs the two outbound Steam calls: OpenID response
// validation and profile lookup. It holds no local state beyond
// configuration.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new Steam client
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.OpenIDURL == "" {
		cfg.OpenIDURL = DefaultOpenIDURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// BuildLoginURL constructs the Steam OpenID login redirect for the
// given return URL. Pure function, no I/O.
func (c *Client) BuildLoginURL(returnURL string) string {
	return buildLoginURL(c.cfg.OpenIDURL, returnURL)
}

func buildLoginURL(openidURL, returnURL string) string {
	realm := returnURL
	if i := strings.Index(realm, "?"); i >= 0 {
		realm = realm[:i]
	}

	params := url.Values{}
	params.Set("openid.ns", openidNS)
	params.Set("openid.mode", "checkid_setup")
	params.Set("openid.return_to", returnURL+"?auth_callback=true")
	params.Set("openid.realm", realm)
	params.Set("openid.identity", openidNS+"/identifier_select")
	params.Set("openid.claimed_id", openidNS+"/identifier_select")

	return openidURL + "?" + params.Encode()
}

// ValidateCallback re-poses the callback parameters to Steam with the
// mode switched to check_authentication and trusts only an affirmative
// is_valid:true in the response. Callback parameters arrive over an
// unauthenticated redirect and are trivially forgeable; only Steam can
// attest they were genuinely issued. Network failure or anything short
// of the affirmative response means false.
func (c *Client) ValidateCallback(ctx context.Context, params url.Values) bool {
	form := url.Values{}
	for key, values := range params {
		for _, v := range values {
			form.Add(key, v)
		}
	}
	form.Set("openid.mode", "check_authentication")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenIDURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("steam openid validation failed", slog.String("error", err.Error()))
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}

	return strings.Contains(string(body), "is_valid:true")
}

// playerSummariesResponse mirrors the GetPlayerSummaries payload
type playerSummariesResponse struct {
	Response struct {
		Players []struct {
			PersonaName string `json:"personaname"`
			AvatarFull  string `json:"avatarfull"`
			ProfileURL  string `json:"profileurl"`
		} `json:"players"`
	} `json:"response"`
}

// FetchProfile looks up the player's public profile. Login must not
// fail merely because the profile API is degraded, so any failure
// returns a deterministic fallback instead of an error.
func (c *Client) FetchProfile(ctx context.Context, steamID string) Profile {
	endpoint := fmt.Sprintf("%s/ISteamUser/GetPlayerSummaries/v0002/?key=%s&steamids=%s",
		c.cfg.APIURL, url.QueryEscape(c.cfg.APIKey), url.QueryEscape(steamID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fallbackProfile(steamID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("steam profile fetch failed", slog.String("error", err.Error()))
		return fallbackProfile(steamID)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload playerSummariesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fallbackProfile(steamID)
	}
	if len(payload.Response.Players) == 0 {
		return fallbackProfile(steamID)
	}

	player := payload.Response.Players[0]
	name := player.PersonaName
	if name == "" {
		name = "Unknown"
	}
	return Profile{
		DisplayName: name,
		AvatarURL:   player.AvatarFull,
		ProfileURL:  player.ProfileURL,
	}
}

// fallbackProfile is the deterministic profile used when the Steam
// profile API is unavailable
func fallbackProfile(steamID string) Profile {
	short := steamID
	if len(short) > 8 {
		short = short[:8]
	}
	return Profile{DisplayName: "Player_" + short}
}
