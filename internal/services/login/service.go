package login

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/dependencies/clock"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/session"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/steam"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/storage"
)

// Errors
var (
	ErrInvalidCallback = errors.New("steam rejected the callback assertion")
	ErrInvalidSteamID  = errors.New("callback does not carry a valid steam id")
)

// Provider is the Steam client surface the login flow depends on
type Provider interface {
	BuildLoginURL(returnURL string) string
	ValidateCallback(ctx context.Context, params url.Values) bool
	FetchProfile(ctx context.Context, steamID string) steam.Profile
}

// Result is the outcome of a successful callback: a fresh session and
// the identity it belongs to
type Result struct {
	Session  *model.Session
	Identity *model.Identity
}

// Service runs the federated login flow: issuing the redirect and
// handling the asynchronous Steam callback
type Service struct {
	storage  storage.Storage
	provider Provider
	sessions *session.Service
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new login Service
func New(storage storage.Storage, provider Provider, sessions *session.Service, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		provider: provider,
		sessions: sessions,
		clock:    clock,
		logger:   logger,
	}
}

// LoginURL returns the Steam redirect URL for the given return URL.
// Stateless: no server-side record is created at this step.
func (s *Service) LoginURL(returnURL string) string {
	return s.provider.BuildLoginURL(returnURL)
}

// Callback handles the Steam redirect back to us. The assertion
// parameters are forgeable, so the flow is: validate with Steam,
// extract the steam id, upsert the identity, issue a session.
func (s *Service) Callback(ctx context.Context, params url.Values) (*Result, error) {
	if !s.provider.ValidateCallback(ctx, params) {
		return nil, ErrInvalidCallback
	}

	steamID, err := steam.ExtractSteamID(params.Get("openid.claimed_id"))
	if err != nil {
		return nil, ErrInvalidSteamID
	}

	identity, err := s.upsertIdentity(ctx, steamID)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Issue(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("player logged in",
		slog.String("steam_id", steamID),
		slog.String("identity_id", string(identity.ID)),
	)

	return &Result{Session: sess, Identity: identity}, nil
}

// upsertIdentity looks up the identity for the steam id, refreshing
// its profile, or creates it together with a zero-valued stats row.
func (s *Service) upsertIdentity(ctx context.Context, steamID string) (*model.Identity, error) {
	profile := s.provider.FetchProfile(ctx, steamID)
	now := s.clock.Now()

	identity, err := s.storage.GetIdentityBySteamID(ctx, steamID)
	if err == nil {
		return s.refresh(ctx, identity, profile, now)
	}
	if !errors.Is(err, model.ErrIdentityNotFound) {
		return nil, err
	}

	identity = &model.Identity{
		ID:          model.IdentityID(uuid.NewString()),
		SteamID:     steamID,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
		ProfileURL:  profile.ProfileURL,
		CreatedAt:   now,
		LastLogin:   now,
	}
	stats := &model.PlayerStats{
		IdentityID: identity.ID,
		UpdatedAt:  now,
	}

	err = s.storage.CreateIdentityWithStats(ctx, identity, stats)
	if err == nil {
		return identity, nil
	}
	if !errors.Is(err, model.ErrSteamIDExists) {
		return nil, err
	}

	// Lost a concurrent-create race (double-click, replayed callback);
	// the unique constraint on steam_id is the safeguard. Retry as the
	// update path instead of surfacing an error.
	identity, err = s.storage.GetIdentityBySteamID(ctx, steamID)
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, identity, profile, now)
}

func (s *Service) refresh(ctx context.Context, identity *model.Identity, profile steam.Profile, now time.Time) (*model.Identity, error) {
	if err := s.storage.RefreshIdentityProfile(ctx, identity.ID,
		profile.DisplayName, profile.AvatarURL, profile.ProfileURL, now); err != nil {
		return nil, err
	}

	identity.DisplayName = profile.DisplayName
	identity.AvatarURL = profile.AvatarURL
	identity.ProfileURL = profile.ProfileURL
	identity.LastLogin = now
	return identity, nil
}
