package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/dependencies/clock"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/storage"
)

// Service issues, verifies, and revokes bearer session tokens.
// Tokens are opaque and live in storage; every authenticated operation
// in the system goes through Verify first.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	tokenTTL time.Duration
}

// Config holds configuration for the session service
type Config struct {
	TokenTTL time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL: 30 * 24 * time.Hour,
	}
}

// New creates a new session Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	return &Service{
		storage:  storage,
		clock:    clock,
		logger:   logger,
		tokenTTL: cfg.TokenTTL,
	}
}

// Issue creates and stores a new session for the identity
func (s *Service) Issue(ctx context.Context, identityID model.IdentityID) (*model.Session, error) {
	now := s.clock.Now()
	session := &model.Session{
		Token:      generateToken(),
		IdentityID: identityID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.tokenTTL),
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Verify resolves a token to its identity. It distinguishes an absent
// token (model.ErrSessionNotFound) from an expired one
// (model.ErrSessionExpired); the API layer collapses both into one
// external 401. Verify never mutates state.
func (s *Service) Verify(ctx context.Context, token string) (*model.Identity, error) {
	session, err := s.storage.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if !session.Valid(s.clock.Now()) {
		return nil, model.ErrSessionExpired
	}

	return s.storage.GetIdentity(ctx, session.IdentityID)
}

// Revoke soft-expires a session by setting its expiry to now. Revoking
// an unknown or already-expired token succeeds silently.
func (s *Service) Revoke(ctx context.Context, token string) error {
	session, err := s.storage.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	now := s.clock.Now()
	if !session.Valid(now) {
		return nil
	}

	return s.storage.ExpireSession(ctx, token, now)
}

// generateToken returns a fresh opaque token with 256 bits of entropy
func generateToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
