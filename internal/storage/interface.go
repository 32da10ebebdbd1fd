package storage

import (
	"context"
	"time"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Identity operations
	GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error)
	GetIdentityBySteamID(ctx context.Context, steamID string) (*model.Identity, error)

	// CreateIdentityWithStats atomically creates an identity and its
	// zero-valued stats row. Returns model.ErrSteamIDExists if an
	// identity for the same steam id already exists; an identity must
	// never exist without its stats row.
	CreateIdentityWithStats(ctx context.Context, identity *model.Identity, stats *model.PlayerStats) error

	// RefreshIdentityProfile updates the mutable profile fields and
	// last-login stamp on an existing identity.
	RefreshIdentityProfile(ctx context.Context, id model.IdentityID, displayName, avatarURL, profileURL string, lastLogin time.Time) error

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)

	// ExpireSession sets the session's expiry to the given instant.
	// A missing token is not an error (revocation is idempotent).
	ExpireSession(ctx context.Context, token string, at time.Time) error

	// Stats operations
	GetStats(ctx context.Context, id model.IdentityID) (*model.PlayerStats, error)

	// PatchStats overwrites the given counter fields in one statement.
	// Keys must come from model.StatFields; callers validate.
	PatchStats(ctx context.Context, id model.IdentityID, fields map[string]int64, updatedAt time.Time) error

	// CountRankedAbove returns the number of players with strictly
	// more kills than the given count.
	CountRankedAbove(ctx context.Context, kills int64) (int, error)

	SetRankPosition(ctx context.Context, id model.IdentityID, rank int) error
}
