package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/storage"
)

// uniqueViolation is the Postgres error code for a unique constraint breach
const uniqueViolation = "23505"

// Storage is a Postgres-backed implementation of the storage interface.
// This is the production system of record; concurrency safety leans on
// the database's constraints and transaction guarantees.
type Storage struct {
	db *sql.DB
}

// New opens a Postgres connection and runs the schema migration
func New(databaseURL string) (*Storage, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// NewWithDB creates a Postgres storage with an existing handle (for testing)
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

const identityColumns = "id, steam_id, display_name, avatar_url, profile_url, created_at, last_login"

func scanIdentity(row *sql.Row) (*model.Identity, error) {
	var identity model.Identity
	err := row.Scan(
		&identity.ID,
		&identity.SteamID,
		&identity.DisplayName,
		&identity.AvatarURL,
		&identity.ProfileURL,
		&identity.CreatedAt,
		&identity.LastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (s *Storage) GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+identityColumns+" FROM identities WHERE id = $1", string(id))
	return scanIdentity(row)
}

func (s *Storage) GetIdentityBySteamID(ctx context.Context, steamID string) (*model.Identity, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+identityColumns+" FROM identities WHERE steam_id = $1", steamID)
	return scanIdentity(row)
}

func (s *Storage) CreateIdentityWithStats(ctx context.Context, identity *model.Identity, stats *model.PlayerStats) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO identities (id, steam_id, display_name, avatar_url, profile_url, created_at, last_login)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(identity.ID), identity.SteamID, identity.DisplayName,
		identity.AvatarURL, identity.ProfileURL, identity.CreatedAt, identity.LastLogin)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.ErrSteamIDExists
		}
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO player_stats (identity_id, kills, deaths, assists, headshots,
		    matches_played, matches_won, playtime_hours, level, experience, rank_position, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(stats.IdentityID), stats.Kills, stats.Deaths, stats.Assists, stats.Headshots,
		stats.MatchesPlayed, stats.MatchesWon, stats.PlaytimeHours, stats.Level,
		stats.Experience, stats.RankPosition, stats.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Storage) RefreshIdentityProfile(ctx context.Context, id model.IdentityID, displayName, avatarURL, profileURL string, lastLogin time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE identities
		 SET display_name = $1, avatar_url = $2, profile_url = $3, last_login = $4
		 WHERE id = $5`,
		displayName, avatarURL, profileURL, lastLogin, string(id))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrIdentityNotFound
	}
	return nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, identity_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		session.Token, string(session.IdentityID), session.CreatedAt, session.ExpiresAt)
	return err
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := s.db.QueryRowContext(ctx,
		"SELECT token, identity_id, created_at, expires_at FROM sessions WHERE token = $1",
		token).Scan(&session.Token, &session.IdentityID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *Storage) ExpireSession(ctx context.Context, token string, at time.Time) error {
	// Soft expiry; a missing token is not an error
	_, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET expires_at = $1 WHERE token = $2", at, token)
	return err
}

// Stats operations

func (s *Storage) GetStats(ctx context.Context, id model.IdentityID) (*model.PlayerStats, error) {
	var stats model.PlayerStats
	err := s.db.QueryRowContext(ctx,
		`SELECT identity_id, kills, deaths, assists, headshots, matches_played,
		    matches_won, playtime_hours, level, experience, rank_position, updated_at
		 FROM player_stats WHERE identity_id = $1`, string(id)).Scan(
		&stats.IdentityID, &stats.Kills, &stats.Deaths, &stats.Assists, &stats.Headshots,
		&stats.MatchesPlayed, &stats.MatchesWon, &stats.PlaytimeHours, &stats.Level,
		&stats.Experience, &stats.RankPosition, &stats.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}
	return &stats, nil
}

func (s *Storage) PatchStats(ctx context.Context, id model.IdentityID, fields map[string]int64, updatedAt time.Time) error {
	if len(fields) == 0 {
		return nil
	}

	// Build the SET clause over the fixed field order so the statement
	// is deterministic; field names come from model.StatFields, never
	// from client input directly
	assignments := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for _, field := range model.StatFields {
		value, ok := fields[field]
		if !ok {
			continue
		}
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", field, len(args)))
	}
	args = append(args, updatedAt)
	assignments = append(assignments, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, string(id))

	query := fmt.Sprintf("UPDATE player_stats SET %s WHERE identity_id = $%d",
		strings.Join(assignments, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrStatsNotFound
	}
	return nil
}

func (s *Storage) CountRankedAbove(ctx context.Context, kills int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM player_stats WHERE kills > $1", kills).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Storage) SetRankPosition(ctx context.Context, id model.IdentityID, rank int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE player_stats SET rank_position = $1 WHERE identity_id = $2", rank, string(id))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrStatsNotFound
	}
	return nil
}
