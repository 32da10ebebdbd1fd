package postgres

import (
	"context"
	"database/sql"
)

const schemaMigration = `
CREATE TABLE IF NOT EXISTS identities (
    id text PRIMARY KEY,
    steam_id text NOT NULL,
    display_name text NOT NULL DEFAULT '',
    avatar_url text NOT NULL DEFAULT '',
    profile_url text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    last_login timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT identities_steam_id_unique UNIQUE (steam_id)
);

CREATE TABLE IF NOT EXISTS sessions (
    token text PRIMARY KEY,
    identity_id text NOT NULL REFERENCES identities(id),
    created_at timestamptz NOT NULL DEFAULT NOW(),
    expires_at timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS sessions_identity_id_idx
ON sessions (identity_id);

CREATE TABLE IF NOT EXISTS player_stats (
    identity_id text PRIMARY KEY REFERENCES identities(id),
    kills bigint NOT NULL DEFAULT 0,
    deaths bigint NOT NULL DEFAULT 0,
    assists bigint NOT NULL DEFAULT 0,
    headshots bigint NOT NULL DEFAULT 0,
    matches_played bigint NOT NULL DEFAULT 0,
    matches_won bigint NOT NULL DEFAULT 0,
    playtime_hours bigint NOT NULL DEFAULT 0,
    level bigint NOT NULL DEFAULT 0,
    experience bigint NOT NULL DEFAULT 0,
    rank_position integer NOT NULL DEFAULT 0,
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS player_stats_kills_idx
ON player_stats (kills);
`

// Migrate creates the schema if it does not exist
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaMigration)
	return err
}
