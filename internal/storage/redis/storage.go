package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// The kills leaderboard is kept in a sorted set so rank counting is a
// single ZCOUNT rather than a scan.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	data, err := s.client.Get(ctx, identityKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}

	var identity model.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (s *Storage) GetIdentityBySteamID(ctx context.Context, steamID string) (*model.Identity, error) {
	idStr, err := s.client.Get(ctx, steamIndexKey(steamID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}

	return s.GetIdentity(ctx, model.IdentityID(idStr))
}

func (s *Storage) CreateIdentityWithStats(ctx context.Context, identity *model.Identity, stats *model.PlayerStats) error {
	identityData, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	statsData, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	// SETNX on the steam id index is the uniqueness guard; the loser
	// of a concurrent create sees it already set
	ok, err := s.client.SetNX(ctx, steamIndexKey(identity.SteamID), string(identity.ID), 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrSteamIDExists
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, identityKey(identity.ID), identityData, 0)
	pipe.Set(ctx, statsKey(stats.IdentityID), statsData, 0)
	pipe.ZAdd(ctx, killsLeaderboardKey, redis.Z{
		Score:  float64(stats.Kills),
		Member: string(stats.IdentityID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RefreshIdentityProfile(ctx context.Context, id model.IdentityID, displayName, avatarURL, profileURL string, lastLogin time.Time) error {
	identity, err := s.GetIdentity(ctx, id)
	if err != nil {
		return err
	}

	identity.DisplayName = displayName
	identity.AvatarURL = avatarURL
	identity.ProfileURL = profileURL
	identity.LastLogin = lastLogin

	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, identityKey(id), data, 0).Err()
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	// No TTL: revoked and expired sessions are kept as an audit trail
	return s.client.Set(ctx, sessionKey(session.Token), data, 0).Err()
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) ExpireSession(ctx context.Context, token string, at time.Time) error {
	session, err := s.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	session.ExpiresAt = at

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(token), data, 0).Err()
}

// Stats operations

func (s *Storage) GetStats(ctx context.Context, id model.IdentityID) (*model.PlayerStats, error) {
	data, err := s.client.Get(ctx, statsKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}

	var stats model.PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Storage) PatchStats(ctx context.Context, id model.IdentityID, fields map[string]int64, updatedAt time.Time) error {
	stats, err := s.GetStats(ctx, id)
	if err != nil {
		return err
	}

	for field, value := range fields {
		switch field {
		case "kills":
			stats.Kills = value
		case "deaths":
			stats.Deaths = value
		case "assists":
			stats.Assists = value
		case "headshots":
			stats.Headshots = value
		case "matches_played":
			stats.MatchesPlayed = value
		case "matches_won":
			stats.MatchesWon = value
		case "playtime_hours":
			stats.PlaytimeHours = value
		case "level":
			stats.Level = value
		case "experience":
			stats.Experience = value
		}
	}
	stats.UpdatedAt = updatedAt

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, statsKey(id), data, 0)
	pipe.ZAdd(ctx, killsLeaderboardKey, redis.Z{
		Score:  float64(stats.Kills),
		Member: string(id),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) CountRankedAbove(ctx context.Context, kills int64) (int, error) {
	count, err := s.client.ZCount(ctx, killsLeaderboardKey, fmt.Sprintf("(%d", kills), "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *Storage) SetRankPosition(ctx context.Context, id model.IdentityID, rank int) error {
	stats, err := s.GetStats(ctx, id)
	if err != nil {
		return err
	}

	stats.RankPosition = rank

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, statsKey(id), data, 0).Err()
}
