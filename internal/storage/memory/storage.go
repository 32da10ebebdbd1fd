package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	identities   map[model.IdentityID]*model.Identity
	steamIDIndex map[string]model.IdentityID
	sessions     map[string]*model.Session
	stats        map[model.IdentityID]*model.PlayerStats
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		identities:   make(map[model.IdentityID]*model.Identity),
		steamIDIndex: make(map[string]model.IdentityID),
		sessions:     make(map[string]*model.Session),
		stats:        make(map[model.IdentityID]*model.PlayerStats),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[id]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	cp := *identity
	return &cp, nil
}

func (s *Storage) GetIdentityBySteamID(ctx context.Context, steamID string) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.steamIDIndex[steamID]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	identity, ok := s.identities[id]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	cp := *identity
	return &cp, nil
}

func (s *Storage) CreateIdentityWithStats(ctx context.Context, identity *model.Identity, stats *model.PlayerStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.steamIDIndex[identity.SteamID]; ok {
		return model.ErrSteamIDExists
	}
	identityCp := *identity
	statsCp := *stats
	s.identities[identity.ID] = &identityCp
	s.steamIDIndex[identity.SteamID] = identity.ID
	s.stats[stats.IdentityID] = &statsCp
	return nil
}

func (s *Storage) RefreshIdentityProfile(ctx context.Context, id model.IdentityID, displayName, avatarURL, profileURL string, lastLogin time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[id]
	if !ok {
		return model.ErrIdentityNotFound
	}
	identity.DisplayName = displayName
	identity.AvatarURL = avatarURL
	identity.ProfileURL = profileURL
	identity.LastLogin = lastLogin
	return nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.Token] = &cp
	return nil
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *Storage) ExpireSession(ctx context.Context, token string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil
	}
	session.ExpiresAt = at
	return nil
}

// Stats operations

func (s *Storage) GetStats(ctx context.Context, id model.IdentityID) (*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[id]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	cp := *stats
	return &cp, nil
}

func (s *Storage) PatchStats(ctx context.Context, id model.IdentityID, fields map[string]int64, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.stats[id]
	if !ok {
		return model.ErrStatsNotFound
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
	return nil
}

func (s *Storage) CountRankedAbove(ctx context.Context, kills int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, stats := range s.stats {
		if stats.Kills > kills {
			count++
		}
	}
	return count, nil
}

func (s *Storage) SetRankPosition(ctx context.Context, id model.IdentityID, rank int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.stats[id]
	if !ok {
		return model.ErrStatsNotFound
	}
	stats.RankPosition = rank
	return nil
}
