package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) createIdentity(id model.IdentityID, steamID string, kills int64) {
	identity := &model.Identity{
		ID:          id,
		SteamID:     steamID,
		DisplayName: "Player " + string(id),
		CreatedAt:   s.now,
		LastLogin:   s.now,
	}
	stats := &model.PlayerStats{IdentityID: id, Kills: kills, UpdatedAt: s.now}
	s.Require().NoError(s.storage.CreateIdentityWithStats(s.ctx, identity, stats))
}

// Identity tests

func (s *StorageSuite) TestCreateAndGetIdentity() {
	s.createIdentity("id-1", "76561198000000001", 0)

	identity, err := s.storage.GetIdentity(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal("76561198000000001", identity.SteamID)
	s.Equal("Player id-1", identity.DisplayName)
}

func (s *StorageSuite) TestGetIdentityNotFound() {
	_, err := s.storage.GetIdentity(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

func (s *StorageSuite) TestGetIdentityBySteamID() {
	s.createIdentity("id-1", "76561198000000001", 0)

	identity, err := s.storage.GetIdentityBySteamID(s.ctx, "76561198000000001")
	s.Require().NoError(err)
	s.Equal(model.IdentityID("id-1"), identity.ID)
}

func (s *StorageSuite) TestGetIdentityBySteamIDNotFound() {
	_, err := s.storage.GetIdentityBySteamID(s.ctx, "76561198000000001")
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

func (s *StorageSuite) TestCreateIdentityWithStatsCreatesStatsRow() {
	s.createIdentity("id-1", "76561198000000001", 0)

	stats, err := s.storage.GetStats(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Zero(stats.Kills)
}

func (s *StorageSuite) TestCreateIdentityDuplicateSteamID() {
	s.createIdentity("id-1", "76561198000000001", 0)

	identity := &model.Identity{ID: "id-2", SteamID: "76561198000000001"}
	stats := &model.PlayerStats{IdentityID: "id-2"}

	err := s.storage.CreateIdentityWithStats(s.ctx, identity, stats)
	s.ErrorIs(err, model.ErrSteamIDExists)

	// the loser must not have left partial state behind
	_, err = s.storage.GetIdentity(s.ctx, "id-2")
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

func (s *StorageSuite) TestRefreshIdentityProfile() {
	s.createIdentity("id-1", "76561198000000001", 0)
	later := s.now.Add(time.Hour)

	err := s.storage.RefreshIdentityProfile(s.ctx, "id-1",
		"NewName", "https://avatars.example/new.jpg", "https://steamcommunity.com/id/new", later)
	s.Require().NoError(err)

	identity, err := s.storage.GetIdentity(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal("NewName", identity.DisplayName)
	s.Equal("https://avatars.example/new.jpg", identity.AvatarURL)
	s.Equal(later, identity.LastLogin)
	s.Equal(s.now, identity.CreatedAt)
}

func (s *StorageSuite) TestRefreshIdentityProfileNotFound() {
	err := s.storage.RefreshIdentityProfile(s.ctx, "nonexistent", "Name", "", "", s.now)
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		Token:      "token-1",
		IdentityID: "id-1",
		CreatedAt:  s.now,
		ExpiresAt:  s.now.Add(time.Hour),
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "token-1")
	s.Require().NoError(err)
	s.Equal(model.IdentityID("id-1"), retrieved.IdentityID)
	s.Equal(session.ExpiresAt, retrieved.ExpiresAt)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestExpireSession() {
	session := &model.Session{
		Token:      "token-1",
		IdentityID: "id-1",
		CreatedAt:  s.now,
		ExpiresAt:  s.now.Add(time.Hour),
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	at := s.now.Add(time.Minute)
	s.Require().NoError(s.storage.ExpireSession(s.ctx, "token-1", at))

	retrieved, err := s.storage.GetSession(s.ctx, "token-1")
	s.Require().NoError(err)
	s.Equal(at, retrieved.ExpiresAt)
}

func (s *StorageSuite) TestExpireSessionUnknownTokenSucceeds() {
	s.NoError(s.storage.ExpireSession(s.ctx, "nonexistent", s.now))
}

// Stats tests

func (s *StorageSuite) TestGetStatsNotFound() {
	_, err := s.storage.GetStats(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *StorageSuite) TestPatchStatsOverwritesOnlyGivenFields() {
	s.createIdentity("id-1", "76561198000000001", 10)

	later := s.now.Add(time.Hour)
	err := s.storage.PatchStats(s.ctx, "id-1",
		map[string]int64{"deaths": 4, "level": 3}, later)
	s.Require().NoError(err)

	stats, err := s.storage.GetStats(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(int64(10), stats.Kills)
	s.Equal(int64(4), stats.Deaths)
	s.Equal(int64(3), stats.Level)
	s.Equal(later, stats.UpdatedAt)
}

func (s *StorageSuite) TestPatchStatsNotFound() {
	err := s.storage.PatchStats(s.ctx, "nonexistent", map[string]int64{"kills": 1}, s.now)
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *StorageSuite) TestCountRankedAbove() {
	s.createIdentity("id-1", "76561198000000001", 100)
	s.createIdentity("id-2", "76561198000000002", 50)
	s.createIdentity("id-3", "76561198000000003", 50)
	s.createIdentity("id-4", "76561198000000004", 10)

	count, err := s.storage.CountRankedAbove(s.ctx, 50)
	s.Require().NoError(err)
	s.Equal(1, count, "equal kills do not count as above")

	count, err = s.storage.CountRankedAbove(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal(3, count)

	count, err = s.storage.CountRankedAbove(s.ctx, 100)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *StorageSuite) TestCountRankedAboveEmpty() {
	count, err := s.storage.CountRankedAbove(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *StorageSuite) TestSetRankPosition() {
	s.createIdentity("id-1", "76561198000000001", 0)

	s.Require().NoError(s.storage.SetRankPosition(s.ctx, "id-1", 7))

	stats, err := s.storage.GetStats(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(7, stats.RankPosition)
}

func (s *StorageSuite) TestSetRankPositionNotFound() {
	err := s.storage.SetRankPosition(s.ctx, "nonexistent", 1)
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *StorageSuite) TestReadsReturnCopies() {
	s.createIdentity("id-1", "76561198000000001", 0)

	identity, _ := s.storage.GetIdentity(s.ctx, "id-1")
	identity.DisplayName = "mutated"

	fresh, err := s.storage.GetIdentity(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal("Player id-1", fresh.DisplayName)
}
