package stats

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/dependencies/mocks"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.storage, s.clock, logger)
	s.ctx = context.Background()
}

func (s *ServiceSuite) createPlayer(id model.IdentityID, kills int64) {
	identity := &model.Identity{
		ID:          id,
		SteamID:     "7656" + string(id),
		DisplayName: "Player " + string(id),
		CreatedAt:   s.clock.Now(),
		LastLogin:   s.clock.Now(),
	}
	stats := &model.PlayerStats{IdentityID: id, Kills: kills, UpdatedAt: s.clock.Now()}
	s.Require().NoError(s.storage.CreateIdentityWithStats(s.ctx, identity, stats))
}

// Get tests

func (s *ServiceSuite) TestGetReturnsIdentityAndStats() {
	s.createPlayer("id-1", 10)

	view, err := s.service.Get(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(model.IdentityID("id-1"), view.Identity.ID)
	s.Equal(int64(10), view.Stats.Kills)
}

func (s *ServiceSuite) TestGetFailsForUnknownIdentity() {
	_, err := s.service.Get(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

func (s *ServiceSuite) TestGetDerivesKDRatio() {
	s.createPlayer("id-1", 0)
	s.Require().NoError(s.storage.PatchStats(s.ctx, "id-1",
		map[string]int64{"kills": 10, "deaths": 3}, s.clock.Now()))

	view, err := s.service.Get(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(3.33, view.Stats.KDRatio)
}

func (s *ServiceSuite) TestGetKDRatioWithZeroDeathsIsKills() {
	s.createPlayer("id-1", 0)
	s.Require().NoError(s.storage.PatchStats(s.ctx, "id-1",
		map[string]int64{"kills": 40, "deaths": 0}, s.clock.Now()))

	view, err := s.service.Get(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(40.0, view.Stats.KDRatio)
}

func (s *ServiceSuite) TestGetDerivesWinRate() {
	s.createPlayer("id-1", 0)
	s.Require().NoError(s.storage.PatchStats(s.ctx, "id-1",
		map[string]int64{"matches_played": 3, "matches_won": 1}, s.clock.Now()))

	view, err := s.service.Get(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(33.3, view.Stats.WinRate)
}

func (s *ServiceSuite) TestGetWinRateWithNoMatchesIsZero() {
	s.createPlayer("id-1", 5)

	view, err := s.service.Get(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(0.0, view.Stats.WinRate)
}

func (s *ServiceSuite) TestGetDerivesHeadshotRate() {
	s.createPlayer("id-1", 0)
	s.Require().NoError(s.storage.PatchStats(s.ctx, "id-1",
		map[string]int64{"kills": 40, "headshots": 20}, s.clock.Now()))

	view, err := s.service.Get(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(50.0, view.Stats.HeadshotRate)
}

func (s *ServiceSuite) TestGetHeadshotRateWithNoKillsIsZero() {
	s.createPlayer("id-1", 0)

	view, err := s.service.Get(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(0.0, view.Stats.HeadshotRate)
}

// Rank tests

func (s *ServiceSuite) TestRankOfOnlyPlayerIsOne() {
	s.createPlayer("id-1", 0)

	view, err := s.service.Get(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(1, view.Stats.Rank)
}

func (s *ServiceSuite) TestRankCountsPlayersWithMoreKills() {
	s.createPlayer("id-1", 100)
	s.createPlayer("id-2", 50)
	s.createPlayer("id-3", 10)

	view, err := s.service.Get(s.ctx, "id-3")
	s.Require().NoError(err)
	s.Equal(3, view.Stats.Rank)

	view, err = s.service.Get(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(1, view.Stats.Rank)
}

func (s *ServiceSuite) TestTiedPlayersShareRank() {
	s.createPlayer("id-1", 100)
	s.createPlayer("id-2", 50)
	s.createPlayer("id-3", 50)

	for _, id := range []model.IdentityID{"id-2", "id-3"} {
		view, err := s.service.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(2, view.Stats.Rank)
	}
}

func (s *ServiceSuite) TestGetPersistsRecomputedRank() {
	s.createPlayer("id-1", 10)
	s.createPlayer("id-2", 100)

	_, err := s.service.Get(s.ctx, "id-1")
	s.Require().NoError(err)

	stored, err := s.storage.GetStats(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(2, stored.RankPosition)
}

// Update tests

func (s *ServiceSuite) TestUpdateOverwritesFields() {
	s.createPlayer("id-1", 5)

	view, err := s.service.Update(s.ctx, "id-1", map[string]any{
		"kills":  float64(25),
		"deaths": float64(10),
	})
	s.Require().NoError(err)
	s.Equal(int64(25), view.Stats.Kills)
	s.Equal(int64(10), view.Stats.Deaths)
	s.Equal(2.5, view.Stats.KDRatio)
}

func (s *ServiceSuite) TestUpdateLeavesOmittedFieldsUntouched() {
	s.createPlayer("id-1", 0)
	s.Require().NoError(s.storage.PatchStats(s.ctx, "id-1",
		map[string]int64{"kills": 10, "assists": 7}, s.clock.Now()))

	_, err := s.service.Update(s.ctx, "id-1", map[string]any{"kills": float64(20)})
	s.Require().NoError(err)

	stored, err := s.storage.GetStats(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(int64(20), stored.Kills)
	s.Equal(int64(7), stored.Assists)
}

func (s *ServiceSuite) TestUpdateIgnoresUnknownFields() {
	s.createPlayer("id-1", 5)

	view, err := s.service.Update(s.ctx, "id-1", map[string]any{
		"kills":     float64(10),
		"favourite": "ak47",
	})
	s.Require().NoError(err)
	s.Equal(int64(10), view.Stats.Kills)
}

func (s *ServiceSuite) TestUpdateRejectsRankPosition() {
	s.createPlayer("id-1", 5)

	_, err := s.service.Update(s.ctx, "id-1", map[string]any{
		"rank_position": float64(1),
	})
	s.ErrorIs(err, ErrNoValidFields)
}

func (s *ServiceSuite) TestUpdateWithNoValidFieldsWritesNothing() {
	s.createPlayer("id-1", 5)
	before, err := s.storage.GetStats(s.ctx, "id-1")
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	_, err = s.service.Update(s.ctx, "id-1", map[string]any{"bogus": float64(1)})
	s.ErrorIs(err, ErrNoValidFields)

	after, err := s.storage.GetStats(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(before.UpdatedAt, after.UpdatedAt)
}

func (s *ServiceSuite) TestUpdateIgnoresNonNumericValues() {
	s.createPlayer("id-1", 5)

	_, err := s.service.Update(s.ctx, "id-1", map[string]any{"kills": "many"})
	s.ErrorIs(err, ErrNoValidFields)
}

func (s *ServiceSuite) TestUpdateAppliesNumericFieldsAlongsideJunk() {
	s.createPlayer("id-1", 5)

	view, err := s.service.Update(s.ctx, "id-1", map[string]any{
		"kills":  "many",
		"deaths": float64(4),
	})
	s.Require().NoError(err)
	s.Equal(int64(5), view.Stats.Kills)
	s.Equal(int64(4), view.Stats.Deaths)
}

func (s *ServiceSuite) TestUpdateFailsForUnknownIdentity() {
	_, err := s.service.Update(s.ctx, "nobody", map[string]any{"kills": float64(1)})
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *ServiceSuite) TestUpdateStampsUpdatedAt() {
	s.createPlayer("id-1", 5)
	s.clock.Advance(time.Hour)

	_, err := s.service.Update(s.ctx, "id-1", map[string]any{"kills": float64(6)})
	s.Require().NoError(err)

	stored, err := s.storage.GetStats(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), stored.UpdatedAt)
}
