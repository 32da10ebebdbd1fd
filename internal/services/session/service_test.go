package session

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
	s.service = New(s.storage, s.clock, DefaultConfig(), logger)
	s.ctx = context.Background()
}

func (s *ServiceSuite) createIdentity(id model.IdentityID, steamID string) {
	identity := &model.Identity{
		ID:          id,
		SteamID:     steamID,
		DisplayName: "Player",
		CreatedAt:   s.clock.Now(),
		LastLogin:   s.clock.Now(),
	}
	stats := &model.PlayerStats{IdentityID: id, UpdatedAt: s.clock.Now()}
	s.Require().NoError(s.storage.CreateIdentityWithStats(s.ctx, identity, stats))
}

// Issue tests

func (s *ServiceSuite) TestIssueSucceeds() {
	s.createIdentity("id-1", "76561198000000001")

	session, err := s.service.Issue(s.ctx, "id-1")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal(model.IdentityID("id-1"), session.IdentityID)
	s.Equal(s.clock.Now(), session.CreatedAt)
	s.Equal(s.clock.Now().Add(30*24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestIssueTokensAreUnique() {
	s.createIdentity("id-1", "76561198000000001")

	first, err := s.service.Issue(s.ctx, "id-1")
	s.Require().NoError(err)
	second, err := s.service.Issue(s.ctx, "id-1")
	s.Require().NoError(err)

	s.NotEqual(first.Token, second.Token)
}

func (s *ServiceSuite) TestIssuePersistsSession() {
	s.createIdentity("id-1", "76561198000000001")

	session, _ := s.service.Issue(s.ctx, "id-1")

	stored, err := s.storage.GetSession(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(model.IdentityID("id-1"), stored.IdentityID)
}

// Verify tests

func (s *ServiceSuite) TestVerifySucceeds() {
	s.createIdentity("id-1", "76561198000000001")
	session, _ := s.service.Issue(s.ctx, "id-1")

	identity, err := s.service.Verify(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(model.IdentityID("id-1"), identity.ID)
	s.Equal("76561198000000001", identity.SteamID)
}

func (s *ServiceSuite) TestVerifyFailsWithUnknownToken() {
	_, err := s.service.Verify(s.ctx, "unknown-token")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestVerifyFailsWhenExpired() {
	s.createIdentity("id-1", "76561198000000001")
	session, _ := s.service.Issue(s.ctx, "id-1")

	s.clock.Advance(30*24*time.Hour + time.Second)

	_, err := s.service.Verify(s.ctx, session.Token)
	s.ErrorIs(err, model.ErrSessionExpired)
}

func (s *ServiceSuite) TestVerifyFailsAtExactExpiry() {
	s.createIdentity("id-1", "76561198000000001")
	session, _ := s.service.Issue(s.ctx, "id-1")

	s.clock.Set(session.ExpiresAt)

	_, err := s.service.Verify(s.ctx, session.Token)
	s.ErrorIs(err, model.ErrSessionExpired)
}

func (s *ServiceSuite) TestVerifySucceedsJustBeforeExpiry() {
	s.createIdentity("id-1", "76561198000000001")
	session, _ := s.service.Issue(s.ctx, "id-1")

	s.clock.Set(session.ExpiresAt.Add(-time.Second))

	_, err := s.service.Verify(s.ctx, session.Token)
	s.NoError(err)
}

// Revoke tests

func (s *ServiceSuite) TestRevokeInvalidatesSession() {
	s.createIdentity("id-1", "76561198000000001")
	session, _ := s.service.Issue(s.ctx, "id-1")

	s.Require().NoError(s.service.Revoke(s.ctx, session.Token))

	_, err := s.service.Verify(s.ctx, session.Token)
	s.ErrorIs(err, model.ErrSessionExpired)
}

func (s *ServiceSuite) TestRevokeKeepsSessionRecord() {
	s.createIdentity("id-1", "76561198000000001")
	session, _ := s.service.Issue(s.ctx, "id-1")

	s.Require().NoError(s.service.Revoke(s.ctx, session.Token))

	stored, err := s.storage.GetSession(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), stored.ExpiresAt)
}

func (s *ServiceSuite) TestRevokeUnknownTokenSucceeds() {
	s.NoError(s.service.Revoke(s.ctx, "unknown-token"))
}

func (s *ServiceSuite) TestRevokeIsIdempotent() {
	s.createIdentity("id-1", "76561198000000001")
	session, _ := s.service.Issue(s.ctx, "id-1")

	s.Require().NoError(s.service.Revoke(s.ctx, session.Token))
	firstExpiry := s.mustGetSession(session.Token).ExpiresAt

	s.clock.Advance(time.Hour)
	s.Require().NoError(s.service.Revoke(s.ctx, session.Token))

	s.Equal(firstExpiry, s.mustGetSession(session.Token).ExpiresAt)
}

func (s *ServiceSuite) TestRevokeLeavesOtherSessionsValid() {
	s.createIdentity("id-1", "76561198000000001")
	first, _ := s.service.Issue(s.ctx, "id-1")
	second, _ := s.service.Issue(s.ctx, "id-1")

	s.Require().NoError(s.service.Revoke(s.ctx, first.Token))

	_, err := s.service.Verify(s.ctx, second.Token)
	s.NoError(err)
}

func (s *ServiceSuite) mustGetSession(token string) *model.Session {
	session, err := s.storage.GetSession(s.ctx, token)
	s.Require().NoError(err)
	return session
}
