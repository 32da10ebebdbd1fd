package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/dependencies/mocks"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/session"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/steam"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	FakeSteam *steam.Fake
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	fakeSteam := steam.NewFake()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, fakeSteam, session.DefaultConfig(), logger)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		FakeSteam: fakeSteam,
	}
}
