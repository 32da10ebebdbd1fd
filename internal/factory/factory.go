package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/dependencies/clock"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/login"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/session"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/stats"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/steam"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/storage"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/storage/memory"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/storage/postgres"
	redisstorage "github.com/pr-poehali-dev/cs2-gaming-public/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	SessionService *session.Service
	LoginService   *login.Service
	StatsService   *stats.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis", or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// DatabaseURL is the Postgres connection string (required if StorageType is "postgres")
	DatabaseURL string
	// SteamConfig holds Steam client settings
	SteamConfig steam.Config
	// SessionConfig holds session service settings (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DatabaseURL required when StorageType is postgres")
		}
		pgStore, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store = pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis', or 'postgres'")
	}

	// Create external dependencies
	clk := clock.New()
	provider := steam.New(cfg.SteamConfig, logger)

	// Use default session config if not provided
	sessionCfg := cfg.SessionConfig
	if sessionCfg.TokenTTL == 0 {
		sessionCfg = session.DefaultConfig()
	}

	return newWithDependencies(store, clk, provider, sessionCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, provider login.Provider, sessionCfg session.Config, logger *slog.Logger) *App {
	sessionService := session.New(store, clk, sessionCfg, logger)
	loginService := login.New(store, provider, sessionService, clk, logger)
	statsService := stats.New(store, clk, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		SessionService: sessionService,
		LoginService:   loginService,
		StatsService:   statsService,
	}
}
