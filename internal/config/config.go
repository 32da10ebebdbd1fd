package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration, parsed from the environment
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// StorageType selects the backend: memory, redis, or postgres
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`

	// DatabaseURL is required when StorageType is postgres
	DatabaseURL string `env:"DATABASE_URL"`

	// RedisURL is required when StorageType is redis
	RedisURL string `env:"REDIS_URL"`

	// SteamAPIKey authorizes profile lookups against the Steam Web API
	SteamAPIKey string `env:"STEAM_API_KEY"`

	// SessionTTL is the validity window for issued session tokens
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"720h"`
}

// Load parses configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
