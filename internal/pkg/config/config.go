package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	// BaseURL is the inventory backend API root, including /api/v1.
	BaseURL string `env:"BACKEND_URL,     default=http://localhost:3000/api/v1"`
	Timeout int    `env:"BACKEND_TIMEOUT, default=10"` // seconds
}

type SessionConfig struct {
	CookieName string `env:"SESSION_COOKIE, default=carstock_session"`
	TTLHours   int    `env:"SESSION_TTL,    default=24"`
}

type RedisConfig struct {
	// Addr left empty disables Redis; tokens then live in process memory.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
