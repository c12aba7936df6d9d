package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// AdminAccount is granted the admin role at startup. The deployment is
	// responsible for keeping at least one admin at all times.
	AdminAccount string `env:"ADMIN_ACCOUNT, required"`

	// IdentityAuthorityURL seeds the authority pointer on first boot; a
	// persisted admin update takes precedence on restart.
	IdentityAuthorityURL string `env:"IDENTITY_AUTHORITY_URL, required"`

	// VerificationSteps is the fixed length of every product's
	// verification sequence.
	VerificationSteps int `env:"VERIFICATION_STEPS, default=3"`

	EventWorkers int `env:"EVENT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=provenance"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
