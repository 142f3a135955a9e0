package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/bazar.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// RedisURL enables the cross-instance change-feed backplane when set.
	RedisURL string `env:"REDIS_URL"`

	// Bootstrap admin, created on first start when the admins table is empty.
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@bazar.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"changeme"`

	// CodingRequiresAuth gates the practice coding page behind admin login.
	CodingRequiresAuth bool `env:"CODING_REQUIRES_AUTH" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
