package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	AllowOrigins string `env:"ALLOW_ORIGINS" envDefault:"*"`
	AppURL       string `env:"APP_URL" envDefault:"http://localhost:8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"prompt_gallery"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	MinioEndpoint       string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioPublicEndpoint string `env:"MINIO_PUBLIC_ENDPOINT"`
	MinioAccessKey      string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey      string `env:"MINIO_SECRET_KEY"`
	MinioBucket         string `env:"MINIO_BUCKET" envDefault:"prompt-images"`
	MinioUseSSL         bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	// AdminPasswordHash takes precedence over AdminPassword when both are set.
	AdminPassword     string        `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// AdClientID empty disables ad rendering entirely.
	AdClientID  string `env:"AD_CLIENT_ID"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB" envDefault:"15"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}
	if cfg.MinioPublicEndpoint == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		cfg.MinioPublicEndpoint = scheme + "://" + cfg.MinioEndpoint
	}
	return cfg, nil
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}
