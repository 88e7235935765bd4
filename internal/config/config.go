// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v10"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config is the full process configuration.
type Config struct {
	Addr   string `env:"ADDR" envDefault:":8080" validate:"required"`
	WebDir string `env:"WEB_DIR" envDefault:"web"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite" validate:"oneof=memory sqlite postgres redis"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/bmitrack.db" validate:"required_if=StorageDriver sqlite"`
	DatabaseURL   string `env:"DATABASE_URL" validate:"required_if=StorageDriver postgres"`
	Redis         Redis  `envPrefix:"REDIS_"`

	// DisableAuth serves the API without login, for single-user setups
	// behind a trusted proxy.
	DisableAuth bool `env:"DISABLE_AUTH" envDefault:"false"`
	OIDC        OIDC `envPrefix:"OIDC_"`

	Log Log `envPrefix:"LOG_"`
}

// Redis configures the redis storage driver.
type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0" validate:"gte=0"`
}

// OIDC configures single sign-on. It is enabled when an issuer is set.
type OIDC struct {
	Issuer       string `env:"ISSUER" validate:"omitempty,url"`
	ClientID     string `env:"CLIENT_ID" validate:"required_with=Issuer"`
	ClientSecret string `env:"CLIENT_SECRET" validate:"required_with=Issuer"`
	RedirectURL  string `env:"REDIRECT_URL" validate:"required_with=Issuer"`
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool {
	return o.Issuer != ""
}

// Log configures the logger.
type Log struct {
	Level      string `env:"LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`
	Format     string `env:"FORMAT" envDefault:"text" validate:"oneof=text json"`
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"10" validate:"gt=0"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"3" validate:"gte=0"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"28" validate:"gte=0"`
}

// Load reads .env files (when present) and the environment, then validates
// the result.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env.local", ".env"}
	}
	for _, f := range files {
		// godotenv never overrides variables already set.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	// Same spelling rules as logging.ParseLevel.
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
