// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It uses 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct and 'go-playground/validator' to reject inconsistent values before
any connection is opened. In development an optional .env file is read
first with 'joho/godotenv'; real environment variables always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, mail) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the YaMDb API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080" validate:"required,numeric"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development" validate:"oneof=development staging production test"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis) for single-use confirmation codes
	RedisURL string `env:"REDIS_URL,required" validate:"required"`

	// SessionSecret is the root secret confirmation-code keys are derived from.
	SessionSecret  string `env:"SESSION_SECRET,required" validate:"min=32"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required" validate:"required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required" validate:"required"`

	// Token lifetimes
	AccessTokenTTL      time.Duration `env:"ACCESS_TOKEN_TTL"      envDefault:"24h" validate:"gt=0"`
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL" envDefault:"72h" validate:"gt=0"`

	// Outgoing mail. An empty host logs messages instead of sending them,
	// which is only accepted outside production.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"      envDefault:"587" validate:"min=1,max=65535"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"      envDefault:"noreply@yamdb.local" validate:"required,email"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS"   envDefault:"false"`

	// AuthRateLimit is the number of /auth requests allowed per IP per minute.
	AuthRateLimit int `env:"AUTH_RATE_LIMIT" envDefault:"20" validate:"min=1"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load reads an optional .env file, parses environment variables into a
// [Config] and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}

	cfg := &Config{}

	// Fails if any field marked 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			failed := make([]string, 0, len(fieldErrors))
			for _, fieldError := range fieldErrors {
				failed = append(failed, fmt.Sprintf("%s (%s)", fieldError.Field(), fieldError.Tag()))
			}
			return fmt.Errorf("config: invalid values: %s", strings.Join(failed, ", "))
		}
		return fmt.Errorf("config: %w", err)
	}

	if c.IsProduction() && c.SMTPHost == "" {
		return fmt.Errorf("config: SMTP_HOST is required in production")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
