// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads and validates the application configuration
// from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Execution scopes.
const (
	ScopeProduction  = "production"
	ScopeDevelopment = "development"
	ScopeTest        = "test"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Scope      string `env:"BOUQUINS_SCOPE" envDefault:"development"`
	DBPath     string `env:"BOUQUINS_DB_PATH" envDefault:"./data/bouquins.db"`
	ServerHost string `env:"BOUQUINS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"BOUQUINS_SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"BOUQUINS_LOG_LEVEL" envDefault:"info"`
	SecretsDir string `env:"BOUQUINS_SECRETS_DIR" envDefault:"/run/secrets"`

	// Session configuration (browser surface)
	SessionSecret   string `env:"BOUQUINS_SESSION_SECRET,required"`
	SessionTTLHours int    `env:"BOUQUINS_SESSION_TTL_HOURS" envDefault:"24"`

	// API token configuration
	JWTSecret       string `env:"BOUQUINS_JWT_SECRET,required"`
	TokenTTLMinutes int    `env:"BOUQUINS_TOKEN_TTL_MINUTES" envDefault:"30"`

	// Password policy thresholds
	PasswordMinLength  int `env:"BOUQUINS_PASSWORD_MIN_LENGTH" envDefault:"10"`
	PasswordMaxLength  int `env:"BOUQUINS_PASSWORD_MAX_LENGTH" envDefault:"75"`
	PasswordMinDigits  int `env:"BOUQUINS_PASSWORD_MIN_DIGITS" envDefault:"1"`
	PasswordMinSpecial int `env:"BOUQUINS_PASSWORD_MIN_SPECIAL" envDefault:"1"`

	// Admin bootstrap credentials
	AdminLogin    string `env:"BOUQUINS_ADMIN_LOGIN" envDefault:"admin"`
	AdminEmail    string `env:"BOUQUINS_ADMIN_EMAIL" envDefault:"admin@localhost.fr"`
	AdminPassword string `env:"BOUQUINS_ADMIN_PASSWORD,required"`

	// CAPTCHA verification
	CaptchaSecret    string `env:"BOUQUINS_CAPTCHA_SECRET"`
	CaptchaSiteKey   string `env:"BOUQUINS_CAPTCHA_SITE_KEY"`
	CaptchaVerifyURL string `env:"BOUQUINS_CAPTCHA_VERIFY_URL" envDefault:"https://api.hcaptcha.com/siteverify"`

	// Mail provider (HTTP API)
	MailAPIKey string `env:"BOUQUINS_MAIL_API_KEY"`
	MailAPIURL string `env:"BOUQUINS_MAIL_API_URL"`
	MailFrom   string `env:"BOUQUINS_MAIL_FROM" envDefault:"no-reply@dummy-ops.dev"`

	// Job broker (NATS JetStream)
	BrokerURL string `env:"BOUQUINS_BROKER_URL" envDefault:"nats://localhost:4222"`

	// PDF job output
	PDFDir      string `env:"BOUQUINS_PDF_DIR" envDefault:"./data/pdf"`
	PDFFileStem string `env:"BOUQUINS_PDF_FILE_STEM" envDefault:"dummy-ops-books"`

	// Static and uploaded images
	StaticImgDir string `env:"BOUQUINS_STATIC_IMG_DIR" envDefault:"./staticfiles/img"`
	UploadsDir   string `env:"BOUQUINS_UPLOADS_DIR" envDefault:"./staticfiles/img"`

	// Listing behaviour
	PageSize int `env:"BOUQUINS_PAGE_SIZE" envDefault:"6"`
	MaxHome  int `env:"BOUQUINS_MAX_HOME" envDefault:"3"`

	// Seeding configuration
	DoSeed           bool   `env:"BOUQUINS_DO_SEED" envDefault:"false"` // Enable demo data seeding
	TestUserPassword string `env:"BOUQUINS_TEST_USER_PWD"`              // Shared password of the demo accounts
}

// IsProduction returns true if the application is running in production scope.
func (c Config) IsProduction() bool {
	return c.Scope == ScopeProduction
}

// IsDevelopment returns true if the application is running in development scope.
func (c Config) IsDevelopment() bool {
	return c.Scope == ScopeDevelopment
}

// IsTest returns true if the application is running in test scope.
func (c Config) IsTest() bool {
	return c.Scope == ScopeTest
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// CaptchaEnabled returns true if CAPTCHA verification is configured.
func (c Config) CaptchaEnabled() bool {
	return c.CaptchaSecret != ""
}

// MailEnabled returns true if the mail provider is configured.
func (c Config) MailEnabled() bool {
	return c.MailAPIKey != "" && c.MailAPIURL != ""
}

// MinSecretLength is the minimum required length for signing secrets.
const MinSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.Scope {
	case ScopeProduction, ScopeDevelopment, ScopeTest:
	default:
		return nil, fmt.Errorf("BOUQUINS_SCOPE must be production, development or test, got %q", cfg.Scope)
	}

	for name, secret := range map[string]string{
		"BOUQUINS_SESSION_SECRET": cfg.SessionSecret,
		"BOUQUINS_JWT_SECRET":     cfg.JWTSecret,
	} {
		if len(secret) < MinSecretLength {
			return nil, fmt.Errorf("%s must be at least %d bytes long, got %d bytes; "+
				"generate a secure secret with: openssl rand -base64 32",
				name, MinSecretLength, len(secret))
		}
		for _, weak := range knownWeakSecrets {
			if secret == weak {
				return nil, fmt.Errorf("%s is a known default value and must not be used; "+
					"generate a secure secret with: openssl rand -base64 32", name)
			}
		}
		if !hasMinimumEntropy(secret) {
			slog.Warn("signing secret has low character diversity; "+
				"consider generating a random secret with: openssl rand -base64 32",
				"name", name)
		}
	}

	if cfg.PasswordMinLength < 1 || cfg.PasswordMaxLength < cfg.PasswordMinLength {
		return nil, fmt.Errorf("invalid password length bounds: min=%d max=%d",
			cfg.PasswordMinLength, cfg.PasswordMaxLength)
	}

	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("BOUQUINS_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
