// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"my_jwt_secret_key",
}

// Config holds the application configuration loaded from environment
// variables. Both signing secrets are supplied externally and loaded once
// at process start; nothing in the codebase hardcodes them.
type Config struct {
	DBPath        string `env:"YUM_DB_PATH" envDefault:"./data/yumshare.db"`
	SessionSecret string `env:"YUM_SESSION_SECRET,required"`
	JWTSecret     string `env:"YUM_JWT_SECRET,required"`
	ServerHost    string `env:"YUM_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"YUM_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"YUM_ENV" envDefault:"development"`
	LogLevel      string `env:"YUM_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"YUM_UPLOADS_DIR" envDefault:"./uploads"`

	// Seed credentials for the console admin account (optional).
	AdminUsername string `env:"YUM_ADMIN_USERNAME"`
	AdminPassword string `env:"YUM_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MinSecretLength is the minimum required length for signing secrets.
const MinSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	for name, secret := range map[string]string{
		"YUM_SESSION_SECRET": cfg.SessionSecret,
		"YUM_JWT_SECRET":     cfg.JWTSecret,
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
			slog.Warn(name + " has low character diversity; " +
				"consider generating a random secret with: openssl rand -base64 32")
		}
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character
// classes (lowercase, uppercase, digits, special characters).
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
