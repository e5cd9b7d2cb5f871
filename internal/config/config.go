// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

// Package config loads and validates service configuration from
// defaults, an optional YAML file, and environment variables, in that
// order of precedence (env wins).
package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/roomatch/roomatch/internal/logging"
	"github.com/roomatch/roomatch/internal/recommend"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig     `koanf:"server"`
	Database DatabaseConfig   `koanf:"database"`
	Security SecurityConfig   `koanf:"security"`
	Matching recommend.Config `koanf:"matching"`
	API      APIConfig        `koanf:"api"`
	Logging  logging.Config   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds BadgerDB settings.
type DatabaseConfig struct {
	// Path is the data directory. Empty means in-memory (tests only).
	Path string `koanf:"path"`

	// GCInterval is how often the value-log GC loop runs.
	GCInterval time.Duration `koanf:"gc_interval"`

	// GCDiscardRatio is passed to Badger's value-log GC.
	GCDiscardRatio float64 `koanf:"gc_discard_ratio"`
}

// SecurityConfig holds authentication and rate-limit settings.
type SecurityConfig struct {
	// JWTSecret signs access tokens. Required, minimum 32 bytes.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the access-token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// AllowedEmailDomain restricts registration to one email domain
	// (e.g. "uni.edu"). Empty allows any domain.
	AllowedEmailDomain string `koanf:"allowed_email_domain"`

	// AdminEmails lists accounts granted the admin role at
	// registration.
	AdminEmails []string `koanf:"admin_emails"`

	// BcryptCost is the password hashing cost.
	BcryptCost int `koanf:"bcrypt_cost"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs / RateLimitWindow bound requests per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// MessageRateLimit bounds messages posted per user per minute.
	MessageRateLimit int `koanf:"message_rate_limit"`
}

// IsAdminEmail reports whether the email is in the admin list.
func (c SecurityConfig) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if strings.ToLower(strings.TrimSpace(admin)) == email {
			return true
		}
	}
	return false
}

// APIConfig holds pagination settings.
type APIConfig struct {
	MessagePageSize int `koanf:"message_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// Default returns the built-in defaults, before file and env layers.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:           "/data/roomatch",
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Security: SecurityConfig{
			JWTSecret:          "",
			TokenTTL:           24 * time.Hour,
			AllowedEmailDomain: "",
			AdminEmails:        []string{},
			BcryptCost:         bcrypt.DefaultCost,
			CORSOrigins:        []string{"*"},
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			MessageRateLimit:   60,
		},
		Matching: *recommend.DefaultConfig(),
		API: APIConfig{
			MessagePageSize: 30,
			MaxPageSize:     100,
		},
		Logging: logging.DefaultConfig(),
	}
}

// minJWTSecretLen guards against trivially brute-forceable HMAC keys.
const minJWTSecretLen = 32

// Validate checks the configuration for startup-blocking problems.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	if c.Database.GCInterval <= 0 {
		return fmt.Errorf("database.gc_interval must be positive, got %v", c.Database.GCInterval)
	}
	if c.Database.GCDiscardRatio <= 0 || c.Database.GCDiscardRatio >= 1 {
		return fmt.Errorf("database.gc_discard_ratio must be in (0, 1), got %v", c.Database.GCDiscardRatio)
	}

	if len(c.Security.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("security.jwt_secret must be at least %d bytes", minJWTSecretLen)
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("security.token_ttl must be positive, got %v", c.Security.TokenTTL)
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("security.bcrypt_cost %d out of range [%d, %d]",
			c.Security.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Security.RateLimitReqs <= 0 || c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security rate limit must be positive")
	}
	if c.Security.MessageRateLimit <= 0 {
		return fmt.Errorf("security.message_rate_limit must be positive, got %d", c.Security.MessageRateLimit)
	}

	if err := c.Matching.Validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}

	if c.API.MessagePageSize <= 0 || c.API.MaxPageSize < c.API.MessagePageSize {
		return fmt.Errorf("api page sizes invalid: message_page_size=%d max_page_size=%d",
			c.API.MessagePageSize, c.API.MaxPageSize)
	}
	return nil
}
