// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package recommend

import (
	"fmt"
	"time"

	"github.com/roomatch/roomatch/internal/match"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines how the pair scorer combines its components.
	Weights match.Weights `json:"weights" koanf:"weights"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache contains caching parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`

	// MaxConcurrency bounds the number of candidates scored in
	// parallel per request.
	MaxConcurrency int `json:"max_concurrency" koanf:"max_concurrency"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is the result count when the request does not ask
	// for one.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit is the hard ceiling on requested result counts.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// TTL is how long a computed recommendation list stays valid.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries bounds the cache size; oldest-expiring entries are
	// evicted past this.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: match.DefaultWeights(),
		Limits: LimitsConfig{
			DefaultLimit: 10,
			MaxLimit:     20,
		},
		Cache: CacheConfig{
			TTL:        24 * time.Hour,
			MaxEntries: 10000,
		},
		MaxConcurrency: 8,
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.Limits.DefaultLimit <= 0 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit (%d) must be >= default_limit (%d)",
			c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", c.MaxConcurrency)
	}
	return nil
}

// clampLimit applies the default and ceiling to a requested count.
func (c *Config) clampLimit(requested int) int {
	if requested <= 0 {
		requested = c.Limits.DefaultLimit
	}
	if requested > c.Limits.MaxLimit {
		return c.Limits.MaxLimit
	}
	return requested
}
