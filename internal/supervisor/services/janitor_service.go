// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomatch/roomatch/internal/metrics"
)

// CacheSweeper is the slice of the recommendation engine the janitor
// needs.
type CacheSweeper interface {
	// SweepCache drops expired entries and returns how many it removed.
	SweepCache() int

	// CacheSize returns the current entry count.
	CacheSize() int
}

// CacheJanitorService periodically sweeps expired recommendation lists
// out of the engine cache and keeps the cache-size gauge current.
// Without it, entries for inactive users would sit in memory until
// their keys happened to be read again.
type CacheJanitorService struct {
	engine   CacheSweeper
	interval time.Duration
	logger   zerolog.Logger
}

// NewCacheJanitorService creates the janitor loop.
func NewCacheJanitorService(engine CacheSweeper, interval time.Duration, logger zerolog.Logger) *CacheJanitorService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &CacheJanitorService{
		engine:   engine,
		interval: interval,
		logger:   logger.With().Str("service", "cache-janitor").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed := s.engine.SweepCache()
			size := s.engine.CacheSize()
			metrics.RecommendCacheEntries.Set(float64(size))
			if removed > 0 {
				s.logger.Debug().
					Int("removed", removed).
					Int("remaining", size).
					Msg("swept expired recommendation lists")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (s *CacheJanitorService) String() string {
	return "cache-janitor"
}
