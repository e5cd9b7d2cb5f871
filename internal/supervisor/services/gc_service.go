// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package services

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/roomatch/roomatch/internal/metrics"
)

// ValueLogGC is the slice of the store the GC loop needs.
type ValueLogGC interface {
	RunValueLogGC(discardRatio float64) error
}

// BadgerGCService periodically runs Badger's value-log garbage
// collection. Badger never reclaims value-log space on its own; without
// this loop the data directory grows monotonically.
type BadgerGCService struct {
	db           ValueLogGC
	interval     time.Duration
	discardRatio float64
	logger       zerolog.Logger
}

// NewBadgerGCService creates the GC loop.
func NewBadgerGCService(db ValueLogGC, interval time.Duration, discardRatio float64, logger zerolog.Logger) *BadgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if discardRatio <= 0 || discardRatio > 1 {
		discardRatio = 0.5
	}
	return &BadgerGCService{
		db:           db,
		interval:     interval,
		discardRatio: discardRatio,
		logger:       logger.With().Str("service", "badger-gc").Logger(),
	}
}

// Serve implements suture.Service.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("interval", s.interval).
		Float64("discard_ratio", s.discardRatio).
		Msg("value-log GC loop running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.collect(ctx)
		}
	}
}

// collect runs GC rounds until Badger reports nothing left to rewrite.
// One successful call rewrites at most one value-log file.
func (s *BadgerGCService) collect(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		err := s.db.RunValueLogGC(s.discardRatio)
		switch {
		case err == nil:
			metrics.BadgerGCRuns.WithLabelValues("reclaimed").Inc()
			s.logger.Debug().Msg("value-log file reclaimed")
		case errors.Is(err, badger.ErrNoRewrite):
			metrics.BadgerGCRuns.WithLabelValues("nothing").Inc()
			return
		default:
			metrics.BadgerGCRuns.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("value-log GC failed")
			return
		}
	}
}

// String identifies the service in supervisor logs.
func (s *BadgerGCService) String() string {
	return "badger-gc"
}
