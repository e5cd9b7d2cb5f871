// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomatch/roomatch/internal/match"
	"github.com/roomatch/roomatch/internal/metrics"
	"github.com/roomatch/roomatch/internal/models"
	"github.com/roomatch/roomatch/internal/store"
)

// ErrProfileIncomplete is returned when a pair score is requested but
// one side has not completed the lifestyle questionnaire.
var ErrProfileIncomplete = errors.New("lifestyle profile incomplete")

// Store is the data the engine needs. Implemented by the store package;
// tests substitute an in-memory fake.
type Store interface {
	// GetUser returns a user by ID.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// GetProfile returns a user's lifestyle profile.
	GetProfile(ctx context.Context, userID string) (*models.LifestyleProfile, error)

	// ListUsers returns the full candidate pool.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// PutMatch persists a computed pair score.
	PutMatch(ctx context.Context, record *models.MatchRecord) error
}

// Engine computes and caches roommate recommendations.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	store  Store
	cache  *Cache

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
}

// Stats is a snapshot of engine counters for the admin overview.
type Stats struct {
	Requests    int64 `json:"requests"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Errors      int64 `json:"errors"`
	CacheSize   int   `json:"cache_size"`
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, st Store, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		store:  st,
		cache:  NewCache(cfg.Cache),
	}, nil
}

// Recommend returns the top candidates for a user, best first. A user
// without a completed profile gets an empty list, not an error.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) ([]models.Recommendation, error) {
	start := time.Now()
	e.requestCount.Add(1)
	limit = e.config.clampLimit(limit)

	logger := e.logger.With().
		Str("user_id", userID).
		Int("limit", limit).
		Logger()

	if recs, ok := e.cache.Get(userID, limit); ok {
		e.cacheHits.Add(1)
		metrics.RecommendCacheHits.Inc()
		logger.Debug().
			Dur("duration", time.Since(start)).
			Msg("recommendations served from cache")
		return recs, nil
	}
	e.cacheMisses.Add(1)
	metrics.RecommendCacheMisses.Inc()

	self, err := e.loadSide(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) || errors.Is(err, store.ErrProfileNotFound) {
			logger.Debug().Msg("no profile, returning empty recommendations")
			return []models.Recommendation{}, nil
		}
		e.errorCount.Add(1)
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}

	candidates, err := e.store.ListUsers(ctx)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	scored := e.scoreCandidates(ctx, self, candidates)

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].pairScore.Total != scored[j].pairScore.Total {
			return scored[i].pairScore.Total > scored[j].pairScore.Total
		}
		return scored[i].user.ID < scored[j].user.ID
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	e.persistScores(ctx, scored, logger)

	recs := make([]models.Recommendation, 0, len(scored))
	for _, c := range scored {
		recs = append(recs, models.Recommendation{
			User:      c.user.Public(),
			Score:     c.pairScore.Total,
			Breakdown: c.pairScore.Breakdown,
		})
	}

	e.cache.Set(userID, limit, recs)

	logger.Info().
		Int("candidates", len(candidates)).
		Int("results", len(recs)).
		Dur("duration", time.Since(start)).
		Msg("recommendations computed")
	return recs, nil
}

// PairScore computes the live compatibility of one pair. Unlike
// Recommend, an incomplete profile on either side is an error so the
// API can distinguish "no data" from "low score".
func (e *Engine) PairScore(ctx context.Context, userID, otherID string) (*models.PairScore, error) {
	a, err := e.loadSide(ctx, userID)
	if err != nil {
		return nil, e.pairSideError(userID, err)
	}
	b, err := e.loadSide(ctx, otherID)
	if err != nil {
		return nil, e.pairSideError(otherID, err)
	}

	res := match.Score(a, b, e.config.Weights)

	if err := e.store.PutMatch(ctx, &models.MatchRecord{
		UserAID:    userID,
		UserBID:    otherID,
		Total:      res.Total,
		Breakdown:  res.Breakdown,
		ComputedAt: time.Now().UTC(),
	}); err != nil {
		// Persistence is best-effort; the caller still gets the score.
		e.logger.Warn().Err(err).
			Str("user_id", userID).
			Str("other_id", otherID).
			Msg("failed to persist pair score")
	}
	return &res, nil
}

// Recompute drops the user's cached lists and recomputes fresh
// recommendations.
func (e *Engine) Recompute(ctx context.Context, userID string, limit int) ([]models.Recommendation, error) {
	e.InvalidateUser(userID)
	return e.Recommend(ctx, userID, limit)
}

// InvalidateAll empties the whole recommendation cache, every user and
// limit. Profile changes affect other users' lists too (the changed
// user appears as a candidate), so invalidation is deliberately coarse.
func (e *Engine) InvalidateAll() {
	e.cache.Clear()
}

// InvalidateUser drops cached recommendations for one user. Cheaper
// than InvalidateAll when only that user's view needs refreshing.
func (e *Engine) InvalidateUser(userID string) {
	e.cache.InvalidateUser(userID)
}

// SweepCache removes expired cache entries. The janitor service calls
// this on a timer.
func (e *Engine) SweepCache() int {
	return e.cache.SweepExpired()
}

// CacheSize returns the current number of cached lists.
func (e *Engine) CacheSize() int {
	return e.cache.Len()
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:    e.requestCount.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
		Errors:      e.errorCount.Load(),
		CacheSize:   e.cache.Len(),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// loadSide fetches one side of a pair: account plus completed profile.
// A stored profile whose completed flag is still off counts as missing,
// so both sides of a pair use the same eligibility gate as candidates
// in scoreCandidates.
func (e *Engine) loadSide(ctx context.Context, userID string) (match.Input, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return match.Input{}, err
	}
	if !user.ProfileCompleted {
		return match.Input{}, store.ErrProfileNotFound
	}
	profile, err := e.store.GetProfile(ctx, userID)
	if err != nil {
		return match.Input{}, err
	}
	return match.Input{User: user, Profile: profile}, nil
}

func (e *Engine) pairSideError(userID string, err error) error {
	if errors.Is(err, store.ErrProfileNotFound) {
		return fmt.Errorf("user %s: %w", userID, ErrProfileIncomplete)
	}
	return fmt.Errorf("load user %s: %w", userID, err)
}

// scoredCandidate pairs a candidate with their score against the
// requesting user.
type scoredCandidate struct {
	user      *models.User
	pairScore models.PairScore
}

// scoreCandidates fans the candidate pool out over a bounded worker
// pool. Candidates without a completed profile, vetoed pairs, and
// zero-total pairs are dropped.
func (e *Engine) scoreCandidates(ctx context.Context, self match.Input, candidates []*models.User) []scoredCandidate {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		sem    = make(chan struct{}, e.config.MaxConcurrency)
		scored []scoredCandidate
	)

	for _, candidate := range candidates {
		if candidate.ID == self.User.ID || !candidate.ProfileCompleted {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(candidate *models.User) {
			defer wg.Done()
			defer func() { <-sem }()

			profile, err := e.store.GetProfile(ctx, candidate.ID)
			if err != nil {
				if !errors.Is(err, store.ErrProfileNotFound) {
					e.logger.Warn().Err(err).
						Str("candidate_id", candidate.ID).
						Msg("failed to load candidate profile")
				}
				return
			}

			res := match.Score(self, match.Input{User: candidate, Profile: profile}, e.config.Weights)
			if res.Total <= 0 {
				return
			}

			mu.Lock()
			scored = append(scored, scoredCandidate{user: candidate, pairScore: res})
			mu.Unlock()
		}(candidate)
	}
	wg.Wait()

	return scored
}

// persistScores upserts the returned pair scores. Failures are logged
// and swallowed: persistence must never fail a recommendation request.
func (e *Engine) persistScores(ctx context.Context, scored []scoredCandidate, logger zerolog.Logger) {
	var wg sync.WaitGroup
	now := time.Now().UTC()

	for _, c := range scored {
		wg.Add(1)
		go func(c scoredCandidate) {
			defer wg.Done()
			err := e.store.PutMatch(ctx, &models.MatchRecord{
				UserAID:    c.pairScore.UserID,
				UserBID:    c.pairScore.CandidateID,
				Total:      c.pairScore.Total,
				Breakdown:  c.pairScore.Breakdown,
				ComputedAt: now,
			})
			if err != nil {
				logger.Warn().Err(err).
					Str("candidate_id", c.pairScore.CandidateID).
					Msg("failed to persist match record")
			}
		}(c)
	}
	wg.Wait()
}
