// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roomatch/roomatch/internal/auth"
	"github.com/roomatch/roomatch/internal/metrics"
	"github.com/roomatch/roomatch/internal/recommend"
	"github.com/roomatch/roomatch/internal/store"
)

// handleListMatches returns ranked roommate recommendations for the
// authenticated user. An incomplete profile yields an empty list, not
// an error, so clients can always render the page.
// GET /api/v1/matches?limit=N
func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit := queryInt(r, "limit", 0)
	metrics.MatchComputationsTotal.WithLabelValues("recommend").Inc()
	// Recommend maps a missing user or profile to an empty list, so
	// any error here is a real storage failure.
	recs, err := s.engine.Recommend(r.Context(), auth.UserIDFromContext(r.Context()), limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.SuccessWithPagination(recs, &PaginationMeta{
		Count: len(recs),
		Limit: limit,
	})
}

// handleRecomputeMatches bypasses the cache and rebuilds the list.
// POST /api/v1/matches/recompute
func (s *Server) handleRecomputeMatches(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit := queryInt(r, "limit", 0)
	metrics.MatchComputationsTotal.WithLabelValues("recompute").Inc()
	recs, err := s.engine.Recompute(r.Context(), auth.UserIDFromContext(r.Context()), limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.SuccessWithPagination(recs, &PaginationMeta{
		Count: len(recs),
		Limit: limit,
	})
}

// handlePairScore returns the full compatibility breakdown between the
// authenticated user and one specific candidate.
// GET /api/v1/matches/with/{id}
func (s *Server) handlePairScore(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	otherID := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())
	if otherID == "" {
		rw.BadRequest("Missing user ID")
		return
	}
	if otherID == userID {
		rw.BadRequest("Cannot score an account against itself")
		return
	}

	metrics.MatchComputationsTotal.WithLabelValues("pair").Inc()
	score, err := s.engine.PairScore(r.Context(), userID, otherID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			rw.NotFound("User not found")
		case errors.Is(err, recommend.ErrProfileIncomplete):
			rw.NotFound("Both lifestyle profiles must be completed first")
		default:
			rw.DatabaseError(err)
		}
		return
	}

	rw.Success(score)
}
