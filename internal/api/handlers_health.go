// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/roomatch/roomatch/internal/store"
)

type healthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// handleHealthLive reports process liveness. It always succeeds while
// the process can serve requests at all.
// GET /api/v1/health/live
func (s *Server) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(healthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

// handleHealthReady reports readiness: the process is up AND storage
// answers reads. The probe looks up a key that never exists; a
// not-found answer proves the read path works.
// GET /api/v1/health/ready
func (s *Server) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	_, err := s.store.GetUser(r.Context(), "readiness-probe")
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		rw.Error(http.StatusServiceUnavailable, ErrCodeDatabaseError, "Storage not ready")
		return
	}

	rw.Success(healthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
	})
}
