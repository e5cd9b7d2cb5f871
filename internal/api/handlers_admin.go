// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package api

import (
	"math"
	"net/http"
	"time"

	"github.com/roomatch/roomatch/internal/recommend"
)

// reportWindow bounds how far back the admin reports look.
const reportWindow = 30 * 24 * time.Hour

type adminOverview struct {
	TotalUsers        int             `json:"total_users"`
	CompletedProfiles int             `json:"completed_profiles"`
	MatchesComputed   int             `json:"matches_computed"`
	AverageScore      float64         `json:"average_score"`
	Engine            recommend.Stats `json:"engine"`
}

// scoreBucket is one bar of the compatibility histogram.
type scoreBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type compatibilityReport struct {
	Since   time.Time     `json:"since"`
	Total   int           `json:"total"`
	Vetoed  int           `json:"vetoed"`
	Buckets []scoreBucket `json:"buckets"`
}

// handleAdminOverview returns service-level counters: member counts,
// match volume over the report window, and engine cache statistics.
// GET /api/v1/admin/metrics/overview
func (s *Server) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	total, completed, err := s.store.CountUsers(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	records, err := s.store.ListMatchesSince(r.Context(), time.Now().Add(-reportWindow))
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	var sum int
	for _, rec := range records {
		sum += rec.Total
	}
	avg := 0.0
	if len(records) > 0 {
		avg = math.Round(float64(sum)/float64(len(records))*100) / 100
	}

	rw.Success(adminOverview{
		TotalUsers:        total,
		CompletedProfiles: completed,
		MatchesComputed:   len(records),
		AverageScore:      avg,
		Engine:            s.engine.Stats(),
	})
}

// handleCompatibilityReport buckets recent match totals into a
// five-band histogram. Vetoed pairs persist with a zero total and are
// counted separately so they do not distort the lowest band.
// GET /api/v1/admin/reports/compatibility
func (s *Server) handleCompatibilityReport(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	since := time.Now().Add(-reportWindow)
	records, err := s.store.ListMatchesSince(r.Context(), since)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	buckets := []scoreBucket{
		{Range: "0-19"},
		{Range: "20-39"},
		{Range: "40-59"},
		{Range: "60-79"},
		{Range: "80-100"},
	}
	vetoed := 0
	for _, rec := range records {
		if rec.Total == 0 {
			vetoed++
			continue
		}
		idx := rec.Total / 20
		if idx > 4 {
			idx = 4
		}
		buckets[idx].Count++
	}

	rw.Success(compatibilityReport{
		Since:   since,
		Total:   len(records),
		Vetoed:  vetoed,
		Buckets: buckets,
	})
}
