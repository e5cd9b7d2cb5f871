// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

// Package metrics defines the service's Prometheus collectors:
// API latency and throughput, matching engine activity, recommendation
// cache efficiency, and messaging volume. Collectors register through
// promauto at package load; the /metrics endpoint exposes them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomatch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roomatch_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roomatch_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Matching engine metrics
	MatchComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomatch_match_computations_total",
			Help: "Total number of pair-score computations served",
		},
		[]string{"kind"}, // "recommend", "pair", "recompute"
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roomatch_recommend_cache_hits_total",
			Help: "Recommendation cache hits",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roomatch_recommend_cache_misses_total",
			Help: "Recommendation cache misses",
		},
	)

	RecommendCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roomatch_recommend_cache_entries",
			Help: "Current recommendation cache entry count",
		},
	)

	// Messaging metrics
	MessagesPostedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roomatch_messages_posted_total",
			Help: "Total messages posted across all threads",
		},
	)

	ThreadsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roomatch_threads_created_total",
			Help: "Total conversation threads created",
		},
	)

	// Store metrics
	BadgerGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomatch_badger_gc_runs_total",
			Help: "Badger value-log GC passes by outcome",
		},
		[]string{"outcome"}, // "reclaimed", "nothing", "error"
	)
)

// ObserveAPIRequest records one completed request.
func ObserveAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
