// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/roomatch/roomatch/internal/auth"
	"github.com/roomatch/roomatch/internal/config"
	"github.com/roomatch/roomatch/internal/logging"
	"github.com/roomatch/roomatch/internal/recommend"
	"github.com/roomatch/roomatch/internal/store"
)

// Credential endpoints get a much tighter per-IP limit than the rest
// of the API to slow down stuffing attempts.
const (
	authRateLimitReqs   = 10
	authRateLimitWindow = time.Minute
)

// Server wires storage, the matching engine, and auth into HTTP
// handlers. All handler methods hang off this struct.
type Server struct {
	cfg    *config.Config
	store  *store.Store
	engine *recommend.Engine
	jwt    *auth.JWTManager
	hasher *auth.Hasher
	logger zerolog.Logger
}

// NewServer builds the API server from its dependencies.
func NewServer(cfg *config.Config, st *store.Store, engine *recommend.Engine, jwtManager *auth.JWTManager) *Server {
	return &Server{
		cfg:    cfg,
		store:  st,
		engine: engine,
		jwt:    jwtManager,
		hasher: auth.NewHasher(cfg.Security.BcryptCost),
		logger: logging.WithComponent("api"),
	}
}

// Router assembles the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORSHandler(s.cfg.Security.CORSOrigins))
	r.Use(SecurityHeaders())
	r.Use(PrometheusMetrics())

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Get("/live", s.handleHealthLive)
			r.Get("/ready", s.handleHealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(RateLimitByIP(authRateLimitReqs, authRateLimitWindow))

			r.Post("/auth/register", s.handleRegister)
			r.Post("/auth/login", s.handleLogin)
		})

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(RateLimitByIP(s.cfg.Security.RateLimitReqs, s.cfg.Security.RateLimitWindow))
			r.Use(Authenticate(s.jwt))

			r.Get("/me", s.handleGetMe)
			r.Put("/me", s.handleUpdateMe)
			r.Get("/me/profile", s.handleGetMyProfile)
			r.Put("/me/profile", s.handlePutMyProfile)

			r.Get("/users/{id}", s.handleGetUser)

			r.Get("/matches", s.handleListMatches)
			r.Post("/matches/recompute", s.handleRecomputeMatches)
			r.Get("/matches/with/{id}", s.handlePairScore)

			r.Get("/threads", s.handleListThreads)
			r.Post("/threads", s.handleCreateThread)
			r.Get("/threads/{id}/messages", s.handleListMessages)

			r.Group(func(r chi.Router) {
				r.Use(RateLimitByUser(s.cfg.Security.MessageRateLimit, time.Minute))

				r.Post("/threads/{id}/messages", s.handlePostMessage)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireAdmin())

				r.Get("/metrics/overview", s.handleAdminOverview)
				r.Get("/reports/compatibility", s.handleCompatibilityReport)
			})
		})
	})

	return r
}
