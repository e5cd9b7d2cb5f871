// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

// Package main is the entry point for the Roomatch server.
//
// Roomatch matches university students with compatible roommates. It
// scores lifestyle questionnaires pairwise, serves ranked
// recommendations, and hosts the messaging threads members use to talk
// to their matches.
//
// Startup order:
//
//  1. Configuration: defaults, optional YAML file, environment (koanf)
//  2. Logging: zerolog, configured from the loaded settings
//  3. Storage: BadgerDB at DATABASE_PATH
//  4. Matching engine: scorer, cache, persistence
//  5. Supervisor tree: HTTP server, value-log GC, cache janitor
//
// The server shuts down gracefully on SIGINT and SIGTERM: the listener
// stops accepting connections, in-flight requests get the configured
// shutdown timeout, and storage closes last.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/roomatch/roomatch/internal/api"
	"github.com/roomatch/roomatch/internal/auth"
	"github.com/roomatch/roomatch/internal/config"
	"github.com/roomatch/roomatch/internal/logging"
	"github.com/roomatch/roomatch/internal/recommend"
	"github.com/roomatch/roomatch/internal/store"
	"github.com/roomatch/roomatch/internal/supervisor"
	"github.com/roomatch/roomatch/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, so this uses the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("allowed_email_domain", cfg.Security.AllowedEmailDomain).
		Msg("Starting Roomatch")

	st, err := store.Open(cfg.Database.Path, logging.WithComponent("store"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()

	engine, err := recommend.NewEngine(&cfg.Matching, st, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create matching engine")
	}

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token signing")
	}

	server := api.NewServer(cfg, st, engine, jwtManager)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// The supervisor logs through slog; bridge it to zerolog.
	slogLogger := logging.NewSlogLogger(logging.WithComponent("supervisor"))

	tree := supervisor.NewTree(slogLogger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))
	tree.AddMaintenanceService(services.NewBadgerGCService(
		st, cfg.Database.GCInterval, cfg.Database.GCDiscardRatio, logging.Logger()))
	tree.AddMaintenanceService(services.NewCacheJanitorService(
		engine, cfg.Matching.Cache.TTL/4, logging.Logger()))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Info().Msg("Starting supervisor tree")
	err = <-tree.ServeBackground(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")

		if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
			for _, svc := range report {
				logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
			}
		}
		os.Exit(1)
	}

	logging.Info().Msg("Shutdown complete")
}
