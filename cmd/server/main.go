// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

// Package main is the entry point for the Feedstage server.
//
// Feedstage serves deterministic mock social-media feeds to study
// participants. Researchers define projects and experiments, upload clips,
// and hand out public feed URLs; the server composes a per-participant
// video order, runs resumable session countdowns, logs interactions, and
// redirects finished participants back to the survey platform that sent
// them.
//
// # Startup order
//
//  1. Configuration: koanf v2 layering defaults, config.yaml, FEEDSTAGE_ env
//  2. Logging: zerolog, configured from the logging section
//  3. Storage: one BadgerDB shared by the catalog and timer state stores
//  4. Events: in-process watermill bus, notifier, audit consumer
//  5. Sessions: timer manager over the persisted state store
//  6. HTTP: chi router with the public feed, session, and end-screen API
//  7. Supervision: suture tree running the server, janitor, and consumer
//
// # Signal handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: the HTTP server drains
// in-flight requests, session runners stop, and BadgerDB closes last so
// every timer write lands.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/feedstage/feedstage/internal/api"
	"github.com/feedstage/feedstage/internal/catalog"
	"github.com/feedstage/feedstage/internal/config"
	"github.com/feedstage/feedstage/internal/events"
	"github.com/feedstage/feedstage/internal/logging"
	"github.com/feedstage/feedstage/internal/session"
	"github.com/feedstage/feedstage/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger; configuration is not available yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Bool("in_memory", cfg.Database.InMemory).
		Msg("Starting Feedstage")

	db, err := openBadger(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	store := catalog.NewBadgerStore(db)
	timerStore := session.NewBadgerStore(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus(events.BusConfig{})
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()
	notifier := events.NewBusNotifier(bus)

	sessions := session.NewManager(timerStore, notifier, session.ManagerConfig{
		TickInterval: cfg.Session.TickInterval,
	})
	defer sessions.Close()

	if cfg.API.SeedDemoData {
		publicURL, err := catalog.SeedDemo(ctx, store)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed demo catalog")
		}
		logging.Info().Str("public_url", publicURL).Msg("Demo catalog seeded")
	}

	handler := api.NewHandler(store, sessions, notifier, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// zerolog bridged to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddDataService(supervisor.NewJanitorService(
		sessions, store, cfg.Session.SweepInterval, cfg.Session.SweepGrace))
	tree.AddEventsService(supervisor.NewConsumerService(
		events.NewAuditConsumer(bus), "audit-consumer"))
	tree.AddAPIService(supervisor.NewHTTPService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Feedstage stopped gracefully")
}

// openBadger opens the shared BadgerDB for catalog documents and persisted
// timer state. Badger's own logger is silenced; operational signal comes
// from the store metrics instead.
func openBadger(cfg *config.Config) (*badger.DB, error) {
	var opts badger.Options
	if cfg.Database.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Database.Path)
	}
	opts = opts.WithLogger(nil)
	return badger.Open(opts)
}
