// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

// Package main is the entry point for the FlickPulse server.
//
// FlickPulse tracks user interactions with movies and TV shows and maintains
// per-user taste summaries that drive personalized discovery.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file via Koanf v2
//  2. Store: BadgerDB for interaction records and summaries
//  3. Tracking engine: interaction logging and summary computation
//  4. WebSocket hub: live interaction feed for connected clients
//  5. Authentication: optional admin JWT auth
//  6. Event pipeline: embedded NATS JetStream with a Watermill router that
//     refreshes summaries and forwards interactions to the feed
//  7. HTTP server: REST API on chi
//
// Everything long-running is placed under a suture supervisor tree, so a
// crashing subsystem restarts with backoff instead of taking the process
// down.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in defaults.
//
// Admin authentication is optional:
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export ADMIN_USERNAME=admin
//	export ADMIN_PASSWORD=secure-password
//	./flickpulse
//
// With no admin user configured the API runs open, which suits deployments
// behind a trusted reverse proxy.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP server
// drains in-flight requests, the event router stops consuming, and the
// store closes last so every acknowledged write is durable.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/flickpulse/internal/api"
	"github.com/tomtom215/flickpulse/internal/auth"
	"github.com/tomtom215/flickpulse/internal/config"
	"github.com/tomtom215/flickpulse/internal/logging"
	"github.com/tomtom215/flickpulse/internal/store"
	"github.com/tomtom215/flickpulse/internal/supervisor"
	"github.com/tomtom215/flickpulse/internal/supervisor/services"
	"github.com/tomtom215/flickpulse/internal/tracking"
	ws "github.com/tomtom215/flickpulse/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("store_path", cfg.Store.Path).
		Bool("events_enabled", cfg.NATS.Enabled).
		Bool("auth_enabled", cfg.Security.AuthEnabled()).
		Msg("starting flickpulse")

	st, err := store.Open(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing store")
		}
	}()

	tracker := tracking.New(cfg.Tracking, st, tracking.DefaultWeightTable(), logging.Logger())
	hub := ws.NewHub(logging.Logger())
	janitor := tracking.NewJanitor(cfg.Retention, st, logging.Logger())

	var jwtManager *auth.JWTManager
	var creds *auth.CredentialManager
	if cfg.Security.AuthEnabled() {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to initialize JWT manager")
		}
		creds, err = auth.NewCredentialManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to initialize admin credentials")
		}
		logging.Info().Msg("admin authentication enabled")
	} else {
		logging.Warn().Msg("admin authentication disabled, all endpoints are open")
	}

	handler := api.NewHandler(cfg, tracker, hub, creds, jwtManager)

	var eventPipeline *eventComponents
	if cfg.NATS.Enabled {
		eventPipeline, err = initEvents(cfg, tracker, hub)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to initialize event pipeline")
		}
		defer eventPipeline.shutdown()

		router := eventPipeline.router
		handler.AddReadinessCheck(func() bool {
			select {
			case <-router.Running():
				return true
			default:
				return false
			}
		})
		if eventPipeline.server != nil {
			handler.AddReadinessCheck(eventPipeline.server.IsRunning)
		}
		logging.Info().Msg("event pipeline initialized")
	} else {
		logging.Info().Msg("event pipeline disabled, summaries refresh on read only")
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, handler, jwtManager).Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(janitor)
	tree.AddMessagingService(hub)
	if eventPipeline != nil {
		if eventPipeline.server != nil {
			tree.AddMessagingService(services.NewMessagingServerService(eventPipeline.server, 10*time.Second))
		}
		tree.AddMessagingService(eventPipeline.router)
	}
	tree.AddAPIService(services.NewHTTPServerService(httpServer, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", httpServer.Addr).Msg("flickpulse listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor tree exited")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("service did not stop within shutdown timeout")
		}
	}

	logging.Info().Msg("flickpulse stopped")
}
