// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/flickpulse/internal/metrics"
	"github.com/tomtom215/flickpulse/internal/models"
)

// Refresher applies the summary refresh guard for a user. Implemented by
// tracking.Tracker.
type Refresher interface {
	RefreshIfNeeded(ctx context.Context, userID string) (*models.InteractionSummary, error)
}

// Broadcaster pushes a logged interaction to live feed clients. Implemented
// by the WebSocket hub.
type Broadcaster interface {
	BroadcastInteraction(rec *models.InteractionRecord)
}

// Router wraps the Watermill router with retry, panic recovery, and poison
// queue middleware, and runs as a supervised service.
type Router struct {
	router *message.Router
	config RouterConfig
	logger watermill.LoggerAdapter
}

// NewRouter creates the event router. poisonPublisher may be nil when the
// poison queue is disabled.
func NewRouter(cfg RouterConfig, poisonPublisher message.Publisher, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Middleware order: panics become errors, errors retry with backoff,
	// exhausted retries land on the poison queue.
	wmRouter.AddMiddleware(middleware.Recoverer)

	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	if cfg.PoisonQueueEnabled && poisonPublisher != nil && cfg.PoisonQueueTopic != "" {
		poison, err := middleware.PoisonQueue(poisonPublisher, cfg.PoisonQueueTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		wmRouter.AddMiddleware(poison)
	}

	return &Router{
		router: wmRouter,
		config: cfg,
		logger: logger,
	}, nil
}

// AddRefreshHandler consumes interaction events and applies the refresh
// guard for the affected user. The guard makes redeliveries no-ops, so
// at-least-once delivery is safe.
func (r *Router) AddRefreshHandler(sub message.Subscriber, refresher Refresher) {
	r.router.AddNoPublisherHandler(
		"summary-refresher",
		TopicInteractionLogged,
		sub,
		func(msg *message.Message) error {
			metrics.EventsConsumed.Inc()
			start := time.Now()

			event, err := DeserializeEvent(msg.Payload)
			if err != nil {
				metrics.EventsParseFailed.Inc()
				return fmt.Errorf("parse interaction event: %w", err)
			}
			if err := event.Validate(); err != nil {
				metrics.EventsParseFailed.Inc()
				return fmt.Errorf("invalid interaction event: %w", err)
			}

			if _, err := refresher.RefreshIfNeeded(msg.Context(), event.Record.UserID); err != nil {
				return fmt.Errorf("refresh for %s: %w", event.Record.UserID, err)
			}

			metrics.RecordEventProcessed(time.Since(start))
			return nil
		},
	)
}

// AddFeedHandler forwards interaction events to the live WebSocket feed.
// Feed delivery is best effort; malformed events are dropped, not retried.
func (r *Router) AddFeedHandler(sub message.Subscriber, broadcaster Broadcaster) {
	r.router.AddNoPublisherHandler(
		"feed-forwarder",
		TopicInteractionLogged,
		sub,
		func(msg *message.Message) error {
			event, err := DeserializeEvent(msg.Payload)
			if err != nil {
				metrics.EventsParseFailed.Inc()
				r.logger.Error("dropping malformed feed event", err, watermill.LogFields{
					"message_uuid": msg.UUID,
				})
				return nil
			}

			broadcaster.BroadcastInteraction(&event.Record)
			return nil
		},
	)
}

// Serve implements suture.Service, running the router until the context is
// cancelled.
func (r *Router) Serve(ctx context.Context) error {
	if err := r.router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// String implements fmt.Stringer for supervisor logging.
func (r *Router) String() string {
	return "event-router"
}

// Running returns a channel closed once the router is running. Used by
// readiness checks and tests.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close shuts the router down, waiting up to CloseTimeout for in-flight
// handlers.
func (r *Router) Close() error {
	return r.router.Close()
}
