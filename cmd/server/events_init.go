// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package main

import (
	"context"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/flickpulse/internal/config"
	"github.com/tomtom215/flickpulse/internal/events"
	"github.com/tomtom215/flickpulse/internal/logging"
	"github.com/tomtom215/flickpulse/internal/tracking"
	"github.com/tomtom215/flickpulse/internal/websocket"
)

// eventComponents bundles everything the event pipeline needs at runtime.
type eventComponents struct {
	server    *events.EmbeddedServer
	conn      *natsgo.Conn
	publisher *events.Publisher
	refresh   *events.Subscriber
	feed      *events.Subscriber
	router    *events.Router
}

// initEvents builds the event pipeline: embedded broker (optional), stream
// provisioning, the publisher the tracker emits through, and the router
// consuming interaction events for summary refresh and the live feed.
func initEvents(cfg *config.Config, tracker *tracking.Tracker, hub *websocket.Hub) (*eventComponents, error) {
	natsCfg := cfg.NATS
	wmLogger := events.NewWatermillLogger(logging.Logger())

	var embedded *events.EmbeddedServer
	if natsCfg.EmbeddedServer {
		serverCfg, err := events.ServerConfigFromNATS(natsCfg)
		if err != nil {
			return nil, fmt.Errorf("embedded server config: %w", err)
		}
		embedded, err = events.NewEmbeddedServer(serverCfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded server: %w", err)
		}
		natsCfg.URL = embedded.ClientURL()
	}

	components := &eventComponents{server: embedded}

	// Provision the stream before any publisher or subscriber touches it.
	conn, err := natsgo.Connect(natsCfg.URL,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		components.shutdown()
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	components.conn = conn

	js, err := jetstream.New(conn)
	if err != nil {
		components.shutdown()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}

	initializer, err := events.NewStreamInitializer(js, events.StreamConfigFromNATS(natsCfg))
	if err != nil {
		components.shutdown()
		return nil, err
	}

	ensureCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := initializer.EnsureStream(ensureCtx); err != nil {
		components.shutdown()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	publisher, err := events.NewPublisher(events.PublisherConfigFromNATS(natsCfg), wmLogger)
	if err != nil {
		components.shutdown()
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	components.publisher = publisher
	tracker.SetPublisher(publisher)

	// Each handler gets its own durable consumer so refresh and feed track
	// independent positions in the stream.
	refreshCfg := events.SubscriberConfigFromNATS(natsCfg)
	refreshCfg.DurableName += "-refresh"
	refreshCfg.QueueGroup += "-refresh"
	refresh, err := events.NewSubscriber(refreshCfg, wmLogger)
	if err != nil {
		components.shutdown()
		return nil, fmt.Errorf("create refresh subscriber: %w", err)
	}
	components.refresh = refresh

	feedCfg := events.SubscriberConfigFromNATS(natsCfg)
	feedCfg.DurableName += "-feed"
	feedCfg.QueueGroup += "-feed"
	feed, err := events.NewSubscriber(feedCfg, wmLogger)
	if err != nil {
		components.shutdown()
		return nil, fmt.Errorf("create feed subscriber: %w", err)
	}
	components.feed = feed

	router, err := events.NewRouter(events.RouterConfigFromNATS(natsCfg), publisher.Backend(), wmLogger)
	if err != nil {
		components.shutdown()
		return nil, fmt.Errorf("create router: %w", err)
	}
	router.AddRefreshHandler(refresh.Backend(), tracker)
	router.AddFeedHandler(feed.Backend(), hub)
	components.router = router

	return components, nil
}

// shutdown releases event pipeline resources in reverse creation order. The
// embedded server and the router run under the supervisor and are stopped
// there; this covers the pieces main owns directly.
func (c *eventComponents) shutdown() {
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing event publisher")
		}
	}
	if c.refresh != nil {
		if err := c.refresh.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing refresh subscriber")
		}
	}
	if c.feed != nil {
		if err := c.feed.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing feed subscriber")
		}
	}
	if c.conn != nil {
		c.conn.Close()
	}
	if c.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("error shutting down embedded server")
		}
	}
}
