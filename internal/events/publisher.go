// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/flickpulse/internal/metrics"
	"github.com/tomtom215/flickpulse/internal/models"
)

const breakerName = "event-publish"

// Publisher wraps a Watermill publisher with a circuit breaker so a failing
// broker sheds publish attempts quickly instead of stalling the write path.
// It implements tracking.EventPublisher.
type Publisher struct {
	publisher  message.Publisher
	breaker    *gobreaker.CircuitBreaker[any]
	serializer *Serializer
	logger     watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// NewPublisher creates a resilient Watermill NATS publisher. The message id
// header is tracked so JetStream deduplicates redelivered publishes.
func NewPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false, // the stream is provisioned by StreamInitializer
			TrackMsgId:    cfg.EnableTrackMsgID,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return newPublisher(pub, logger), nil
}

// NewPublisherWithBackend wraps an existing Watermill publisher. Used in
// tests with the gochannel pubsub and for the poison queue publisher.
func NewPublisherWithBackend(backend message.Publisher, logger watermill.LoggerAdapter) *Publisher {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}
	return newPublisher(backend, logger)
}

func newPublisher(backend message.Publisher, logger watermill.LoggerAdapter) *Publisher {
	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, _ gobreaker.State, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, breakerStateValue(to))
		},
	}

	return &Publisher{
		publisher:  backend,
		breaker:    gobreaker.NewCircuitBreaker[any](settings),
		serializer: NewSerializer(),
		logger:     logger,
	}
}

// Publish sends a message to the topic through the circuit breaker.
func (p *Publisher) Publish(_ context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return fmt.Errorf("publisher is closed")
	}
	p.mu.RUnlock()

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}

	_, err := p.breaker.Execute(func() (any, error) {
		return nil, p.publisher.Publish(topic, msg)
	})

	if err != nil {
		metrics.RecordCircuitBreakerResult(breakerName, "failure")
	} else {
		metrics.RecordCircuitBreakerResult(breakerName, "success")
	}
	metrics.RecordEventPublish(err)

	return err
}

// PublishInteractionLogged serializes and publishes an interaction event.
// Implements tracking.EventPublisher.
func (p *Publisher) PublishInteractionLogged(ctx context.Context, rec *models.InteractionRecord) error {
	event := NewInteractionLoggedEvent(rec)

	data, err := p.serializer.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(event.EventID, data)
	if err := p.Publish(ctx, TopicInteractionLogged, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicInteractionLogged, err)
	}
	return nil
}

// Backend exposes the underlying Watermill publisher for router wiring.
func (p *Publisher) Backend() message.Publisher {
	return p.publisher
}

// Close shuts the publisher down; subsequent publishes fail fast.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

// breakerStateValue maps gobreaker states to the metric gauge encoding.
func breakerStateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
