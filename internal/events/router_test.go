// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/flickpulse/internal/models"
)

func testRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         5 * time.Second,
		RetryMaxRetries:      1,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     10 * time.Millisecond,
		RetryMultiplier:      2.0,
	}
}

type fakeRefresher struct {
	refreshed chan string
	err       error
}

func (f *fakeRefresher) RefreshIfNeeded(_ context.Context, userID string) (*models.InteractionSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.refreshed <- userID
	return &models.InteractionSummary{UserID: userID}, nil
}

type fakeBroadcaster struct {
	received chan *models.InteractionRecord
}

func (f *fakeBroadcaster) BroadcastInteraction(rec *models.InteractionRecord) {
	f.received <- rec
}

func publishTestEvent(t *testing.T, pubSub *gochannel.GoChannel) *InteractionLoggedEvent {
	t.Helper()

	event := NewInteractionLoggedEvent(testRecord())
	data, err := SerializeEvent(event)
	if err != nil {
		t.Fatalf("SerializeEvent() error = %v", err)
	}
	if err := pubSub.Publish(TopicInteractionLogged, message.NewMessage(event.EventID, data)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	return event
}

func startRouter(t *testing.T, r *Router) {
	t.Helper()

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("router did not stop after cancel")
		}
	})

	select {
	case <-r.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
}

func TestRouterRefreshHandler(t *testing.T) {
	t.Parallel()

	logger := watermill.NopLogger{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)

	r, err := NewRouter(testRouterConfig(), nil, logger)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	refresher := &fakeRefresher{refreshed: make(chan string, 1)}
	r.AddRefreshHandler(pubSub, refresher)
	startRouter(t, r)

	publishTestEvent(t, pubSub)

	select {
	case userID := <-refresher.refreshed:
		if userID != "alice" {
			t.Errorf("refreshed user = %q, want %q", userID, "alice")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("refresh handler was not invoked")
	}
}

func TestRouterFeedHandler(t *testing.T) {
	t.Parallel()

	logger := watermill.NopLogger{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)

	r, err := NewRouter(testRouterConfig(), nil, logger)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	broadcaster := &fakeBroadcaster{received: make(chan *models.InteractionRecord, 1)}
	r.AddFeedHandler(pubSub, broadcaster)
	startRouter(t, r)

	event := publishTestEvent(t, pubSub)

	select {
	case rec := <-broadcaster.received:
		if rec.ID != event.Record.ID {
			t.Errorf("broadcast record id = %v, want %v", rec.ID, event.Record.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("feed handler was not invoked")
	}
}

func TestRouterFeedHandlerDropsMalformed(t *testing.T) {
	t.Parallel()

	logger := watermill.NopLogger{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)

	r, err := NewRouter(testRouterConfig(), nil, logger)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	broadcaster := &fakeBroadcaster{received: make(chan *models.InteractionRecord, 1)}
	r.AddFeedHandler(pubSub, broadcaster)
	startRouter(t, r)

	if err := pubSub.Publish(TopicInteractionLogged, message.NewMessage("bad", []byte("{not json"))); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	publishTestEvent(t, pubSub)

	// The malformed message is dropped; the valid one still arrives.
	select {
	case rec := <-broadcaster.received:
		if rec.UserID != "alice" {
			t.Errorf("broadcast record user = %q, want %q", rec.UserID, "alice")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("valid event did not reach the feed after a malformed one")
	}
}

func TestRouterPoisonQueue(t *testing.T) {
	t.Parallel()

	logger := watermill.NopLogger{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)

	cfg := testRouterConfig()
	cfg.PoisonQueueEnabled = true
	cfg.PoisonQueueTopic = TopicPoison

	r, err := NewRouter(cfg, pubSub, logger)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	poisoned, err := pubSub.Subscribe(t.Context(), TopicPoison)
	if err != nil {
		t.Fatalf("Subscribe(poison) error = %v", err)
	}

	refresher := &fakeRefresher{err: errors.New("store unavailable")}
	r.AddRefreshHandler(pubSub, refresher)
	startRouter(t, r)

	publishTestEvent(t, pubSub)

	select {
	case msg := <-poisoned:
		msg.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("failing message never reached the poison queue")
	}
}
