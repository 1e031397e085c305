// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type fakeHTTPServer struct {
	listenErr   error
	shutdownErr error
	listening   chan struct{}
	stop        chan struct{}
	shutdowns   int
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{
		listening: make(chan struct{}),
		stop:      make(chan struct{}),
	}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	close(f.listening)
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(_ context.Context) error {
	f.shutdowns++
	close(f.stop)
	return f.shutdownErr
}

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	t.Parallel()

	srv := newFakeHTTPServer()
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx)
	}()

	select {
	case <-srv.listening:
	case <-time.After(5 * time.Second):
		t.Fatal("server never started listening")
	}

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}

	if srv.shutdowns != 1 {
		t.Errorf("shutdowns = %d, want 1", srv.shutdowns)
	}
}

func TestHTTPServerServiceListenFailure(t *testing.T) {
	t.Parallel()

	srv := newFakeHTTPServer()
	srv.listenErr = errors.New("bind failed")
	svc := NewHTTPServerService(srv, time.Second)

	err := svc.Serve(t.Context())
	if err == nil || !errors.Is(err, srv.listenErr) {
		t.Errorf("Serve() error = %v, want wrapped bind failure", err)
	}
}

func TestHTTPServerServiceShutdownFailure(t *testing.T) {
	t.Parallel()

	srv := newFakeHTTPServer()
	srv.shutdownErr = errors.New("drain timeout")
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx)
	}()

	<-srv.listening
	cancel()

	select {
	case err := <-done:
		if err == nil || !errors.Is(err, srv.shutdownErr) {
			t.Errorf("Serve() error = %v, want wrapped drain timeout", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return")
	}
}

func TestHTTPServerServiceString(t *testing.T) {
	t.Parallel()

	svc := NewHTTPServerService(newFakeHTTPServer(), 0)
	if got := svc.String(); got != "http-server" {
		t.Errorf("String() = %q, want %q", got, "http-server")
	}
}

type fakeMessagingServer struct {
	running   bool
	shutdowns int
	err       error
}

func (f *fakeMessagingServer) Shutdown(_ context.Context) error {
	f.shutdowns++
	return f.err
}

func (f *fakeMessagingServer) IsRunning() bool { return f.running }

func TestMessagingServerService(t *testing.T) {
	t.Parallel()

	srv := &fakeMessagingServer{running: true}
	svc := NewMessagingServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}

	if srv.shutdowns != 1 {
		t.Errorf("shutdowns = %d, want 1", srv.shutdowns)
	}
}

func TestMessagingServerServiceNotRunning(t *testing.T) {
	t.Parallel()

	svc := NewMessagingServerService(&fakeMessagingServer{running: false}, time.Second)
	if err := svc.Serve(t.Context()); err == nil {
		t.Error("Serve() = nil, want error for stopped server")
	}
}

func TestMessagingServerServiceString(t *testing.T) {
	t.Parallel()

	svc := NewMessagingServerService(&fakeMessagingServer{}, 0)
	if got := svc.String(); got != "embedded-nats" {
		t.Errorf("String() = %q, want %q", got, "embedded-nats")
	}
}
