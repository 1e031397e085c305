// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package services

import (
	"context"
	"fmt"
	"time"
)

// MessagingServer matches the embedded NATS server lifecycle. The server is
// already accepting connections when it reaches the service, so Serve only
// has to hold it open and shut it down on cancellation.
type MessagingServer interface {
	Shutdown(ctx context.Context) error
	IsRunning() bool
}

// MessagingServerService wraps the embedded NATS server as a supervised
// service.
type MessagingServerService struct {
	server          MessagingServer
	shutdownTimeout time.Duration
}

// NewMessagingServerService creates an embedded server service wrapper.
func NewMessagingServerService(server MessagingServer, shutdownTimeout time.Duration) *MessagingServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &MessagingServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve implements suture.Service.
func (s *MessagingServerService) Serve(ctx context.Context) error {
	if !s.server.IsRunning() {
		return fmt.Errorf("embedded messaging server is not running")
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("embedded messaging server shutdown failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (s *MessagingServerService) String() string {
	return "embedded-nats"
}
