// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

/*
Package api provides the HTTP REST API layer for FlickPulse.

This package exposes the interaction tracking and taste profiling
operations over a chi router. It is the primary interface between
discovery clients and the tracking engine.

Key Components:

  - Router: route configuration and middleware stack integration
  - Handler: request handlers for all endpoints
  - ResponseWriter: standardized JSON envelope with metadata
  - ChiMiddleware: CORS and per-endpoint rate limiting from the chi ecosystem

Endpoints:

1. Core (/api/v1/):
  - POST /interactions logs a single user interaction
  - GET  /users/{userID}/summary returns the current taste summary
  - POST /users/{userID}/summary/refresh recomputes a stale summary
  - GET  /users/{userID}/analytics returns the cached engagement report
  - GET  /events/ws streams the live interaction feed over WebSocket

2. Operational:
  - GET /api/v1/health, /health/live, /health/ready
  - POST /api/v1/auth/login (only when admin credentials are configured)
  - GET /metrics for Prometheus scraping

Authentication:

Admin authentication is optional. With no admin user configured every data
endpoint is open; otherwise a Bearer token from /auth/login is required on
all data routes. Health and metrics endpoints are never authenticated.

See Also:

  - internal/tracking: the engine behind the handlers
  - internal/auth: JWT issuance and enforcement
  - internal/middleware: request ID, compression, Prometheus middleware
*/
package api
