// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for request ID tracking,
gzip compression, and Prometheus metrics instrumentation. These components
compose with the chi ecosystem middleware (CORS, rate limiting) configured
in internal/api to form the complete request pipeline.

Key Components:

  - RequestID: UUID-based request tracking wired into the logging context
  - Compression: Gzip compression for responses when the client accepts it
  - PrometheusMetrics: HTTP request/response instrumentation

The Prometheus middleware labels requests by the chi route pattern rather
than the raw URL path, so per-user paths such as /users/{userID}/summary
collapse to a single metric series.

Thread Safety:

All middleware components are safe for concurrent use. Compression pools
gzip writers, request IDs live in the immutable request context, and the
metrics middleware only touches Prometheus collectors.

See Also:

  - internal/api: HTTP handlers and router wiring
  - internal/metrics: Prometheus metrics definitions
  - internal/logging: request and correlation ID context helpers
*/
package middleware
