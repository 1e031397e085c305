// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus client
library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - Interaction logging throughput (by type and media type)
  - Summary refresh pipeline (claim outcomes, compute duration, fetch sizes)
  - Retention cleanup (deletions, pass duration, last success)
  - Badger store operation latency and errors
  - Event queue publish/consume/process counts
  - HTTP request latency and throughput
  - Circuit breaker state, cache hit/miss rates, WebSocket connections

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8480/metrics

# Key Metrics

Refresh pipeline:
  - summary_refreshes_total: Refresh attempts (counter)
    Labels: outcome (computed, fresh, claim_held, failed)
  - summary_refresh_duration_seconds: Recomputation time (histogram)
  - summary_records_fetched: Records read per computation (histogram)

Retention:
  - retention_records_deleted_total: Purged records (counter)
  - retention_run_duration_seconds: Pass duration (histogram)
  - retention_last_success_timestamp: Unix timestamp of last success (gauge)

All metrics are registered via promauto at package init; no explicit
registration step is required.

# Usage

	import "github.com/tomtom215/flickpulse/internal/metrics"

	start := time.Now()
	summary, err := calc.Compute(ctx, userID)
	metrics.RecordSummaryCompute(time.Since(start), len(records))

See Also:

  - internal/middleware: HTTP instrumentation using these metrics
  - internal/tracking: Refresh and retention instrumentation
*/
package metrics
