// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

/*
Package tracking implements the interaction tracking and taste profiling
core: logging raw interaction events, aggregating them into per-user
summaries, the refresh guard that bounds recomputation, retention cleanup,
and the analytics projection.

# Key Components

  - Tracker: the service facade. Validates and persists interactions,
    computes summaries, and enforces the refresh claim.
  - WeightTable: per-interaction-type scoring weights driving genre
    preference aggregation.
  - Janitor: supervised background loop purging records past the retention
    window in paced, bounded batches.

# Summary Lifecycle

A summary is a materialized cache over the user's recent interaction
records. RefreshIfNeeded claims the refresh slot inside a single store
transaction; the recomputation runs outside it and lands as a full
document overwrite. A claim carries a TTL lease, so a process crash
between claim and write heals itself once the lease expires.

# Thread Safety

Tracker and Janitor are safe for concurrent use; all mutable state lives
in the store.

# See Also

  - internal/store for the persistence layer and the claim transaction
  - internal/events for the background refresh pipeline
*/
package tracking
