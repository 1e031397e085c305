// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

/*
Package models defines data structures for the FlickPulse application.

This package contains all data models used throughout the application:
interaction records, interaction summaries, analytics reports, and API
request/response structures. It serves as the single source of truth for
data structure definitions.

Key Components:

  - InteractionRecord: Core store model for a single logged user action
  - InteractionDraft: Client-supplied payload for logging an interaction
  - InteractionSummary: Materialized per-user aggregation of interactions
  - GenrePreference: Weighted per-genre score derived from interactions
  - AnalyticsReport: Read-only projection over summary + recent records
  - APIResponse: Standardized API response wrapper

Model Categories:

1. Store Models:
  - InteractionRecord: Immutable interaction history
  - InteractionSummary: Last-write-wins summary document with refresh lease

2. API Request/Response Models:
  - InteractionDraft: Validated input for POST /api/v1/interactions
  - APIResponse / APIError / Metadata: Standard response envelope

3. Analytics Models:
  - AnalyticsReport: Counts by type, top genres, trailer engagement

Thread Safety:

All models are:
  - Immutable after creation (pass-by-value or pointers)
  - Safe for concurrent read access
  - No internal mutexes needed (data structures only)

JSON Marshaling:

All models support JSON serialization via goccy/go-json:
  - Struct tags use snake_case field naming
  - Omitempty tags for optional fields
  - Time.Time uses RFC3339 format

See Also:

  - internal/store: Badger persistence for these models
  - internal/tracking: Aggregation logic producing summaries
  - internal/api: HTTP handlers returning these models
*/
package models
