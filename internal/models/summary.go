// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package models

import (
	"time"
)

// GenrePreference is a derived, weighted per-genre score. Score is the sum
// of per-interaction-type weights over every fetched record carrying the
// genre; Count is the raw number of such records. Preferences are fully
// recomputable from the interaction record set and carry no authority of
// their own.
type GenrePreference struct {
	GenreID   int     `json:"genre_id"`
	GenreName string  `json:"genre_name,omitempty"`
	Score     float64 `json:"score"`
	Count     int     `json:"count"`
}

// MaxTopContent bounds the topContentIDs list in a summary.
const MaxTopContent = 20

// InteractionSummary is the materialized per-user aggregation of interaction
// records. Exactly one summary exists per user; it is written as a full
// document overwrite (last-write-wins, no merge semantics).
//
// Invariants:
//   - LastUpdated is monotonically non-decreasing
//   - GenrePreferences is sorted descending by score and holds only
//     strictly positive scores
//   - TopContentIDs holds at most MaxTopContent entries, sorted descending
//     by occurrence count with contentID ascending as the tie-break
//
// Refresh lease:
//
// At most one recomputation may be in flight per user. A refresh claims the
// slot by setting Calculating together with RefreshLeaseExpires inside a
// single store transaction. A successful recomputation overwrites the whole
// document, implicitly clearing the lease; a failed one clears it with a
// best-effort write. A crash between claim and write leaves the lease in
// place until RefreshLeaseExpires passes, after which the guard treats the
// claim as absent and a new refresh may proceed.
type InteractionSummary struct {
	UserID            string            `json:"user_id"`
	TotalInteractions int               `json:"total_interactions"`
	GenrePreferences  []GenrePreference `json:"genre_preferences"`
	TopContentIDs     []string          `json:"top_content_ids"`
	LastUpdated       time.Time         `json:"last_updated"`

	Calculating         bool       `json:"calculating,omitempty"`
	RefreshLeaseExpires *time.Time `json:"refresh_lease_expires,omitempty"`
}

// HasLiveLease reports whether a refresh claim is currently held. An expired
// lease counts as absent, so a crash mid-computation self-heals once the
// lease TTL passes.
func (s *InteractionSummary) HasLiveLease(now time.Time) bool {
	if s == nil || !s.Calculating {
		return false
	}
	if s.RefreshLeaseExpires == nil {
		// Legacy claim without an expiry never self-expires; honour it.
		return true
	}
	return now.Before(*s.RefreshLeaseExpires)
}

// IsStale reports whether the summary is older than the given refresh
// threshold at time now.
func (s *InteractionSummary) IsStale(now time.Time, threshold time.Duration) bool {
	if s == nil {
		return true
	}
	return now.Sub(s.LastUpdated) > threshold
}

// TrailerEngagement aggregates trailer activity for an analytics report.
type TrailerEngagement struct {
	Plays          int `json:"plays"`
	WatchedSeconds int `json:"watched_seconds"`
}

// AnalyticsReport is a read-only projection over a user's summary and recent
// interaction records. It holds no state of its own and is recomputed on
// every request (subject to a short response cache).
type AnalyticsReport struct {
	UserID            string            `json:"user_id"`
	TotalInteractions int               `json:"total_interactions"`
	CountsByType      map[string]int    `json:"counts_by_type"`
	TopGenres         []GenrePreference `json:"top_genres"`
	TrailerEngagement TrailerEngagement `json:"trailer_engagement"`
	DistinctContent   int               `json:"distinct_content"`
	GeneratedAt       time.Time         `json:"generated_at"`
}
