// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package tracking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/flickpulse/internal/config"
	"github.com/tomtom215/flickpulse/internal/metrics"
	"github.com/tomtom215/flickpulse/internal/models"
	"github.com/tomtom215/flickpulse/internal/store"
	"github.com/tomtom215/flickpulse/internal/validation"
)

// ErrMissingUserID indicates an operation was called without a user id.
var ErrMissingUserID = errors.New("user id is required")

// EventPublisher emits interaction events to the background pipeline.
// Publishing is fire-and-forget from the tracker's perspective; failures are
// logged and swallowed so telemetry never blocks the caller.
type EventPublisher interface {
	PublishInteractionLogged(ctx context.Context, rec *models.InteractionRecord) error
}

// Tracker is the interaction tracking and summary service facade.
// It is safe for concurrent use.
type Tracker struct {
	cfg     config.TrackingConfig
	store   *store.Store
	weights WeightTable
	logger  zerolog.Logger

	// Optional; set after construction to avoid a cycle with the events
	// package, which consumes tracker output.
	publisher EventPublisher

	// Injected clock for tests.
	now func() time.Time
}

// New creates a Tracker over the given store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg config.TrackingConfig, st *store.Store, weights WeightTable, logger zerolog.Logger) *Tracker {
	if weights == nil {
		weights = DefaultWeightTable()
	}
	return &Tracker{
		cfg:     cfg,
		store:   st,
		weights: weights,
		logger:  logger.With().Str("component", "tracking").Logger(),
		now:     time.Now,
	}
}

// SetPublisher wires the background event pipeline. Must be called before
// the tracker starts serving requests; a nil publisher disables publishing.
func (t *Tracker) SetPublisher(p EventPublisher) {
	t.publisher = p
}

// LogInteraction validates the draft, assigns identity and timestamp, and
// persists the record. The stored record is returned. An event is published
// to the background pipeline on success; publish failures are logged and do
// not fail the call.
func (t *Tracker) LogInteraction(ctx context.Context, userID string, draft *models.InteractionDraft) (*models.InteractionRecord, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if verr := validation.ValidateStruct(draft); verr != nil {
		return nil, verr
	}

	rec := &models.InteractionRecord{
		ID:        uuid.New(),
		UserID:    userID,
		ContentID: draft.ContentID,
		MediaType: draft.MediaType,
		Type:      draft.Type,
		GenreIDs:  draft.GenreIDs,
		Timestamp: t.now().UTC(),

		TrailerDuration: draft.TrailerDuration,
		SearchQuery:     draft.SearchQuery,
		CollectionID:    draft.CollectionID,
		Source:          draft.Source,
	}

	if err := t.store.AppendInteraction(ctx, rec); err != nil {
		metrics.InteractionLogFailures.Inc()
		return nil, fmt.Errorf("append interaction: %w", err)
	}
	metrics.RecordInteractionLogged(string(rec.Type), rec.MediaType)

	if t.cfg.DebugLogging {
		t.logger.Debug().
			Str("user_id", rec.UserID).
			Str("content_id", rec.ContentID).
			Str("interaction_type", string(rec.Type)).
			Ints("genre_ids", rec.GenreIDs).
			Msg("interaction logged")
	}

	if t.publisher != nil {
		if err := t.publisher.PublishInteractionLogged(ctx, rec); err != nil {
			t.logger.Warn().Err(err).
				Str("user_id", rec.UserID).
				Msg("interaction event publish failed")
		}
	}

	return rec, nil
}

// GetSummary returns the user's current summary, or store.ErrSummaryNotFound
// when none has been computed yet.
func (t *Tracker) GetSummary(ctx context.Context, userID string) (*models.InteractionSummary, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	return t.store.GetSummary(ctx, userID)
}

// CalculateSummary recomputes the user's summary from their most recent
// records and writes it as a full overwrite. Callers wanting the staleness
// guard use RefreshIfNeeded instead.
func (t *Tracker) CalculateSummary(ctx context.Context, userID string) (*models.InteractionSummary, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	start := t.now()

	records, err := t.store.RecentByUser(ctx, userID, t.cfg.MaxFetch)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	summary := t.computeSummary(userID, records, t.now().UTC())
	if err := t.store.PutSummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}

	metrics.RecordSummaryCompute(time.Since(start), len(records))
	t.logger.Debug().
		Str("user_id", userID).
		Int("records", len(records)).
		Int("genres", len(summary.GenrePreferences)).
		Msg("summary computed")

	return summary, nil
}

// RefreshIfNeeded applies the refresh guard and recomputes the summary only
// when it is stale and no other refresh holds a live lease. When the summary
// is fresh or another refresh is in flight, the existing document is
// returned unchanged.
func (t *Tracker) RefreshIfNeeded(ctx context.Context, userID string) (*models.InteractionSummary, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	now := t.now().UTC()

	result, current, err := t.store.ClaimRefresh(ctx, userID, now, t.cfg.RefreshThreshold, t.cfg.LeaseTTL)
	if err != nil {
		metrics.RecordRefreshOutcome("failed")
		return nil, fmt.Errorf("claim refresh: %w", err)
	}

	switch result {
	case store.ClaimFresh:
		metrics.RecordRefreshOutcome("fresh")
		return current, nil

	case store.ClaimHeld:
		metrics.RecordRefreshOutcome("claim_held")
		t.logger.Debug().Str("user_id", userID).Msg("refresh claim held, serving stale summary")
		return current, nil
	}

	// Claim granted; the compute runs outside the claim transaction.
	summary, err := t.CalculateSummary(ctx, userID)
	if err != nil {
		metrics.RecordRefreshOutcome("failed")
		// Best effort; an orphaned claim expires with its lease.
		if clearErr := t.store.ClearClaim(ctx, userID); clearErr != nil {
			t.logger.Warn().Err(clearErr).Str("user_id", userID).Msg("clearing refresh claim failed")
		}
		return nil, fmt.Errorf("refresh summary: %w", err)
	}

	metrics.RecordRefreshOutcome("computed")
	return summary, nil
}

// computeSummary is the pure aggregation pass over a record set.
func (t *Tracker) computeSummary(userID string, records []models.InteractionRecord, now time.Time) *models.InteractionSummary {
	genreScores := make(map[int]float64)
	genreCounts := make(map[int]int)
	contentCounts := make(map[string]int)

	for _, rec := range records {
		w := t.weights.For(rec.Type)
		for _, genreID := range rec.GenreIDs {
			genreScores[genreID] += w
			genreCounts[genreID]++
		}
		contentCounts[rec.ContentID]++
	}

	prefs := make([]models.GenrePreference, 0, len(genreScores))
	for genreID, score := range genreScores {
		if score <= 0 {
			continue
		}
		prefs = append(prefs, models.GenrePreference{
			GenreID:   genreID,
			GenreName: models.GenreName(genreID),
			Score:     score,
			Count:     genreCounts[genreID],
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Score != prefs[j].Score {
			return prefs[i].Score > prefs[j].Score
		}
		return prefs[i].GenreID < prefs[j].GenreID
	})

	return &models.InteractionSummary{
		UserID:            userID,
		TotalInteractions: len(records),
		GenrePreferences:  prefs,
		TopContentIDs:     topContent(contentCounts, models.MaxTopContent),
		LastUpdated:       now,
	}
}

// topContent returns up to limit content ids ordered by occurrence count
// descending, ties broken by id ascending for determinism.
func topContent(counts map[string]int, limit int) []string {
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}
