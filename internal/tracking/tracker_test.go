// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/flickpulse/internal/config"
	"github.com/tomtom215/flickpulse/internal/models"
	"github.com/tomtom215/flickpulse/internal/store"

	"github.com/rs/zerolog"
)

func testTrackingConfig() config.TrackingConfig {
	return config.TrackingConfig{
		MaxFetch:         500,
		RefreshThreshold: 6 * time.Hour,
		LeaseTTL:         2 * time.Minute,
	}
}

func newTestTracker(t *testing.T) (*Tracker, *store.Store) {
	t.Helper()

	st, err := store.Open(config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("store.Close() error = %v", err)
		}
	})

	return New(testTrackingConfig(), st, nil, zerolog.Nop()), st
}

func likeDraft(contentID string, genreIDs ...int) *models.InteractionDraft {
	return &models.InteractionDraft{
		ContentID: contentID,
		MediaType: models.MediaTypeMovie,
		Type:      models.InteractionLike,
		GenreIDs:  genreIDs,
	}
}

// capturePublisher records published interactions and optionally fails.
type capturePublisher struct {
	mu      sync.Mutex
	records []*models.InteractionRecord
	err     error
}

func (p *capturePublisher) PublishInteractionLogged(_ context.Context, rec *models.InteractionRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.records = append(p.records, rec)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

func TestLogInteraction(t *testing.T) {
	t.Parallel()

	tr, st := newTestTracker(t)
	ctx := t.Context()

	rec, err := tr.LogInteraction(ctx, "alice", likeDraft("m-1", 28, 12))
	if err != nil {
		t.Fatalf("LogInteraction() error = %v", err)
	}

	if rec.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("record was not assigned an id")
	}
	if rec.UserID != "alice" {
		t.Errorf("UserID = %q, want %q", rec.UserID, "alice")
	}
	if rec.Timestamp.IsZero() || rec.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want non-zero UTC", rec.Timestamp)
	}

	count, err := st.CountByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("CountByUser() error = %v", err)
	}
	if count != 1 {
		t.Errorf("store holds %d records, want 1", count)
	}
}

func TestLogInteractionValidation(t *testing.T) {
	t.Parallel()

	tr, _ := newTestTracker(t)
	ctx := t.Context()

	tests := []struct {
		name  string
		draft *models.InteractionDraft
	}{
		{
			name: "missing content id",
			draft: &models.InteractionDraft{
				MediaType: models.MediaTypeMovie,
				Type:      models.InteractionView,
			},
		},
		{
			name: "unknown media type",
			draft: &models.InteractionDraft{
				ContentID: "m-1",
				MediaType: "vinyl",
				Type:      models.InteractionView,
			},
		},
		{
			name: "unknown interaction type",
			draft: &models.InteractionDraft{
				ContentID: "m-1",
				MediaType: models.MediaTypeMovie,
				Type:      "teleport",
			},
		},
		{
			name: "negative genre id",
			draft: &models.InteractionDraft{
				ContentID: "m-1",
				MediaType: models.MediaTypeMovie,
				Type:      models.InteractionView,
				GenreIDs:  []int{28, -1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := tr.LogInteraction(ctx, "alice", tt.draft); err == nil {
				t.Error("LogInteraction() error = nil, want validation error")
			}
		})
	}
}

func TestLogInteractionMissingUserID(t *testing.T) {
	t.Parallel()

	tr, _ := newTestTracker(t)

	_, err := tr.LogInteraction(t.Context(), "", likeDraft("m-1", 28))
	if !errors.Is(err, ErrMissingUserID) {
		t.Errorf("LogInteraction() error = %v, want ErrMissingUserID", err)
	}
}

func TestLogInteractionPublishes(t *testing.T) {
	t.Parallel()

	tr, _ := newTestTracker(t)
	pub := &capturePublisher{}
	tr.SetPublisher(pub)

	if _, err := tr.LogInteraction(t.Context(), "alice", likeDraft("m-1", 28)); err != nil {
		t.Fatalf("LogInteraction() error = %v", err)
	}
	if pub.count() != 1 {
		t.Errorf("published %d events, want 1", pub.count())
	}
}

func TestLogInteractionPublishFailureSwallowed(t *testing.T) {
	t.Parallel()

	tr, st := newTestTracker(t)
	tr.SetPublisher(&capturePublisher{err: errors.New("broker down")})
	ctx := t.Context()

	if _, err := tr.LogInteraction(ctx, "alice", likeDraft("m-1", 28)); err != nil {
		t.Fatalf("LogInteraction() error = %v, want nil despite publish failure", err)
	}

	count, err := st.CountByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("CountByUser() error = %v", err)
	}
	if count != 1 {
		t.Errorf("store holds %d records, want 1", count)
	}
}

func TestCalculateSummaryEndToEnd(t *testing.T) {
	t.Parallel()

	tr, _ := newTestTracker(t)
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		if _, err := tr.LogInteraction(ctx, "alice", likeDraft("m-1", 28, 12)); err != nil {
			t.Fatalf("LogInteraction() error = %v", err)
		}
	}

	summary, err := tr.CalculateSummary(ctx, "alice")
	if err != nil {
		t.Fatalf("CalculateSummary() error = %v", err)
	}

	if summary.TotalInteractions != 3 {
		t.Errorf("TotalInteractions = %d, want 3", summary.TotalInteractions)
	}

	wantScore := 3 * DefaultWeightTable()[models.InteractionLike]
	if len(summary.GenrePreferences) != 2 {
		t.Fatalf("GenrePreferences has %d entries, want 2", len(summary.GenrePreferences))
	}
	for _, pref := range summary.GenrePreferences {
		if pref.GenreID != 28 && pref.GenreID != 12 {
			t.Errorf("unexpected genre %d in preferences", pref.GenreID)
		}
		if pref.Score != wantScore {
			t.Errorf("genre %d score = %v, want %v", pref.GenreID, pref.Score, wantScore)
		}
		if pref.Count != 3 {
			t.Errorf("genre %d count = %d, want 3", pref.GenreID, pref.Count)
		}
		if want := models.GenreName(pref.GenreID); pref.GenreName != want {
			t.Errorf("genre %d name = %q, want %q", pref.GenreID, pref.GenreName, want)
		}
	}

	if len(summary.TopContentIDs) != 1 || summary.TopContentIDs[0] != "m-1" {
		t.Errorf("TopContentIDs = %v, want [m-1]", summary.TopContentIDs)
	}
}

func TestComputeSummaryProperties(t *testing.T) {
	t.Parallel()

	weights := WeightTable{
		models.InteractionView: 2,
		models.InteractionLike: 5,
		models.InteractionHide: -10,
	}
	tr := &Tracker{weights: weights, now: time.Now}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	rec := func(contentID string, typ models.InteractionType, genres ...int) models.InteractionRecord {
		return models.InteractionRecord{ContentID: contentID, Type: typ, GenreIDs: genres}
	}

	tests := []struct {
		name       string
		records    []models.InteractionRecord
		wantTotal  int
		wantScores map[int]float64
		wantTop    []string
	}{
		{
			name:       "empty record set",
			records:    nil,
			wantTotal:  0,
			wantScores: map[int]float64{},
			wantTop:    []string{},
		},
		{
			name: "scores sum per genre across types",
			records: []models.InteractionRecord{
				rec("m-1", models.InteractionView, 28),
				rec("m-1", models.InteractionLike, 28, 12),
				rec("m-2", models.InteractionView, 12),
			},
			wantTotal:  3,
			wantScores: map[int]float64{28: 7, 12: 7},
			wantTop:    []string{"m-1", "m-2"},
		},
		{
			name: "non-positive scores dropped",
			records: []models.InteractionRecord{
				rec("m-1", models.InteractionLike, 28),
				rec("m-2", models.InteractionHide, 12),
				rec("m-3", models.InteractionView, 16),
				rec("m-3", models.InteractionHide, 16),
			},
			wantTotal:  4,
			wantScores: map[int]float64{28: 5},
			wantTop:    []string{"m-3", "m-1", "m-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			summary := tr.computeSummary("u", tt.records, now)

			if summary.TotalInteractions != tt.wantTotal {
				t.Errorf("TotalInteractions = %d, want %d", summary.TotalInteractions, tt.wantTotal)
			}
			if len(summary.GenrePreferences) != len(tt.wantScores) {
				t.Fatalf("GenrePreferences has %d entries, want %d", len(summary.GenrePreferences), len(tt.wantScores))
			}
			for _, pref := range summary.GenrePreferences {
				want, ok := tt.wantScores[pref.GenreID]
				if !ok {
					t.Errorf("unexpected genre %d", pref.GenreID)
					continue
				}
				if pref.Score != want {
					t.Errorf("genre %d score = %v, want %v", pref.GenreID, pref.Score, want)
				}
			}
			if len(summary.TopContentIDs) != len(tt.wantTop) {
				t.Fatalf("TopContentIDs = %v, want %v", summary.TopContentIDs, tt.wantTop)
			}
			for i, id := range tt.wantTop {
				if summary.TopContentIDs[i] != id {
					t.Errorf("TopContentIDs[%d] = %q, want %q", i, summary.TopContentIDs[i], id)
				}
			}
			if !summary.LastUpdated.Equal(now) {
				t.Errorf("LastUpdated = %v, want %v", summary.LastUpdated, now)
			}
		})
	}
}

func TestComputeSummaryOrdering(t *testing.T) {
	t.Parallel()

	tr := &Tracker{weights: DefaultWeightTable(), now: time.Now}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Genre 12 appears twice, 28 once; equal-score genres order by id.
	records := []models.InteractionRecord{
		{ContentID: "m-1", Type: models.InteractionView, GenreIDs: []int{12, 35}},
		{ContentID: "m-2", Type: models.InteractionView, GenreIDs: []int{12}},
		{ContentID: "m-3", Type: models.InteractionView, GenreIDs: []int{28}},
	}

	summary := tr.computeSummary("u", records, now)

	wantGenres := []int{12, 28, 35}
	if len(summary.GenrePreferences) != len(wantGenres) {
		t.Fatalf("GenrePreferences has %d entries, want %d", len(summary.GenrePreferences), len(wantGenres))
	}
	for i, want := range wantGenres {
		if summary.GenrePreferences[i].GenreID != want {
			t.Errorf("GenrePreferences[%d].GenreID = %d, want %d", i, summary.GenrePreferences[i].GenreID, want)
		}
	}
}

func TestTopContent(t *testing.T) {
	t.Parallel()

	t.Run("count desc then id asc", func(t *testing.T) {
		t.Parallel()

		counts := map[string]int{"m-b": 2, "m-a": 2, "m-c": 5, "m-d": 1}
		got := topContent(counts, 20)
		want := []string{"m-c", "m-a", "m-b", "m-d"}

		if len(got) != len(want) {
			t.Fatalf("topContent() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("topContent()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("capped at limit", func(t *testing.T) {
		t.Parallel()

		counts := make(map[string]int)
		for i := 0; i < 30; i++ {
			counts[string(rune('a'+i))] = i + 1
		}
		got := topContent(counts, models.MaxTopContent)
		if len(got) != models.MaxTopContent {
			t.Errorf("topContent() returned %d ids, want %d", len(got), models.MaxTopContent)
		}
	})
}

func TestRefreshIfNeededIdempotentWhenFresh(t *testing.T) {
	t.Parallel()

	tr, _ := newTestTracker(t)
	ctx := t.Context()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }

	if _, err := tr.LogInteraction(ctx, "alice", likeDraft("m-1", 28)); err != nil {
		t.Fatalf("LogInteraction() error = %v", err)
	}

	first, err := tr.RefreshIfNeeded(ctx, "alice")
	if err != nil {
		t.Fatalf("first RefreshIfNeeded() error = %v", err)
	}

	// One minute later the summary is well within the threshold.
	tr.now = func() time.Time { return now.Add(time.Minute) }

	second, err := tr.RefreshIfNeeded(ctx, "alice")
	if err != nil {
		t.Fatalf("second RefreshIfNeeded() error = %v", err)
	}

	if !second.LastUpdated.Equal(first.LastUpdated) {
		t.Errorf("second refresh rewrote the summary: LastUpdated %v -> %v", first.LastUpdated, second.LastUpdated)
	}
	if second.TotalInteractions != first.TotalInteractions {
		t.Errorf("second refresh changed TotalInteractions %d -> %d", first.TotalInteractions, second.TotalInteractions)
	}
}

func TestRefreshIfNeededRecomputesWhenStale(t *testing.T) {
	t.Parallel()

	tr, _ := newTestTracker(t)
	ctx := t.Context()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }

	if _, err := tr.LogInteraction(ctx, "alice", likeDraft("m-1", 28)); err != nil {
		t.Fatalf("LogInteraction() error = %v", err)
	}
	first, err := tr.RefreshIfNeeded(ctx, "alice")
	if err != nil {
		t.Fatalf("first RefreshIfNeeded() error = %v", err)
	}

	// Past the threshold, with a new interaction in between.
	later := now.Add(7 * time.Hour)
	tr.now = func() time.Time { return later }
	if _, err := tr.LogInteraction(ctx, "alice", likeDraft("m-2", 12)); err != nil {
		t.Fatalf("LogInteraction() error = %v", err)
	}

	second, err := tr.RefreshIfNeeded(ctx, "alice")
	if err != nil {
		t.Fatalf("second RefreshIfNeeded() error = %v", err)
	}

	if !second.LastUpdated.After(first.LastUpdated) {
		t.Errorf("LastUpdated did not advance: %v -> %v", first.LastUpdated, second.LastUpdated)
	}
	if second.TotalInteractions != 2 {
		t.Errorf("TotalInteractions = %d, want 2", second.TotalInteractions)
	}
}

func TestRefreshIfNeededYieldsToHeldClaim(t *testing.T) {
	t.Parallel()

	tr, st := newTestTracker(t)
	ctx := t.Context()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }

	// A stale summary another refresh has already claimed.
	stale := &models.InteractionSummary{
		UserID:            "alice",
		TotalInteractions: 1,
		LastUpdated:       now.Add(-7 * time.Hour),
	}
	if err := st.PutSummary(ctx, stale); err != nil {
		t.Fatalf("PutSummary() error = %v", err)
	}
	result, _, err := st.ClaimRefresh(ctx, "alice", now, 6*time.Hour, 2*time.Minute)
	if err != nil {
		t.Fatalf("ClaimRefresh() error = %v", err)
	}
	if result != store.ClaimGranted {
		t.Fatalf("ClaimRefresh() = %v, want ClaimGranted", result)
	}

	got, err := tr.RefreshIfNeeded(ctx, "alice")
	if err != nil {
		t.Fatalf("RefreshIfNeeded() error = %v", err)
	}

	// The yielding caller gets the stale document, not a recomputation.
	if !got.LastUpdated.Equal(stale.LastUpdated) {
		t.Errorf("LastUpdated = %v, want stale %v", got.LastUpdated, stale.LastUpdated)
	}
	if got.TotalInteractions != 1 {
		t.Errorf("TotalInteractions = %d, want stale 1", got.TotalInteractions)
	}
}

func TestRefreshIfNeededReclaimsExpiredLease(t *testing.T) {
	t.Parallel()

	tr, st := newTestTracker(t)
	ctx := t.Context()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if _, err := tr.LogInteraction(ctx, "alice", likeDraft("m-1", 28)); err != nil {
		t.Fatalf("LogInteraction() error = %v", err)
	}

	// Simulate a crash after claim: the lease is written, the compute
	// never lands.
	result, _, err := st.ClaimRefresh(ctx, "alice", now, 6*time.Hour, 2*time.Minute)
	if err != nil {
		t.Fatalf("ClaimRefresh() error = %v", err)
	}
	if result != store.ClaimGranted {
		t.Fatalf("ClaimRefresh() = %v, want ClaimGranted", result)
	}

	// After the lease TTL the orphaned claim no longer blocks refreshes.
	tr.now = func() time.Time { return now.Add(3 * time.Minute) }

	got, err := tr.RefreshIfNeeded(ctx, "alice")
	if err != nil {
		t.Fatalf("RefreshIfNeeded() error = %v", err)
	}
	if got.Calculating {
		t.Error("recomputed summary still carries the claim")
	}
	if got.TotalInteractions != 1 {
		t.Errorf("TotalInteractions = %d, want 1", got.TotalInteractions)
	}
}

func TestRefreshConcurrentSingleCompute(t *testing.T) {
	t.Parallel()

	tr, st := newTestTracker(t)
	ctx := t.Context()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }

	if _, err := tr.LogInteraction(ctx, "alice", likeDraft("m-1", 28)); err != nil {
		t.Fatalf("LogInteraction() error = %v", err)
	}

	// Two concurrent claims: exactly one may be granted.
	first, _, err := st.ClaimRefresh(ctx, "alice", now, 6*time.Hour, 2*time.Minute)
	if err != nil {
		t.Fatalf("first ClaimRefresh() error = %v", err)
	}
	second, _, err := st.ClaimRefresh(ctx, "alice", now, 6*time.Hour, 2*time.Minute)
	if err != nil {
		t.Fatalf("second ClaimRefresh() error = %v", err)
	}

	granted := 0
	for _, r := range []store.ClaimResult{first, second} {
		if r == store.ClaimGranted {
			granted++
		}
	}
	if granted != 1 {
		t.Errorf("%d claims granted, want exactly 1", granted)
	}
}

func TestGetSummaryNotFound(t *testing.T) {
	t.Parallel()

	tr, _ := newTestTracker(t)

	_, err := tr.GetSummary(t.Context(), "nobody")
	if !errors.Is(err, store.ErrSummaryNotFound) {
		t.Errorf("GetSummary() error = %v, want ErrSummaryNotFound", err)
	}
}
