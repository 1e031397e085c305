// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/flickpulse/internal/config"
	"github.com/tomtom215/flickpulse/internal/models"
	"github.com/tomtom215/flickpulse/internal/store"
)

func testRetentionConfig() config.RetentionConfig {
	return config.RetentionConfig{
		Days:             90,
		BatchSize:        3,
		Interval:         time.Hour,
		BatchesPerSecond: 1000,
	}
}

func newTestJanitor(t *testing.T) (*Janitor, *store.Store) {
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

	return NewJanitor(testRetentionConfig(), st, zerolog.Nop()), st
}

func appendAt(t *testing.T, st *store.Store, userID string, ts time.Time) {
	t.Helper()

	rec := &models.InteractionRecord{
		ID:        uuid.New(),
		UserID:    userID,
		ContentID: "m-1",
		MediaType: models.MediaTypeMovie,
		Type:      models.InteractionView,
		Timestamp: ts.UTC(),
	}
	if err := st.AppendInteraction(t.Context(), rec); err != nil {
		t.Fatalf("AppendInteraction() error = %v", err)
	}
}

func TestJanitorRunOnce(t *testing.T) {
	t.Parallel()

	j, st := newTestJanitor(t)
	ctx := t.Context()
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return now }
	cutoff := now.AddDate(0, 0, -j.cfg.Days)

	// Seven expired records force multiple batches at batch size 3; the
	// two records at and after the cutoff must survive.
	for i := 0; i < 7; i++ {
		appendAt(t, st, "alice", cutoff.Add(-time.Duration(i+1)*time.Hour))
	}
	appendAt(t, st, "alice", cutoff)
	appendAt(t, st, "alice", cutoff.Add(time.Hour))

	deleted, err := j.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if deleted != 7 {
		t.Errorf("RunOnce() deleted %d records, want 7", deleted)
	}

	count, err := st.CountByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("CountByUser() error = %v", err)
	}
	if count != 2 {
		t.Errorf("%d records remain, want 2", count)
	}
}

func TestJanitorRunOnceEmptyStore(t *testing.T) {
	t.Parallel()

	j, _ := newTestJanitor(t)

	deleted, err := j.RunOnce(t.Context())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("RunOnce() deleted %d records on empty store, want 0", deleted)
	}
}

func TestJanitorServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	j, _ := newTestJanitor(t)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- j.Serve(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not stop after cancel")
	}
}

func TestJanitorString(t *testing.T) {
	t.Parallel()

	j, _ := newTestJanitor(t)
	if got := j.String(); got != "retention-janitor" {
		t.Errorf("String() = %q, want %q", got, "retention-janitor")
	}
}
