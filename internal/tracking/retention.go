// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/flickpulse/internal/config"
	"github.com/tomtom215/flickpulse/internal/metrics"
	"github.com/tomtom215/flickpulse/internal/store"
)

// Janitor purges interaction records past the retention window. It runs as
// a supervised service, sweeping on a fixed interval; each sweep deletes in
// bounded batches paced by a rate limiter so retention never monopolizes
// the store.
type Janitor struct {
	cfg     config.RetentionConfig
	store   *store.Store
	limiter *rate.Limiter
	logger  zerolog.Logger

	// Injected clock for tests.
	now func() time.Time
}

// NewJanitor creates the retention janitor.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewJanitor(cfg config.RetentionConfig, st *store.Store, logger zerolog.Logger) *Janitor {
	return &Janitor{
		cfg:     cfg,
		store:   st,
		limiter: rate.NewLimiter(rate.Limit(cfg.BatchesPerSecond), 1),
		logger:  logger.With().Str("component", "retention").Logger(),
		now:     time.Now,
	}
}

// String implements fmt.Stringer for supervisor logging.
func (j *Janitor) String() string {
	return "retention-janitor"
}

// Serve implements suture.Service. It sweeps immediately on start, then on
// every interval tick, until the context is cancelled.
func (j *Janitor) Serve(ctx context.Context) error {
	j.logger.Info().
		Int("retention_days", j.cfg.Days).
		Dur("interval", j.cfg.Interval).
		Msg("retention janitor started")

	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		if deleted, err := j.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			j.logger.Error().Err(err).Msg("retention sweep failed")
		} else if deleted > 0 {
			j.logger.Info().Int("deleted", deleted).Msg("retention sweep completed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single retention sweep, deleting every record older
// than the retention window in paced batches. Returns the total number of
// records deleted.
func (j *Janitor) RunOnce(ctx context.Context) (int, error) {
	start := j.now()
	cutoff := start.UTC().AddDate(0, 0, -j.cfg.Days)

	total := 0
	for {
		if err := j.limiter.Wait(ctx); err != nil {
			metrics.RecordRetentionRun(time.Since(start), total, err)
			return total, fmt.Errorf("retention pacing: %w", err)
		}

		deleted, err := j.store.DeleteOlderThan(ctx, cutoff, j.cfg.BatchSize)
		if err != nil {
			metrics.RecordRetentionRun(time.Since(start), total, err)
			return total, fmt.Errorf("retention batch: %w", err)
		}
		total += deleted

		// A short batch means the window is clean.
		if deleted < j.cfg.BatchSize {
			break
		}
	}

	metrics.RecordRetentionRun(time.Since(start), total, nil)
	return total, nil
}
