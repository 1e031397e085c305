// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/flickpulse/internal/models"
	"github.com/tomtom215/flickpulse/internal/store"
)

// maxReportGenres bounds the genre list in an analytics report.
const maxReportGenres = 10

// Analytics builds a read-only report over the user's summary and up to
// recentLimit recent records. It never writes; a user with no summary still
// gets a report projected from raw records alone.
func (t *Tracker) Analytics(ctx context.Context, userID string, recentLimit int) (*models.AnalyticsReport, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	summary, err := t.store.GetSummary(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrSummaryNotFound) {
		return nil, fmt.Errorf("fetch summary: %w", err)
	}

	records, err := t.store.RecentByUser(ctx, userID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	report := &models.AnalyticsReport{
		UserID:       userID,
		CountsByType: make(map[string]int),
		GeneratedAt:  t.now().UTC(),
	}

	distinct := make(map[string]struct{})
	for _, rec := range records {
		report.CountsByType[string(rec.Type)]++
		distinct[rec.ContentID] = struct{}{}

		if rec.Type == models.InteractionTrailerPlay {
			report.TrailerEngagement.Plays++
			if rec.TrailerDuration != nil {
				report.TrailerEngagement.WatchedSeconds += *rec.TrailerDuration
			}
		}
	}
	report.DistinctContent = len(distinct)

	if summary != nil {
		report.TotalInteractions = summary.TotalInteractions
		report.TopGenres = summary.GenrePreferences
	} else {
		// No materialized summary yet; project preferences from the
		// fetched window instead.
		report.TotalInteractions = len(records)
		report.TopGenres = t.computeSummary(userID, records, report.GeneratedAt).GenrePreferences
	}
	if len(report.TopGenres) > maxReportGenres {
		report.TopGenres = report.TopGenres[:maxReportGenres]
	}

	return report, nil
}
