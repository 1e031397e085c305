// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/flickpulse/internal/metrics"
	"github.com/tomtom215/flickpulse/internal/models"
)

// ClaimResult is the outcome of a refresh claim attempt.
type ClaimResult int

const (
	// ClaimGranted means the caller now owns the refresh slot and must
	// recompute the summary (or clear the claim on failure).
	ClaimGranted ClaimResult = iota

	// ClaimFresh means the summary is within the staleness threshold;
	// no recomputation is needed.
	ClaimFresh

	// ClaimHeld means another refresh holds a live lease; the caller
	// should yield and serve the existing (stale) summary.
	ClaimHeld
)

// String implements fmt.Stringer.
func (r ClaimResult) String() string {
	switch r {
	case ClaimGranted:
		return "granted"
	case ClaimFresh:
		return "fresh"
	case ClaimHeld:
		return "held"
	default:
		return "unknown"
	}
}

// GetSummary returns the user's summary, or ErrSummaryNotFound.
func (s *Store) GetSummary(ctx context.Context, userID string) (*models.InteractionSummary, error) {
	start := time.Now()

	var summary models.InteractionSummary

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(summaryKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSummaryNotFound
		}
		if err != nil {
			return fmt.Errorf("get summary: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &summary)
		})
	})

	metrics.RecordStoreOp("get", "summaries", time.Since(start), ignoreNotFound(err))
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// PutSummary writes the summary as a full document overwrite. Last write
// wins; any lease fields not set on the new document are thereby cleared.
func (s *Store) PutSummary(ctx context.Context, summary *models.InteractionSummary) error {
	start := time.Now()

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(summaryKey(summary.UserID), data)
	})

	metrics.RecordStoreOp("put", "summaries", time.Since(start), err)
	return err
}

// ClaimRefresh runs the refresh guard inside a single transaction.
//
// It reads the current summary and decides:
//   - fresh (age within threshold): no write, returns ClaimFresh
//   - live lease held by another refresh: no write, returns ClaimHeld
//   - stale with no live lease: writes a lease claim expiring at
//     now+leaseTTL and returns ClaimGranted
//
// An expired lease is treated as absent, so a crash between claim and
// summary write self-heals after the TTL. The returned summary is the
// pre-claim document (nil when the user has none yet).
//
// The recomputation itself runs outside this transaction; on success the
// full-overwrite PutSummary implicitly clears the lease, on failure the
// caller invokes ClearClaim best-effort.
func (s *Store) ClaimRefresh(ctx context.Context, userID string, now time.Time, threshold, leaseTTL time.Duration) (ClaimResult, *models.InteractionSummary, error) {
	start := time.Now()

	var (
		result  ClaimResult
		current *models.InteractionSummary
	)

	err := s.db.Update(func(txn *badger.Txn) error {
		result = ClaimGranted
		current = nil

		item, err := txn.Get(summaryKey(userID))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			// No summary yet: always stale, claim immediately.
		case err != nil:
			return fmt.Errorf("get summary: %w", err)
		default:
			var summary models.InteractionSummary
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &summary)
			}); err != nil {
				return fmt.Errorf("unmarshal summary: %w", err)
			}
			current = &summary

			if !summary.IsStale(now, threshold) {
				result = ClaimFresh
				return nil
			}
			if summary.HasLiveLease(now) {
				result = ClaimHeld
				return nil
			}
		}

		// Stale and unclaimed: write the lease. The claim document keeps
		// every aggregate field so readers see the stale data until the
		// recomputation lands.
		claim := models.InteractionSummary{UserID: userID}
		if current != nil {
			claim = *current
		}
		expiry := now.Add(leaseTTL)
		claim.Calculating = true
		claim.RefreshLeaseExpires = &expiry

		data, err := json.Marshal(&claim)
		if err != nil {
			return fmt.Errorf("marshal claim: %w", err)
		}
		return txn.Set(summaryKey(userID), data)
	})

	metrics.RecordStoreOp("claim_refresh", "summaries", time.Since(start), err)
	if err != nil {
		return ClaimGranted, nil, err
	}
	return result, current, nil
}

// ClearClaim removes the refresh lease without touching the aggregate
// fields. Used as best-effort cleanup when a recomputation fails; a missing
// summary is not an error.
func (s *Store) ClearClaim(ctx context.Context, userID string) error {
	start := time.Now()

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(summaryKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get summary: %w", err)
		}

		var summary models.InteractionSummary
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &summary)
		}); err != nil {
			return fmt.Errorf("unmarshal summary: %w", err)
		}

		if !summary.Calculating {
			return nil
		}
		summary.Calculating = false
		summary.RefreshLeaseExpires = nil

		data, err := json.Marshal(&summary)
		if err != nil {
			return fmt.Errorf("marshal summary: %w", err)
		}
		return txn.Set(summaryKey(userID), data)
	})

	metrics.RecordStoreOp("clear_claim", "summaries", time.Since(start), err)
	return err
}

// ignoreNotFound keeps expected not-found results out of the error metrics.
func ignoreNotFound(err error) error {
	if errors.Is(err, ErrSummaryNotFound) {
		return nil
	}
	return err
}
