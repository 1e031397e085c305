// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package store

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/flickpulse/internal/metrics"
	"github.com/tomtom215/flickpulse/internal/models"
)

// AppendInteraction persists an immutable interaction record together with
// its retention index entry. Records are never updated in place.
func (s *Store) AppendInteraction(ctx context.Context, rec *models.InteractionRecord) error {
	start := time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}

	primary := interactionKey(rec.UserID, rec.Timestamp, rec.ID.String())

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(primary, data); err != nil {
			return fmt.Errorf("set interaction: %w", err)
		}

		timeKey := interactionTimeKey(rec.Timestamp, rec.UserID, rec.ID.String())
		if err := txn.Set(timeKey, primary); err != nil {
			return fmt.Errorf("set time index: %w", err)
		}

		return nil
	})

	metrics.RecordStoreOp("append", "interactions", time.Since(start), err)
	return err
}

// RecentByUser returns up to limit of the user's most recent interaction
// records, newest first.
func (s *Store) RecentByUser(ctx context.Context, userID string, limit int) ([]models.InteractionRecord, error) {
	start := time.Now()

	var records []models.InteractionRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := interactionUserPrefix(userID)
		// Reverse iteration starts past the end of the prefix range.
		seek := append(bytes.Clone(prefix), 0xff)

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if len(records) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			var rec models.InteractionRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("unmarshal interaction: %w", err)
			}
			records = append(records, rec)
		}
		return nil
	})

	metrics.RecordStoreOp("recent_by_user", "interactions", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountByUser returns the total number of stored records for a user.
func (s *Store) CountByUser(ctx context.Context, userID string) (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := interactionUserPrefix(userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	})

	return count, err
}

// DeleteOlderThan deletes one batch of interaction records strictly older
// than the cutoff time, bounded by batchSize per call. It returns the number
// of records deleted; callers loop until a short batch signals completion.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time, batchSize int) (int, error) {
	start := time.Now()

	type pair struct {
		timeKey []byte
		primary []byte
	}

	// Collect one batch from the time index. The scan stops at the cutoff
	// key, so cost is proportional to the batch, not the store.
	var batch []pair
	bound := interactionTimeCutoff(cutoff)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(interactionTimePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if bytes.Compare(item.Key(), bound) >= 0 {
				break
			}
			if len(batch) >= batchSize {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			timeKey := item.KeyCopy(nil)
			var primary []byte
			err := item.Value(func(val []byte) error {
				primary = bytes.Clone(val)
				return nil
			})
			if err != nil {
				return fmt.Errorf("read time index: %w", err)
			}
			batch = append(batch, pair{timeKey: timeKey, primary: primary})
		}
		return nil
	})
	if err != nil {
		metrics.RecordStoreOp("delete_older_than", "interactions", time.Since(start), err)
		return 0, err
	}

	if len(batch) == 0 {
		metrics.RecordStoreOp("delete_older_than", "interactions", time.Since(start), nil)
		return 0, nil
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, p := range batch {
			if err := txn.Delete(p.primary); err != nil {
				return fmt.Errorf("delete interaction: %w", err)
			}
			if err := txn.Delete(p.timeKey); err != nil {
				return fmt.Errorf("delete time index: %w", err)
			}
		}
		return nil
	})

	metrics.RecordStoreOp("delete_older_than", "interactions", time.Since(start), err)
	if err != nil {
		return 0, err
	}
	return len(batch), nil
}
