// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

// Package store provides the embedded document store for interaction records
// and interaction summaries, backed by BadgerDB.
//
// Key layout:
//
//	interaction:{userID}:{tsNano}:{id}  -> InteractionRecord JSON
//	interaction_ts:{tsNano}:{userID}:{id} -> primary key (retention index)
//	summary:{userID}                    -> InteractionSummary JSON
//
// Timestamps are zero-padded nanosecond strings so lexicographic key order
// matches chronological order. Recent-first reads iterate the per-user prefix
// in reverse; retention scans the time index in ascending order and stops at
// the cutoff.
//
// The refresh claim (ClaimRefresh) is the one multi-step decision made inside
// a single Badger transaction; everything else is a plain read or a full
// document overwrite.
package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/flickpulse/internal/config"
	"github.com/tomtom215/flickpulse/internal/logging"
)

// Sentinel errors returned by store operations.
var (
	// ErrSummaryNotFound indicates no summary document exists for the user.
	ErrSummaryNotFound = errors.New("summary not found")
)

// Store wraps a Badger database with typed operations for interaction
// records and summaries. Safe for concurrent use.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens (or creates) the store at the configured path. With
// cfg.InMemory set, data lives only for the process lifetime; used in tests.
func Open(cfg config.StoreConfig) (*Store, error) {
	logger := logging.With().Str("component", "store").Logger()

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", cfg.Path, err)
	}

	logger.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("store opened")

	return &Store{db: db, logger: logger}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

// RunValueLogGC triggers a single value log garbage collection pass.
// Returns badger.ErrNoRewrite when nothing needed collecting.
func (s *Store) RunValueLogGC() error {
	return s.db.RunValueLogGC(0.5)
}

// badgerLogger adapts Badger's internal logging to zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(format, args...)
}
