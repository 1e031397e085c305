// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package models

import (
	"time"

	"github.com/google/uuid"
)

// InteractionType identifies the kind of user action being logged.
// The tracking engine assigns each type a fixed preference weight; types
// unknown to the weight table contribute zero score but still count as events.
type InteractionType string

// Supported interaction types.
const (
	InteractionView            InteractionType = "view"
	InteractionWatchlistAdd    InteractionType = "watchlist_add"
	InteractionWatchlistRemove InteractionType = "watchlist_remove"
	InteractionLike            InteractionType = "like"
	InteractionUnlike          InteractionType = "unlike"
	InteractionTrailerPlay     InteractionType = "trailer_play"
	InteractionHide            InteractionType = "hide"
	InteractionUnhide          InteractionType = "unhide"
	InteractionSearch          InteractionType = "search"
	InteractionVoiceSearch     InteractionType = "voice_search"
)

// ValidInteractionTypes lists every accepted interaction type, in the order
// they are reported by analytics.
func ValidInteractionTypes() []InteractionType {
	return []InteractionType{
		InteractionView,
		InteractionWatchlistAdd,
		InteractionWatchlistRemove,
		InteractionLike,
		InteractionUnlike,
		InteractionTrailerPlay,
		InteractionHide,
		InteractionUnhide,
		InteractionSearch,
		InteractionVoiceSearch,
	}
}

// IsValid reports whether t is a known interaction type.
func (t InteractionType) IsValid() bool {
	switch t {
	case InteractionView, InteractionWatchlistAdd, InteractionWatchlistRemove,
		InteractionLike, InteractionUnlike, InteractionTrailerPlay,
		InteractionHide, InteractionUnhide, InteractionSearch, InteractionVoiceSearch:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (t InteractionType) String() string {
	return string(t)
}

// Supported media types for interaction content.
const (
	MediaTypeMovie   = "movie"
	MediaTypeTV      = "tv"
	MediaTypeEpisode = "episode"
)

// InteractionRecord represents a single logged user action against a content
// item. Records are immutable once written; there are no in-place updates.
// Records older than the configured retention window are purged by the
// retention janitor.
//
// Fields:
//   - ID: Unique UUID assigned at log time (never client-supplied)
//   - UserID: Owner of the interaction
//   - ContentID: Movie/TV identifier the action targeted
//   - MediaType: "movie", "tv", or "episode"
//   - Type: Interaction kind (see InteractionType constants)
//   - GenreIDs: Genre tags of the content at interaction time
//   - Timestamp: UTC time assigned at log time
//
// Optional metadata:
//   - TrailerDuration: Seconds of trailer watched (trailer_play only)
//   - SearchQuery: Query text (search / voice_search only)
//   - CollectionID: Collection context the action originated from
//   - Source: Client surface that produced the event (e.g. "web", "mobile")
type InteractionRecord struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"user_id"`
	ContentID string          `json:"content_id"`
	MediaType string          `json:"media_type"`
	Type      InteractionType `json:"interaction_type"`
	GenreIDs  []int           `json:"genre_ids"`
	Timestamp time.Time       `json:"timestamp"`

	TrailerDuration *int    `json:"trailer_duration,omitempty"`
	SearchQuery     *string `json:"search_query,omitempty"`
	CollectionID    *string `json:"collection_id,omitempty"`
	Source          *string `json:"source,omitempty"`
}

// InteractionDraft is the client-supplied payload for logging an interaction.
// The tracker assigns the record ID and timestamp; drafts never carry them.
//
// Validation (go-playground/validator):
//   - ContentID required, max 128 chars
//   - MediaType one of movie/tv/episode
//   - Type must be a known interaction type
//   - GenreIDs each non-negative, at most 32 entries
type InteractionDraft struct {
	ContentID string          `json:"content_id" validate:"required,max=128"`
	MediaType string          `json:"media_type" validate:"required,oneof=movie tv episode"`
	Type      InteractionType `json:"interaction_type" validate:"required,interaction_type"`
	GenreIDs  []int           `json:"genre_ids" validate:"max=32,dive,gte=0"`

	TrailerDuration *int    `json:"trailer_duration,omitempty" validate:"omitempty,gte=0"`
	SearchQuery     *string `json:"search_query,omitempty" validate:"omitempty,max=512"`
	CollectionID    *string `json:"collection_id,omitempty" validate:"omitempty,max=128"`
	Source          *string `json:"source,omitempty" validate:"omitempty,max=64"`
}
