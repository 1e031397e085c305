// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// testJSONRoundTrip is a generic helper that tests JSON marshal/unmarshal for any type.
// It marshals the input, unmarshals it back, and calls the verification function.
func testJSONRoundTrip[T any](t *testing.T, name string, input T, verify func(t *testing.T, decoded T)) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		data, err := json.Marshal(input)
		if err != nil {
			t.Fatalf("Failed to marshal %s: %v", name, err)
		}

		var decoded T
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Failed to unmarshal %s: %v", name, err)
		}

		if verify != nil {
			verify(t, decoded)
		}
	})
}

var (
	testTime = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	testUUID = uuid.New()
)

func TestJSONMarshaling(t *testing.T) {
	t.Parallel()

	duration := 42
	testJSONRoundTrip(t, "InteractionRecord", InteractionRecord{
		ID:              testUUID,
		UserID:          "user-1",
		ContentID:       "tt0133093",
		MediaType:       MediaTypeMovie,
		Type:            InteractionTrailerPlay,
		GenreIDs:        []int{28, 878},
		Timestamp:       testTime,
		TrailerDuration: &duration,
	}, func(t *testing.T, decoded InteractionRecord) {
		if decoded.ID != testUUID {
			t.Errorf("Expected ID %v, got %v", testUUID, decoded.ID)
		}
		if decoded.Type != InteractionTrailerPlay {
			t.Errorf("Expected type trailer_play, got %s", decoded.Type)
		}
		if len(decoded.GenreIDs) != 2 || decoded.GenreIDs[0] != 28 {
			t.Errorf("GenreIDs not properly marshaled: %v", decoded.GenreIDs)
		}
		if decoded.TrailerDuration == nil || *decoded.TrailerDuration != 42 {
			t.Error("TrailerDuration not properly marshaled/unmarshaled")
		}
		if decoded.SearchQuery != nil {
			t.Error("Expected SearchQuery to be nil")
		}
	})

	lease := testTime.Add(time.Minute)
	testJSONRoundTrip(t, "InteractionSummary", InteractionSummary{
		UserID:            "user-1",
		TotalInteractions: 3,
		GenrePreferences: []GenrePreference{
			{GenreID: 28, GenreName: "Action", Score: 9.0, Count: 3},
		},
		TopContentIDs:       []string{"tt0133093"},
		LastUpdated:         testTime,
		Calculating:         true,
		RefreshLeaseExpires: &lease,
	}, func(t *testing.T, decoded InteractionSummary) {
		if decoded.TotalInteractions != 3 {
			t.Errorf("Expected 3 interactions, got %d", decoded.TotalInteractions)
		}
		if len(decoded.GenrePreferences) != 1 || decoded.GenrePreferences[0].Score != 9.0 {
			t.Errorf("GenrePreferences not properly marshaled: %v", decoded.GenrePreferences)
		}
		if !decoded.Calculating {
			t.Error("Expected calculating flag to survive round trip")
		}
		if decoded.RefreshLeaseExpires == nil || !decoded.RefreshLeaseExpires.Equal(lease) {
			t.Error("RefreshLeaseExpires not properly marshaled/unmarshaled")
		}
	})

	testJSONRoundTrip(t, "APIError", APIError{
		Code:    ErrCodeValidation,
		Message: "invalid input",
		Details: map[string]interface{}{"field": "media_type"},
	}, func(t *testing.T, decoded APIError) {
		if decoded.Code != ErrCodeValidation {
			t.Errorf("Expected code VALIDATION_ERROR, got %s", decoded.Code)
		}
	})
}

func TestInteractionTypeIsValid(t *testing.T) {
	t.Parallel()

	for _, it := range ValidInteractionTypes() {
		if !it.IsValid() {
			t.Errorf("expected %s to be valid", it)
		}
	}

	invalid := []InteractionType{"", "View", "purchase", "like "}
	for _, it := range invalid {
		if it.IsValid() {
			t.Errorf("expected %q to be invalid", it)
		}
	}
}

func TestHasLiveLease(t *testing.T) {
	t.Parallel()

	now := testTime
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	tests := []struct {
		name    string
		summary *InteractionSummary
		want    bool
	}{
		{"nil summary", nil, false},
		{"not calculating", &InteractionSummary{Calculating: false}, false},
		{
			"live lease",
			&InteractionSummary{Calculating: true, RefreshLeaseExpires: &future},
			true,
		},
		{
			"expired lease treated as absent",
			&InteractionSummary{Calculating: true, RefreshLeaseExpires: &past},
			false,
		},
		{
			"legacy claim without expiry",
			&InteractionSummary{Calculating: true},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.summary.HasLiveLease(now); got != tt.want {
				t.Errorf("HasLiveLease() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsStale(t *testing.T) {
	t.Parallel()

	now := testTime
	threshold := 6 * time.Hour

	tests := []struct {
		name    string
		summary *InteractionSummary
		want    bool
	}{
		{"nil summary is stale", nil, true},
		{"fresh", &InteractionSummary{LastUpdated: now.Add(-time.Hour)}, false},
		{"exactly at threshold is fresh", &InteractionSummary{LastUpdated: now.Add(-threshold)}, false},
		{"past threshold is stale", &InteractionSummary{LastUpdated: now.Add(-threshold - time.Second)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.summary.IsStale(now, threshold); got != tt.want {
				t.Errorf("IsStale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenreName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		genreID int
		want    string
	}{
		{"movie genre", 28, "Action"},
		{"tv genre", 10765, "Sci-Fi & Fantasy"},
		{"shared genre", 18, "Drama"},
		{"unknown id", 424242, ""},
		{"zero id", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GenreName(tt.genreID); got != tt.want {
				t.Errorf("GenreName(%d) = %q, want %q", tt.genreID, got, tt.want)
			}
		})
	}
}
