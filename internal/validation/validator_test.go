// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/flickpulse/internal/models"
)

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	draft := models.InteractionDraft{
		ContentID: "tt0133093",
		MediaType: models.MediaTypeMovie,
		Type:      models.InteractionLike,
		GenreIDs:  []int{28, 878},
	}

	if err := ValidateStruct(&draft); err != nil {
		t.Errorf("expected valid draft, got: %v", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		draft     models.InteractionDraft
		wantField string
		wantTag   string
	}{
		{
			name: "missing content id",
			draft: models.InteractionDraft{
				MediaType: models.MediaTypeMovie,
				Type:      models.InteractionView,
			},
			wantField: "ContentID",
			wantTag:   "required",
		},
		{
			name: "bad media type",
			draft: models.InteractionDraft{
				ContentID: "tt0133093",
				MediaType: "podcast",
				Type:      models.InteractionView,
			},
			wantField: "MediaType",
			wantTag:   "oneof",
		},
		{
			name: "unknown interaction type",
			draft: models.InteractionDraft{
				ContentID: "tt0133093",
				MediaType: models.MediaTypeMovie,
				Type:      "purchase",
			},
			wantField: "Type",
			wantTag:   "interaction_type",
		},
		{
			name: "negative genre id",
			draft: models.InteractionDraft{
				ContentID: "tt0133093",
				MediaType: models.MediaTypeMovie,
				Type:      models.InteractionView,
				GenreIDs:  []int{28, -1},
			},
			wantField: "GenreIDs[1]",
			wantTag:   "gte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateStruct(&tt.draft)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			found := false
			for _, fe := range err.Errors() {
				if fe.Field() == tt.wantField && fe.Tag() == tt.wantTag {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %s (%s), got: %v", tt.wantField, tt.wantTag, err)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	draft := models.InteractionDraft{
		MediaType: models.MediaTypeMovie,
		Type:      models.InteractionView,
	}

	err := ValidateStruct(&draft)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "required") {
		t.Errorf("expected 'required' in message: %s", apiErr.Message)
	}
	if apiErr.Details["field"] != "ContentID" {
		t.Errorf("expected field detail ContentID, got %v", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	draft := models.InteractionDraft{}

	err := ValidateStruct(&draft)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) < 2 {
		t.Fatalf("expected multiple errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("expected 'fields' detail for multiple errors")
	}
	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("expected combined message: %s", apiErr.Message)
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("expected the same validator instance")
	}
}
