// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/flickpulse/internal/models"
)

// Subjects and stream naming.
const (
	// StreamName is the JetStream stream holding interaction events.
	StreamName = "INTERACTIONS"

	// TopicInteractionLogged carries one event per logged interaction.
	TopicInteractionLogged = "interaction.logged"

	// TopicPoison receives messages that exhausted their retries.
	TopicPoison = "interaction.poison"
)

// InteractionLoggedEvent is the wire form of a logged interaction. The
// event id doubles as the NATS message id for JetStream deduplication.
type InteractionLoggedEvent struct {
	EventID    string                   `json:"event_id"`
	Record     models.InteractionRecord `json:"record"`
	OccurredAt time.Time                `json:"occurred_at"`
}

// NewInteractionLoggedEvent wraps a stored record for publishing.
func NewInteractionLoggedEvent(rec *models.InteractionRecord) *InteractionLoggedEvent {
	return &InteractionLoggedEvent{
		EventID:    uuid.New().String(),
		Record:     *rec,
		OccurredAt: time.Now().UTC(),
	}
}

// Validate checks the fields handlers depend on.
func (e *InteractionLoggedEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event id required")
	}
	if e.Record.UserID == "" {
		return fmt.Errorf("record user id required")
	}
	if e.Record.ContentID == "" {
		return fmt.Errorf("record content id required")
	}
	return nil
}

// Serializer handles event encoding/decoding for NATS messages.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Marshal converts an event to JSON bytes.
func (s *Serializer) Marshal(event *InteractionLoggedEvent) ([]byte, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal converts JSON bytes to an event.
func (s *Serializer) Unmarshal(data []byte) (*InteractionLoggedEvent, error) {
	var event InteractionLoggedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &event, nil
}

// SerializeEvent is a convenience function that marshals an event to JSON.
func SerializeEvent(event *InteractionLoggedEvent) ([]byte, error) {
	return NewSerializer().Marshal(event)
}

// DeserializeEvent is a convenience function that unmarshals JSON to an event.
func DeserializeEvent(data []byte) (*InteractionLoggedEvent, error) {
	return NewSerializer().Unmarshal(data)
}
