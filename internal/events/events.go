// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

// Package events publishes session lifecycle and interaction events over an
// in-process pub/sub bus. Consumers (the interaction log, structured audit
// logging) subscribe to topics without coupling to the engine that emits
// them.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current event schema version. Increment on breaking
// changes to Event.
const SchemaVersion = 1

// Topics carried on the bus.
const (
	TopicSessions     = "sessions"
	TopicInteractions = "interactions"
)

// Event types.
const (
	TypeSessionStarted    = "session.started"
	TypeSessionEnded      = "session.ended"
	TypeInteractionLogged = "interaction.logged"
)

// Event is the canonical lifecycle event format.
type Event struct {
	SchemaVersion int       `json:"schemaVersion,omitempty"`
	EventID       string    `json:"eventId"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`

	ExperimentID  string `json:"experimentId"`
	ParticipantID string `json:"participantId,omitempty"`

	// Reason is set on session.ended: completed, expired, or swept.
	Reason string `json:"reason,omitempty"`

	// Interaction fields, set on interaction.logged.
	InteractionType string `json:"interactionType,omitempty"`
	VideoID         string `json:"videoId,omitempty"`
	WatchTimeMs     int64  `json:"watchTimeMs,omitempty"`
}

// NewEvent creates an event with a unique ID, UTC timestamp, and schema
// version.
func NewEvent(eventType, experimentID, participantID string) *Event {
	return &Event{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Type:          eventType,
		Timestamp:     time.Now().UTC(),
		ExperimentID:  experimentID,
		ParticipantID: participantID,
	}
}

// Validate checks required fields.
func (e *Event) Validate() error {
	if e.EventID == "" {
		return errors.New("event_id is required")
	}
	if e.ExperimentID == "" {
		return errors.New("experiment_id is required")
	}
	if e.Timestamp.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Type {
	case TypeSessionStarted, TypeSessionEnded, TypeInteractionLogged:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.Type == TypeSessionEnded && e.Reason == "" {
		return errors.New("session.ended requires a reason")
	}
	if e.Type == TypeInteractionLogged && e.InteractionType == "" {
		return errors.New("interaction.logged requires an interaction type")
	}
	return nil
}

// Topic returns the bus topic this event belongs on.
func (e *Event) Topic() string {
	if e.Type == TypeInteractionLogged {
		return TopicInteractions
	}
	return TopicSessions
}
