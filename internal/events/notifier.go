// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package events

import (
	"context"

	"github.com/feedstage/feedstage/internal/logging"
)

// BusNotifier adapts the event bus to the session engine's notification
// interface. Publish failures are logged, never surfaced: ending a session
// must not fail because a consumer is misbehaving.
type BusNotifier struct {
	bus *Bus
}

// NewBusNotifier creates a notifier publishing on bus.
func NewBusNotifier(bus *Bus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

// SessionStarted publishes session.started.
func (n *BusNotifier) SessionStarted(ctx context.Context, experimentID, participantID string) {
	event := NewEvent(TypeSessionStarted, experimentID, participantID)
	if err := n.bus.Publish(ctx, event); err != nil {
		logging.Err(err).
			Str("experiment_id", experimentID).
			Str("participant_id", participantID).
			Msg("Failed to publish session.started")
	}
}

// SessionEnded publishes session.ended with the end reason.
func (n *BusNotifier) SessionEnded(ctx context.Context, experimentID, participantID, reason string) {
	event := NewEvent(TypeSessionEnded, experimentID, participantID)
	event.Reason = reason
	if err := n.bus.Publish(ctx, event); err != nil {
		logging.Err(err).
			Str("experiment_id", experimentID).
			Str("participant_id", participantID).
			Str("reason", reason).
			Msg("Failed to publish session.ended")
	}
}

// InteractionLogged publishes interaction.logged.
func (n *BusNotifier) InteractionLogged(ctx context.Context, experimentID, participantID, interactionType, videoID string, watchTimeMs int64) {
	event := NewEvent(TypeInteractionLogged, experimentID, participantID)
	event.InteractionType = interactionType
	event.VideoID = videoID
	event.WatchTimeMs = watchTimeMs
	if err := n.bus.Publish(ctx, event); err != nil {
		logging.Err(err).
			Str("experiment_id", experimentID).
			Str("interaction_type", interactionType).
			Msg("Failed to publish interaction.logged")
	}
}
