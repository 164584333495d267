// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package events

import (
	"context"

	"github.com/feedstage/feedstage/internal/logging"
)

// AuditConsumer subscribes to every topic and writes each event to the
// structured log, giving researchers a replayable audit trail of session
// lifecycles and interactions without a separate log pipeline.
type AuditConsumer struct {
	bus        *Bus
	serializer *Serializer
}

// NewAuditConsumer creates an audit consumer on bus.
func NewAuditConsumer(bus *Bus) *AuditConsumer {
	return &AuditConsumer{bus: bus, serializer: NewSerializer()}
}

// Run consumes events until ctx is cancelled or the bus closes. Malformed
// messages are acked and logged rather than redelivered forever.
func (c *AuditConsumer) Run(ctx context.Context) error {
	sessions, err := c.bus.Subscribe(ctx, TopicSessions)
	if err != nil {
		return err
	}
	interactions, err := c.bus.Subscribe(ctx, TopicInteractions)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-sessions:
			if !ok {
				return nil
			}
			c.handle(msg.Payload)
			msg.Ack()
		case msg, ok := <-interactions:
			if !ok {
				return nil
			}
			c.handle(msg.Payload)
			msg.Ack()
		}
	}
}

func (c *AuditConsumer) handle(payload []byte) {
	event, err := c.serializer.Unmarshal(payload)
	if err != nil {
		logging.Err(err).Msg("Discarding malformed event")
		return
	}

	entry := logging.Info().
		Str("event_id", event.EventID).
		Str("event_type", event.Type).
		Str("experiment_id", event.ExperimentID).
		Str("participant_id", event.ParticipantID)
	if event.Reason != "" {
		entry = entry.Str("reason", event.Reason)
	}
	if event.InteractionType != "" {
		entry = entry.Str("interaction_type", event.InteractionType).
			Str("video_id", event.VideoID).
			Int64("watch_time_ms", event.WatchTimeMs)
	}
	entry.Msg("Event")
}
