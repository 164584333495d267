// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/feedstage/feedstage/internal/logging"
	"github.com/feedstage/feedstage/internal/metrics"
)

// BusConfig configures the in-process event bus.
type BusConfig struct {
	// BufferSize is the per-subscriber channel buffer. Defaults to 64.
	BufferSize int64
}

// Bus is an in-process pub/sub event bus. All delivery is within this
// process; a subscriber that is slow only backs up its own buffer.
type Bus struct {
	pubsub     *gochannel.GoChannel
	serializer *Serializer
	logger     watermill.LoggerAdapter
}

// NewBus creates the event bus.
func NewBus(cfg BusConfig) *Bus {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64
	}
	logger := watermill.NewSlogLogger(logging.NewSlogLogger())
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger),
		serializer: NewSerializer(),
		logger:     logger,
	}
}

// Publish validates and publishes event on its topic. The message UUID is
// the event ID.
func (b *Bus) Publish(ctx context.Context, event *Event) error {
	data, err := b.serializer.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(event.EventID, data)
	msg.SetContext(ctx)
	if err := b.pubsub.Publish(event.Topic(), msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(event.Type).Inc()
	return nil
}

// Subscribe returns a channel of raw messages for topic. Consumers must Ack
// or Nack every message. The channel closes when ctx is cancelled or the
// bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	msgs, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return msgs, nil
}

// Close shuts the bus down, closing all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
