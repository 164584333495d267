// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package supervisor

import (
	"context"
	"errors"
)

// EventConsumer matches the run loop of a bus consumer such as
// events.AuditConsumer.
type EventConsumer interface {
	Run(ctx context.Context) error
}

// ConsumerService wraps a bus consumer as a supervised service. A consumer
// that exits with context.Canceled stopped on purpose; anything else is a
// crash and suture restarts it.
type ConsumerService struct {
	consumer EventConsumer
	name     string
}

// NewConsumerService wraps consumer under the given service name.
func NewConsumerService(consumer EventConsumer, name string) *ConsumerService {
	if name == "" {
		name = "event-consumer"
	}
	return &ConsumerService{consumer: consumer, name: name}
}

// Serve implements suture.Service.
func (c *ConsumerService) Serve(ctx context.Context) error {
	err := c.consumer.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}

// String implements fmt.Stringer; suture uses it in log messages.
func (c *ConsumerService) String() string {
	return c.name
}
