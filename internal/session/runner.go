// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package session

import (
	"context"
	"time"
)

// Runner drives a Timer with one tick per interval until the timer expires
// or the context is cancelled. One runner owns one timer; cancellation is
// synchronous with respect to the Run loop, so a torn-down session never
// ticks again after Run returns.
type Runner struct {
	timer    *Timer
	interval time.Duration
	onExpire func()
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// Interval between ticks. Defaults to one second; tests shorten it.
	Interval time.Duration

	// OnExpire is invoked once, from the Run goroutine, when the timer
	// transitions to Expired. Optional.
	OnExpire func()
}

// NewRunner creates a runner for the given timer.
func NewRunner(timer *Timer, cfg RunnerConfig) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &Runner{timer: timer, interval: cfg.Interval, onExpire: cfg.OnExpire}
}

// Run blocks, ticking the timer each interval. Returns nil when the timer
// expires, the context error when cancelled first, or the tick error when a
// store operation fails. The ticker is always stopped before returning.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			expired, err := r.timer.Tick(ctx)
			if err != nil {
				return err
			}
			if expired {
				if r.onExpire != nil {
					r.onExpire()
				}
				return nil
			}
		}
	}
}
