// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunnerTicksToExpiry(t *testing.T) {
	timer, err := NewTimer(TimerConfig{
		Key:          testKey(),
		LimitSeconds: 3,
		Clock:        fixedClock(time.UnixMilli(1)),
	})
	if err != nil {
		t.Fatalf("NewTimer: %v", err)
	}
	if _, err := timer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	expired := make(chan struct{})
	runner := NewRunner(timer, RunnerConfig{
		Interval: time.Millisecond,
		OnExpire: func() { close(expired) },
	})

	done := make(chan error, 1)
	go func() { done <- runner.Run(context.Background()) }()

	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not expire the timer")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v after expiry, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after expiry")
	}
	if timer.State() != StateExpired {
		t.Errorf("state = %v, want expired", timer.State())
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	timer, err := NewTimer(TimerConfig{
		Key:          testKey(),
		LimitSeconds: 1000,
		Clock:        fixedClock(time.UnixMilli(1)),
	})
	if err != nil {
		t.Fatalf("NewTimer: %v", err)
	}
	if _, err := timer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(timer, RunnerConfig{Interval: time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	if timer.State() == StateExpired {
		t.Error("cancelled runner expired the timer")
	}
}
