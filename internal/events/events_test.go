// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package events

import (
	"context"
	"testing"
	"time"
)

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Event)
		wantErr bool
	}{
		{"valid started", func(e *Event) {}, false},
		{"valid ended", func(e *Event) { e.Type = TypeSessionEnded; e.Reason = "completed" }, false},
		{"ended without reason", func(e *Event) { e.Type = TypeSessionEnded }, true},
		{"interaction without type", func(e *Event) { e.Type = TypeInteractionLogged }, true},
		{"valid interaction", func(e *Event) { e.Type = TypeInteractionLogged; e.InteractionType = "like" }, false},
		{"unknown type", func(e *Event) { e.Type = "session.paused" }, true},
		{"missing experiment", func(e *Event) { e.ExperimentID = "" }, true},
		{"missing event id", func(e *Event) { e.EventID = "" }, true},
		{"zero timestamp", func(e *Event) { e.Timestamp = time.Time{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewEvent(TypeSessionStarted, "exp-1", "alice")
			tt.mutate(event)
			err := event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEventTopic(t *testing.T) {
	if got := NewEvent(TypeSessionStarted, "e", "p").Topic(); got != TopicSessions {
		t.Errorf("started topic = %q", got)
	}
	if got := NewEvent(TypeInteractionLogged, "e", "p").Topic(); got != TopicInteractions {
		t.Errorf("interaction topic = %q", got)
	}
}

func TestSerializerRejectsInvalidEvent(t *testing.T) {
	s := NewSerializer()
	event := NewEvent(TypeSessionEnded, "exp-1", "alice") // no reason
	if _, err := s.Marshal(event); err == nil {
		t.Error("Marshal accepted session.ended without reason")
	}
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus(BusConfig{})
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := bus.Subscribe(ctx, TopicSessions)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	want := NewEvent(TypeSessionEnded, "exp-1", "alice")
	want.Reason = "expired"
	if err := bus.Publish(ctx, want); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-msgs:
		got, err := NewSerializer().Unmarshal(msg.Payload)
		if err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		msg.Ack()
		if got.EventID != want.EventID || got.Type != want.Type || got.Reason != "expired" {
			t.Errorf("got %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}
}

func TestBusNotifierPublishesLifecycle(t *testing.T) {
	bus := NewBus(BusConfig{})
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := bus.Subscribe(ctx, TopicSessions)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	notifier := NewBusNotifier(bus)
	notifier.SessionStarted(ctx, "exp-1", "alice")
	notifier.SessionEnded(ctx, "exp-1", "alice", "completed")

	wantTypes := []string{TypeSessionStarted, TypeSessionEnded}
	for _, wantType := range wantTypes {
		select {
		case msg := <-msgs:
			event, err := NewSerializer().Unmarshal(msg.Payload)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			msg.Ack()
			if event.Type != wantType {
				t.Errorf("type = %q, want %q", event.Type, wantType)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("missing %s", wantType)
		}
	}
}

func TestBusNotifierInteraction(t *testing.T) {
	bus := NewBus(BusConfig{})
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := bus.Subscribe(ctx, TopicInteractions)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	NewBusNotifier(bus).InteractionLogged(ctx, "exp-1", "alice", "watch", "vid-9", 12_500)

	select {
	case msg := <-msgs:
		event, err := NewSerializer().Unmarshal(msg.Payload)
		if err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		msg.Ack()
		if event.InteractionType != "watch" || event.VideoID != "vid-9" || event.WatchTimeMs != 12_500 {
			t.Errorf("got %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no interaction delivered")
	}
}
