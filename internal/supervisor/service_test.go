// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/feedstage/feedstage/internal/catalog"
	"github.com/feedstage/feedstage/internal/models"
)

var (
	_ suture.Service = (*HTTPService)(nil)
	_ suture.Service = (*JanitorService)(nil)
	_ suture.Service = (*ConsumerService)(nil)
)

// --- HTTPService ---

type mockHTTPServer struct {
	listenErr   error
	listenGate  chan struct{}
	shutdownErr error
	shutdowns   atomic.Int32
}

func (m *mockHTTPServer) ListenAndServe() error {
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.listenGate
	return nil
}

func (m *mockHTTPServer) Shutdown(ctx context.Context) error {
	m.shutdowns.Add(1)
	close(m.listenGate)
	return m.shutdownErr
}

func TestHTTPServiceStartupFailure(t *testing.T) {
	t.Parallel()

	server := &mockHTTPServer{listenErr: errors.New("port in use")}
	svc := NewHTTPService(server, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, server.listenErr) {
		t.Fatalf("Serve() = %v, want wrapped listen error", err)
	}
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	t.Parallel()

	server := &mockHTTPServer{listenGate: make(chan struct{})}
	svc := NewHTTPService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if server.shutdowns.Load() != 1 {
		t.Errorf("Shutdown called %d times, want 1", server.shutdowns.Load())
	}
}

// --- JanitorService ---

type mockSweeper struct {
	sweeps  atomic.Int32
	sweepCh chan struct{}
}

func (m *mockSweeper) SweepExpired(_ context.Context, _ time.Duration, _ func(string) (int, bool)) (int, error) {
	m.sweeps.Add(1)
	select {
	case m.sweepCh <- struct{}{}:
	default:
	}
	return 0, nil
}

func TestJanitorSweepsOnStartAndInterval(t *testing.T) {
	t.Parallel()

	sweeper := &mockSweeper{sweepCh: make(chan struct{}, 8)}
	svc := NewJanitorService(sweeper, catalog.NewMemoryStore(), time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	// First sweep is immediate; at least one more follows on the ticker.
	for i := 0; i < 2; i++ {
		select {
		case <-sweeper.sweepCh:
		case <-time.After(2 * time.Second):
			t.Fatalf("sweep %d never ran", i)
		}
	}
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestJanitorLimitResolution(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := catalog.NewMemoryStore()
	now := time.Now()

	settings := models.DefaultProjectSettings()
	settings.TimeLimitSeconds = 120
	if err := store.PutProject(ctx, &models.Project{ID: "proj-1", Name: "P", CreatedAt: now, Settings: settings}); err != nil {
		t.Fatalf("PutProject: %v", err)
	}
	if err := store.PutExperiment(ctx, &models.Experiment{
		ID: "exp-1", ProjectID: "proj-1", PublicURL: "u1", IsActive: true, CreatedAt: now,
	}); err != nil {
		t.Fatalf("PutExperiment: %v", err)
	}
	// Experiment whose project is gone falls back to the default limit.
	if err := store.PutExperiment(ctx, &models.Experiment{
		ID: "exp-2", ProjectID: "missing", PublicURL: "u2", IsActive: true, CreatedAt: now,
	}); err != nil {
		t.Fatalf("PutExperiment: %v", err)
	}

	svc := NewJanitorService(&mockSweeper{sweepCh: make(chan struct{}, 1)}, store, time.Minute, 0)
	limitFor := svc.limitFor(ctx)

	if limit, ok := limitFor("exp-1"); !ok || limit != 120 {
		t.Errorf("limitFor(exp-1) = %d, %v; want 120, true", limit, ok)
	}
	if limit, ok := limitFor("exp-2"); !ok || limit != models.DefaultTimeLimitSeconds {
		t.Errorf("limitFor(exp-2) = %d, %v; want default, true", limit, ok)
	}
	if _, ok := limitFor("nope"); ok {
		t.Error("limitFor(nope) = true, want false for unknown experiment")
	}
}

// --- ConsumerService ---

type mockConsumer struct{ err error }

func (m *mockConsumer) Run(ctx context.Context) error {
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestConsumerServiceCrashPropagates(t *testing.T) {
	t.Parallel()

	crash := errors.New("subscriber closed")
	svc := NewConsumerService(&mockConsumer{err: crash}, "audit")

	if err := svc.Serve(context.Background()); !errors.Is(err, crash) {
		t.Errorf("Serve() = %v, want crash error", err)
	}
	if svc.String() != "audit" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestConsumerServiceCleanCancel(t *testing.T) {
	t.Parallel()

	svc := NewConsumerService(&mockConsumer{}, "")
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

// --- Tree ---

func TestTreeRunsServicesAcrossLayers(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	tree := NewTree(logger, DefaultTreeConfig())

	var started atomic.Int32
	mark := func() suture.Service {
		return serviceFunc(func(ctx context.Context) error {
			started.Add(1)
			<-ctx.Done()
			return ctx.Err()
		})
	}
	tree.AddDataService(mark())
	tree.AddEventsService(mark())
	tree.AddAPIService(mark())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for started.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d services started", started.Load())
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}
}

type serviceFunc func(ctx context.Context) error

func (f serviceFunc) Serve(ctx context.Context) error { return f(ctx) }
