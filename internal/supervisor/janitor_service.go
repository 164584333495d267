// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package supervisor

import (
	"context"
	"time"

	"github.com/feedstage/feedstage/internal/catalog"
	"github.com/feedstage/feedstage/internal/logging"
	"github.com/feedstage/feedstage/internal/models"
	"github.com/feedstage/feedstage/internal/session"
)

// Sweeper matches session.Manager's sweep entry point.
type Sweeper interface {
	SweepExpired(ctx context.Context, grace time.Duration, limitFor func(experimentID string) (int, bool)) (int, error)
}

// JanitorService periodically removes persisted timer state left behind by
// sessions that expired while no runner was alive (typically across a
// restart). Limits are resolved through the catalog so a session only
// counts as stale once its own experiment's time limit plus grace has
// passed.
type JanitorService struct {
	sessions Sweeper
	store    catalog.Store
	interval time.Duration
	grace    time.Duration
}

// NewJanitorService builds the janitor. interval is how often to sweep,
// grace the slack added to each session's limit before its state is
// considered abandoned.
func NewJanitorService(sessions Sweeper, store catalog.Store, interval, grace time.Duration) *JanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	if grace < 0 {
		grace = 0
	}
	return &JanitorService{
		sessions: sessions,
		store:    store,
		interval: interval,
		grace:    grace,
	}
}

// Serve implements suture.Service. One sweep runs immediately on start so a
// restart cleans up promptly, then sweeps repeat on the interval until the
// context is canceled.
func (j *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *JanitorService) sweep(ctx context.Context) {
	start := time.Now()
	swept, err := j.sessions.SweepExpired(ctx, j.grace, j.limitFor(ctx))
	if err != nil {
		logging.Warn().Err(err).Msg("Session sweep failed")
		return
	}
	if swept > 0 {
		logging.Info().
			Int("swept", swept).
			Dur("duration", time.Since(start)).
			Msg("Swept expired session state")
	}
}

// limitFor resolves an experiment's effective time limit: the owning
// project's setting, falling back to the default. Unknown experiments
// report false so the sweep treats their state as orphaned.
func (j *JanitorService) limitFor(ctx context.Context) func(experimentID string) (int, bool) {
	cache := make(map[string]int)
	return func(experimentID string) (int, bool) {
		if limit, ok := cache[experimentID]; ok {
			return limit, true
		}
		exp, err := j.store.GetExperiment(ctx, experimentID)
		if err != nil {
			return 0, false
		}
		limit := models.DefaultTimeLimitSeconds
		if project, err := j.store.GetProject(ctx, exp.ProjectID); err == nil && project.Settings.TimeLimitSeconds > 0 {
			limit = project.Settings.TimeLimitSeconds
		}
		cache[experimentID] = limit
		return limit, true
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (j *JanitorService) String() string {
	return "session-janitor"
}

var _ Sweeper = (*session.Manager)(nil)
