// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/moimlab/roomrec/internal/metrics"
	"github.com/moimlab/roomrec/internal/recommend"
)

// Trainer rebuilds the cluster model from a user population.
type Trainer interface {
	Train(ctx context.Context, users []recommend.UserProfile) (*recommend.TrainSummary, error)
}

// PopularityRefresher rebuilds the per-cluster popularity tables.
type PopularityRefresher interface {
	Refresh(ctx context.Context, entries []recommend.ActionLogEntry) error
}

// SnapshotRefresher reloads the serving snapshot from disk.
type SnapshotRefresher interface {
	Refresh() error
}

// Pipeline runs one full offline cycle: train, aggregate, swap.
type Pipeline struct {
	users   UserSource
	actions ActionLogSource
	trainer Trainer
	popular PopularityRefresher
	serving SnapshotRefresher
	logger  zerolog.Logger
}

// NewPipeline wires the pipeline steps together.
func NewPipeline(users UserSource, actions ActionLogSource, trainer Trainer, popular PopularityRefresher, serving SnapshotRefresher, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		users:   users,
		actions: actions,
		trainer: trainer,
		popular: popular,
		serving: serving,
		logger:  logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes one pipeline cycle. Steps run in order and the first
// failure aborts the run; the previously published generation keeps
// serving.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()

	users, err := p.users.Users(ctx)
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("loading users: %w", err)
	}

	summary, err := p.trainer.Train(ctx, users)
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("training: %w", err)
	}
	p.logger.Info().
		Str("generation", summary.Generation).
		Int("users", summary.UserCount).
		Int("clusters", summary.ClusterCount).
		Float64("inertia", summary.Inertia).
		Msg("Training completed")

	entries, err := p.actions.Entries(ctx)
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("loading action log: %w", err)
	}
	if len(entries) > 0 {
		if err := p.popular.Refresh(ctx, entries); err != nil {
			metrics.PipelineRuns.WithLabelValues("error").Inc()
			return fmt.Errorf("refreshing popularity: %w", err)
		}
	} else {
		p.logger.Info().Msg("No action log entries, skipping popularity refresh")
	}

	if err := p.serving.Refresh(); err != nil {
		metrics.PipelineRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("refreshing serving snapshot: %w", err)
	}

	metrics.PipelineRuns.WithLabelValues("ok").Inc()
	p.logger.Info().
		Dur("elapsed", time.Since(start)).
		Msg("Pipeline run completed")
	return nil
}
