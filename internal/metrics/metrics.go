// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

// Package metrics provides Prometheus instrumentation for the engine:
// ranking throughput and fallback rate, batch training runs and durations,
// and data-quality counters for the popularity aggregation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RankRequests counts ranking requests by answering tier and outcome.
	RankRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrec_rank_requests_total",
			Help: "Total ranking requests by answering tier and outcome",
		},
		[]string{"tier", "outcome"},
	)

	// RankFallbacks counts requests where tier 0 deferred to tier 1.
	RankFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roomrec_rank_fallbacks_total",
			Help: "Total ranking requests deferred from tier 0 to tier 1",
		},
	)

	// TrainingRuns counts retrain batches by status.
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrec_training_runs_total",
			Help: "Total retrain batches by status (ok, error)",
		},
		[]string{"status"},
	)

	// TrainingDuration observes retrain batch duration in seconds.
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roomrec_training_duration_seconds",
			Help:    "Duration of retrain batches in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8), // 10ms .. ~160s
		},
	)

	// PopularityRuns counts popularity-refresh batches by status.
	PopularityRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrec_popularity_runs_total",
			Help: "Total popularity-refresh batches by status (ok, error)",
		},
		[]string{"status"},
	)

	// DroppedLogEntries counts interaction log entries dropped during
	// popularity aggregation, by reason (anonymous, unmapped, unweighted).
	DroppedLogEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrec_dropped_log_entries_total",
			Help: "Interaction log entries dropped during aggregation by reason",
		},
		[]string{"reason"},
	)

	// PipelineRuns counts full offline pipeline cycles by status.
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrec_pipeline_runs_total",
			Help: "Total offline pipeline cycles by status (ok, error)",
		},
		[]string{"status"},
	)

	// SnapshotLoads counts artifact snapshot load attempts by status.
	SnapshotLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrec_snapshot_loads_total",
			Help: "Artifact snapshot load attempts by status (ok, missing, error)",
		},
		[]string{"status"},
	)
)
