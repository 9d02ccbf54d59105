// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

// Package jobs runs the periodic offline pipeline under a supervisor.
//
// Each pipeline run executes three steps in order: retrain the cluster
// model from the current user population, rebuild the per-cluster
// popularity tables from the action log, and hot-swap the serving
// snapshot. A failed run leaves the previous generation serving; the
// supervisor restarts the service with backoff.
package jobs
