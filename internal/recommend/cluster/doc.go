// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

// Package cluster implements the user-segmentation side of the engine: the
// k-means partition model, the retrain batch that fits it and persists the
// artifact bundle, and the tier-0 recommender that serves per-cluster
// popularity rankings from a loaded snapshot.
package cluster
