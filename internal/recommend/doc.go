// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

// Package recommend defines the core types and the two-tier serving path of
// the room recommendation engine.
//
// # Architecture
//
// Recommendations are produced by two tiers:
//
//   - Tier 0 (cluster): looks up a precomputed per-cluster popularity ranking
//     using a trained user-segmentation model. Implemented in the cluster
//     subpackage; it signals Deferred when it cannot answer.
//   - Tier 1 (category): a stateless scorer over a caller-supplied candidate
//     set, combining category match with age proximity, or popularity with
//     recency for cold-start requests. Requires no trained artifacts.
//
// The Orchestrator tries tier 0 first and falls back to tier 1 on Deferred.
// Results from the two tiers are never merged, and a ranking request never
// fails because the model is unavailable.
//
// # Subpackages
//
//   - feature: category vocabulary, multi-hot encoding, embedding reduction,
//     z-score scaling
//   - cluster: k-means model, the retrain batch, and the tier-0 recommender
//   - popularity: the per-cluster popularity aggregation batch
//   - storage: generation-based artifact persistence with atomic snapshot swap
//
// # Thread Safety
//
// Serving is read-mostly: trained artifacts are loaded once into immutable
// snapshot values, so concurrent ranking requests need no locking. Batch
// retrains are serialized by the storage layer.
package recommend
