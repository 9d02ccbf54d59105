// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

// Package feature turns raw user profiles into the numeric design matrix
// consumed by the clustering model.
//
// The pipeline is fixed and shared between training and serving:
//
//  1. Vocabulary: a sorted category<->index bijection captured at training
//     time. The order is binding for all scoring until the next retrain.
//  2. Multi-hot encoding: one row per user, one column per vocabulary entry.
//  3. Reducer: a truncated-SVD-style projection compressing the multi-hot
//     block into a small dense vector.
//  4. Scaler: z-score standardization applied to the concatenated
//     [numeric | dense-category] matrix as a whole, never per block.
//
// All matrix math is plain float64 slices; inputs at the scale of a user
// population do not justify a linear-algebra dependency.
package feature
