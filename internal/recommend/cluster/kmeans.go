// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package cluster

import (
	"math"
	"math/rand"
)

// KMeans is a fitted partition model over standardized feature vectors.
// Fields are exported for gob persistence; the model is immutable once fit.
type KMeans struct {
	// Centroids holds one row per cluster.
	Centroids [][]float64

	// K is the effective cluster count.
	K int
}

// FitResult reports the outcome of one k-means fit.
type FitResult struct {
	// Labels assigns each input row to a cluster.
	Labels []int

	// Inertia is the sum of squared distances to assigned centroids, the
	// fit-quality signal surfaced in the retrain summary.
	Inertia float64

	// Sizes is the per-cluster population histogram.
	Sizes []int
}

// FitKMeans runs Lloyd's algorithm with a seeded source so repeated fits on
// identical input are identical. K is clamped to the row count; the caller
// guarantees at least one row.
func FitKMeans(x [][]float64, k int, seed int64, maxIter int) (*KMeans, *FitResult) {
	n := len(x)
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}
	if maxIter < 1 {
		maxIter = 100
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic fits need a seeded source

	centroids := initialCentroids(x, k, rng)
	labels := make([]int, n)

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, row := range x {
			best := nearestCentroid(row, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}

		recomputeCentroids(x, labels, centroids, rng)

		if !changed && iter > 0 {
			break
		}
	}

	model := &KMeans{Centroids: centroids, K: k}

	sizes := make([]int, k)
	var inertia float64
	for i, row := range x {
		sizes[labels[i]]++
		inertia += squaredDistance(row, centroids[labels[i]])
	}

	return model, &FitResult{Labels: labels, Inertia: inertia, Sizes: sizes}
}

// Predict assigns a feature vector to its nearest centroid.
func (m *KMeans) Predict(row []float64) int {
	return nearestCentroid(row, m.Centroids)
}

// initialCentroids seeds k centroids from k distinct input rows.
func initialCentroids(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	perm := rng.Perm(len(x))
	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		centroids[c] = append([]float64(nil), x[perm[c]]...)
	}
	return centroids
}

// recomputeCentroids replaces each centroid with the mean of its members.
// An emptied cluster is reseeded to a random input row so K stays constant.
func recomputeCentroids(x [][]float64, labels []int, centroids [][]float64, rng *rand.Rand) {
	d := len(centroids[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, d)
	}

	for i, row := range x {
		c := labels[i]
		counts[c]++
		for j, v := range row {
			sums[c][j] += v
		}
	}

	for c := range centroids {
		if counts[c] == 0 {
			copy(centroids[c], x[rng.Intn(len(x))])
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

func nearestCentroid(row []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(row, centroid); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
