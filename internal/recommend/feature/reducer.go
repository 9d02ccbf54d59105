// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package feature

import (
	"math"
	"math/rand"
)

// Reducer projects the multi-hot category block onto its leading principal
// directions (truncated-SVD style). The projection is fit once at training
// time and replayed verbatim at serving time; all fields are exported for
// gob persistence.
type Reducer struct {
	// Components holds one row per retained component, each of length
	// InputDim. An all-zero component projects everything to zero.
	Components [][]float64

	// InputDim is the multi-hot width the reducer was fit on. Zero means
	// the training population had no category signal; Transform then emits
	// a constant 1-dimensional zero vector.
	InputDim int

	// NumComponents is the effective output dimensionality, always >= 1.
	NumComponents int
}

const (
	powerIterations = 100
	convergenceTol  = 1e-9
)

// FitReducer fits the projection on the multi-hot matrix and returns the
// reducer together with the dense features for the training rows.
//
// The effective component count is min(requested, category count, user
// count), floored at 1. A zero-column input never fails: the reducer
// degrades to a constant 1-dimensional all-zero feature.
func FitReducer(multiHot [][]float64, requested int, seed int64) (*Reducer, [][]float64) {
	n := len(multiHot)
	d := 0
	if n > 0 {
		d = len(multiHot[0])
	}

	if d == 0 {
		r := &Reducer{InputDim: 0, NumComponents: 1}
		return r, r.TransformAll(multiHot)
	}

	ncomp := requested
	if d < ncomp {
		ncomp = d
	}
	if n < ncomp {
		ncomp = n
	}
	if ncomp < 1 {
		ncomp = 1
	}

	components := leadingEigenvectors(gram(multiHot, d), ncomp, seed)

	r := &Reducer{
		Components:    components,
		InputDim:      d,
		NumComponents: ncomp,
	}
	return r, r.TransformAll(multiHot)
}

// Transform projects a single multi-hot row into the dense space.
func (r *Reducer) Transform(row []float64) []float64 {
	out := make([]float64, r.NumComponents)
	if r.InputDim == 0 {
		return out
	}
	for c, comp := range r.Components {
		var dot float64
		for j := 0; j < r.InputDim && j < len(row); j++ {
			dot += comp[j] * row[j]
		}
		out[c] = dot
	}
	return out
}

// TransformAll projects every row of a multi-hot matrix.
func (r *Reducer) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = r.Transform(row)
	}
	return out
}

// gram computes the d x d matrix X^T X.
func gram(x [][]float64, d int) [][]float64 {
	c := make([][]float64, d)
	for i := range c {
		c[i] = make([]float64, d)
	}
	for _, row := range x {
		for i := 0; i < d; i++ {
			if row[i] == 0 {
				continue
			}
			for j := 0; j < d; j++ {
				c[i][j] += row[i] * row[j]
			}
		}
	}
	return c
}

// leadingEigenvectors extracts the top k eigenvectors of a symmetric matrix
// by power iteration with deflation. The seeded source makes repeated fits
// on identical input identical.
func leadingEigenvectors(c [][]float64, k int, seed int64) [][]float64 {
	d := len(c)
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic fits need a seeded source

	vecs := make([][]float64, k)
	for comp := 0; comp < k; comp++ {
		v := randomUnit(rng, d)
		lambda := 0.0

		for iter := 0; iter < powerIterations; iter++ {
			w := matVec(c, v)
			norm := vecNorm(w)
			if norm < convergenceTol {
				// Residual matrix is (numerically) zero: no signal left.
				v = make([]float64, d)
				lambda = 0
				break
			}
			for i := range w {
				w[i] /= norm
			}
			next := rayleigh(c, w)
			v = w
			if math.Abs(next-lambda) < convergenceTol {
				lambda = next
				break
			}
			lambda = next
		}

		vecs[comp] = v
		deflate(c, v, lambda)
	}
	return vecs
}

// randomUnit draws a random unit vector from the seeded source.
func randomUnit(rng *rand.Rand, d int) []float64 {
	v := make([]float64, d)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	norm := vecNorm(v)
	if norm == 0 {
		v[0] = 1
		return v
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}

// matVec computes c*v for square c.
func matVec(c [][]float64, v []float64) []float64 {
	out := make([]float64, len(c))
	for i, row := range c {
		var sum float64
		for j, cv := range row {
			sum += cv * v[j]
		}
		out[i] = sum
	}
	return out
}

// rayleigh computes v^T c v for unit v.
func rayleigh(c [][]float64, v []float64) float64 {
	var sum float64
	for i, row := range c {
		for j, cv := range row {
			sum += v[i] * cv * v[j]
		}
	}
	return sum
}

// deflate removes the contribution of eigenpair (lambda, v) from c in place.
func deflate(c [][]float64, v []float64, lambda float64) {
	for i := range c {
		for j := range c[i] {
			c[i][j] -= lambda * v[i] * v[j]
		}
	}
}

func vecNorm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
