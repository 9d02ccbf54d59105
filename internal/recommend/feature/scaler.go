// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package feature

import "math"

// Scaler is a per-column z-score standardizer. It is fit once over the whole
// concatenated design matrix so the numeric and dense-category blocks share
// one scale. Fields are exported for gob persistence.
type Scaler struct {
	// Mean holds the per-column means.
	Mean []float64

	// Scale holds the per-column standard deviations. Zero-variance columns
	// store 1.0 so they pass through centered but undivided.
	Scale []float64
}

// FitScaler computes column statistics and returns the scaler with the
// standardized matrix.
func FitScaler(x [][]float64) (*Scaler, [][]float64) {
	n := len(x)
	d := 0
	if n > 0 {
		d = len(x[0])
	}

	mean := make([]float64, d)
	for _, row := range x {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	scale := make([]float64, d)
	for _, row := range x {
		for j, v := range row {
			diff := v - mean[j]
			scale[j] += diff * diff
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / float64(n))
		if scale[j] == 0 {
			scale[j] = 1.0
		}
	}

	s := &Scaler{Mean: mean, Scale: scale}
	return s, s.TransformAll(x)
}

// Transform standardizes a single row.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		if j < len(s.Mean) {
			out[j] = (v - s.Mean[j]) / s.Scale[j]
		}
	}
	return out
}

// TransformAll standardizes every row of a matrix.
func (s *Scaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
