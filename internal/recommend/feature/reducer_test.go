// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package feature

import (
	"math"
	"testing"
)

func TestFitReducer_EffectiveDimensionality(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		cols      int
		requested int
		want      int
	}{
		{name: "capped by column count", rows: 10, cols: 3, requested: 8, want: 3},
		{name: "capped by row count", rows: 2, cols: 5, requested: 8, want: 2},
		{name: "requested smaller than both", rows: 10, cols: 5, requested: 2, want: 2},
		{name: "floors at one", rows: 4, cols: 3, requested: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			multiHot := make([][]float64, tt.rows)
			for i := range multiHot {
				multiHot[i] = make([]float64, tt.cols)
				multiHot[i][i%tt.cols] = 1
			}

			r, dense := FitReducer(multiHot, tt.requested, 42)
			if r.NumComponents != tt.want {
				t.Errorf("NumComponents = %d, want %d", r.NumComponents, tt.want)
			}
			if len(dense) != tt.rows {
				t.Fatalf("len(dense) = %d, want %d", len(dense), tt.rows)
			}
			for i, row := range dense {
				if len(row) != tt.want {
					t.Errorf("dense row %d has %d columns, want %d", i, len(row), tt.want)
				}
			}
		})
	}
}

func TestFitReducer_ZeroColumnInput(t *testing.T) {
	// No categories at all: the reducer degrades to a constant
	// 1-dimensional zero feature instead of failing.
	multiHot := [][]float64{{}, {}, {}}

	r, dense := FitReducer(multiHot, 8, 42)
	if r.NumComponents != 1 {
		t.Errorf("NumComponents = %d, want 1", r.NumComponents)
	}
	if r.InputDim != 0 {
		t.Errorf("InputDim = %d, want 0", r.InputDim)
	}
	for i, row := range dense {
		if len(row) != 1 || row[0] != 0 {
			t.Errorf("dense row %d = %v, want [0]", i, row)
		}
	}

	// Serving-time rows degrade the same way.
	if got := r.Transform([]float64{}); len(got) != 1 || got[0] != 0 {
		t.Errorf("Transform() = %v, want [0]", got)
	}
}

func TestFitReducer_Deterministic(t *testing.T) {
	multiHot := [][]float64{
		{1, 1, 0, 0},
		{1, 0, 0, 1},
		{0, 1, 1, 0},
		{0, 0, 1, 1},
		{1, 1, 1, 0},
	}

	r1, d1 := FitReducer(multiHot, 2, 42)
	r2, d2 := FitReducer(multiHot, 2, 42)

	if r1.NumComponents != r2.NumComponents {
		t.Fatalf("NumComponents differ: %d vs %d", r1.NumComponents, r2.NumComponents)
	}
	for i := range d1 {
		for j := range d1[i] {
			if d1[i][j] != d2[i][j] {
				t.Errorf("dense[%d][%d] differs across identical fits: %v vs %v", i, j, d1[i][j], d2[i][j])
			}
		}
	}
}

func TestFitReducer_TransformMatchesFitOutput(t *testing.T) {
	multiHot := [][]float64{
		{1, 0, 1},
		{0, 1, 0},
		{1, 1, 0},
		{0, 0, 1},
	}

	r, dense := FitReducer(multiHot, 2, 42)
	for i, row := range multiHot {
		got := r.Transform(row)
		for j := range got {
			if math.Abs(got[j]-dense[i][j]) > 1e-12 {
				t.Errorf("Transform(row %d)[%d] = %v, want %v", i, j, got[j], dense[i][j])
			}
		}
	}
}

func TestFitReducer_ComponentsAreUnit(t *testing.T) {
	multiHot := [][]float64{
		{1, 0, 0},
		{1, 1, 0},
		{0, 1, 1},
		{0, 0, 1},
	}

	r, _ := FitReducer(multiHot, 3, 42)
	for i, comp := range r.Components {
		var norm float64
		for _, v := range comp {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		// Exhausted components may collapse to zero; live ones are unit.
		if norm > 1e-9 && math.Abs(norm-1) > 1e-6 {
			t.Errorf("component %d norm = %v, want 1", i, norm)
		}
	}
}
