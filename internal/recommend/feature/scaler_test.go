// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package feature

import (
	"math"
	"testing"
)

const scalerTol = 1e-9

func TestFitScaler(t *testing.T) {
	x := [][]float64{
		{1, 10},
		{3, 10},
	}

	scaler, transformed := FitScaler(x)

	// Column 0: mean 2, population std 1. Column 1: zero variance.
	if math.Abs(scaler.Mean[0]-2) > scalerTol {
		t.Errorf("Mean[0] = %v, want 2", scaler.Mean[0])
	}
	if math.Abs(scaler.Scale[0]-1) > scalerTol {
		t.Errorf("Scale[0] = %v, want 1", scaler.Scale[0])
	}
	if scaler.Scale[1] != 1.0 {
		t.Errorf("Scale[1] = %v, want 1.0 for zero-variance column", scaler.Scale[1])
	}

	want := [][]float64{
		{-1, 0},
		{1, 0},
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(transformed[i][j]-want[i][j]) > scalerTol {
				t.Errorf("transformed[%d][%d] = %v, want %v", i, j, transformed[i][j], want[i][j])
			}
		}
	}
}

func TestScaler_TransformMatchesFit(t *testing.T) {
	x := [][]float64{
		{27, 2021, 4, 1, 0},
		{31, 2019, 0, 0, 1},
		{22, 2023, 9, 1, 1},
	}

	scaler, transformed := FitScaler(x)

	// Transforming training rows individually must replay the fit output.
	for i, row := range x {
		got := scaler.Transform(row)
		for j := range got {
			if math.Abs(got[j]-transformed[i][j]) > scalerTol {
				t.Errorf("Transform(row %d)[%d] = %v, want %v", i, j, got[j], transformed[i][j])
			}
		}
	}
}

func TestScaler_TransformedColumnsAreStandardized(t *testing.T) {
	x := [][]float64{
		{1, 5},
		{2, 7},
		{3, 3},
		{4, 9},
	}

	_, transformed := FitScaler(x)

	for j := 0; j < 2; j++ {
		var mean float64
		for i := range transformed {
			mean += transformed[i][j]
		}
		mean /= float64(len(transformed))
		if math.Abs(mean) > scalerTol {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}

		var variance float64
		for i := range transformed {
			variance += transformed[i][j] * transformed[i][j]
		}
		variance /= float64(len(transformed))
		if math.Abs(variance-1) > scalerTol {
			t.Errorf("column %d variance = %v, want 1", j, variance)
		}
	}
}
