// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package feature

import "github.com/moimlab/roomrec/internal/recommend"

// numericColumns is the fixed numeric feature order: age, enrollment year,
// join count. The order is part of the artifact contract and must match
// between training and serving.
const numericColumns = 3

// NumericMatrix builds the numeric feature matrix, one row per user.
// Absent values arrive as zero from the profile, which is the explicit
// zero-fill policy: no imputation happens here.
func NumericMatrix(users []recommend.UserProfile) [][]float64 {
	mat := make([][]float64, len(users))
	for i, u := range users {
		mat[i] = NumericRow(u)
	}
	return mat
}

// NumericRow builds the numeric feature vector for a single user.
func NumericRow(u recommend.UserProfile) []float64 {
	row := make([]float64, numericColumns)
	row[0] = float64(u.Age)
	row[1] = float64(u.EnrollYear)
	row[2] = float64(u.JoinCount)
	return row
}

// MultiHotMatrix builds the multi-hot category matrix (users x vocabulary).
func MultiHotMatrix(users []recommend.UserProfile, vocab Vocabulary) [][]float64 {
	mat := make([][]float64, len(users))
	for i, u := range users {
		mat[i] = vocab.EncodeRow(u.PreferredCategories)
	}
	return mat
}

// Concat joins the numeric block and the dense category block row-wise into
// the final design matrix.
func Concat(numeric, dense [][]float64) [][]float64 {
	out := make([][]float64, len(numeric))
	for i := range numeric {
		row := make([]float64, 0, len(numeric[i])+len(dense[i]))
		row = append(row, numeric[i]...)
		row = append(row, dense[i]...)
		out[i] = row
	}
	return out
}

// ConcatRow joins one numeric row and one dense row.
func ConcatRow(numeric, dense []float64) []float64 {
	row := make([]float64, 0, len(numeric)+len(dense))
	row = append(row, numeric...)
	row = append(row, dense...)
	return row
}
