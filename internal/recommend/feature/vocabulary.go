// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package feature

import (
	"sort"
	"strings"

	"github.com/moimlab/roomrec/internal/recommend"
)

// Vocabulary is a deterministic category<->index bijection. The index order
// is the lexicographic order of the categories, not insertion order, so
// identical training input always yields an identical vocabulary.
type Vocabulary struct {
	categories []string
	index      map[string]int
}

// BuildVocabulary derives the vocabulary from a training population: the
// sorted set of all preferred categories seen, blanks dropped.
func BuildVocabulary(users []recommend.UserProfile) Vocabulary {
	seen := make(map[string]struct{})
	for _, u := range users {
		for _, cat := range u.PreferredCategories {
			cat = strings.TrimSpace(cat)
			if cat != "" {
				seen[cat] = struct{}{}
			}
		}
	}

	categories := make([]string, 0, len(seen))
	for cat := range seen {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	return NewVocabulary(categories)
}

// NewVocabulary builds a vocabulary from an already-ordered category list,
// as restored from a persisted artifact. The order is taken as-is.
func NewVocabulary(categories []string) Vocabulary {
	index := make(map[string]int, len(categories))
	for i, cat := range categories {
		index[cat] = i
	}
	return Vocabulary{categories: categories, index: index}
}

// Size returns the number of categories.
func (v Vocabulary) Size() int {
	return len(v.categories)
}

// Categories returns the ordered category list for persistence.
func (v Vocabulary) Categories() []string {
	out := make([]string, len(v.categories))
	copy(out, v.categories)
	return out
}

// EncodeRow multi-hot encodes one preference list against the vocabulary.
// Categories absent from the vocabulary are silently dropped.
func (v Vocabulary) EncodeRow(preferred []string) []float64 {
	row := make([]float64, len(v.categories))
	for _, cat := range preferred {
		if idx, ok := v.index[strings.TrimSpace(cat)]; ok {
			row[idx] = 1.0
		}
	}
	return row
}
