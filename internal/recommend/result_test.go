// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package recommend

import "testing"

func TestResultKinds(t *testing.T) {
	tests := []struct {
		name         string
		result       Result
		wantKind     ResultKind
		wantDeferred bool
		wantNilIDs   bool
	}{
		{
			name:     "ranked carries ids",
			result:   Ranked([]int64{3, 1}),
			wantKind: KindRanked,
		},
		{
			name:     "empty is an answer with zero ids",
			result:   Empty(),
			wantKind: KindEmpty,
		},
		{
			name:         "deferred carries no ids at all",
			result:       Deferred(),
			wantKind:     KindDeferred,
			wantDeferred: true,
			wantNilIDs:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", tt.result.Kind(), tt.wantKind)
			}
			if tt.result.IsDeferred() != tt.wantDeferred {
				t.Errorf("IsDeferred() = %v, want %v", tt.result.IsDeferred(), tt.wantDeferred)
			}
			if (tt.result.RoomIDs() == nil) != tt.wantNilIDs {
				t.Errorf("RoomIDs() nil = %v, want %v", tt.result.RoomIDs() == nil, tt.wantNilIDs)
			}
		})
	}
}

func TestResultKind_String(t *testing.T) {
	if got := KindDeferred.String(); got != "deferred" {
		t.Errorf("KindDeferred.String() = %q", got)
	}
	if got := KindEmpty.String(); got != "empty" {
		t.Errorf("KindEmpty.String() = %q", got)
	}
	if got := KindRanked.String(); got != "ranked" {
		t.Errorf("KindRanked.String() = %q", got)
	}
}

func TestActionKind_Weight(t *testing.T) {
	if w := ActionJoin.Weight(); w != 1.0 {
		t.Errorf("join weight = %v, want 1.0", w)
	}
	if w := ActionClick.Weight(); w != 0.1 {
		t.Errorf("click weight = %v, want 0.1", w)
	}
	if w := ActionKind("view").Weight(); w != 0 {
		t.Errorf("unknown kind weight = %v, want 0", w)
	}
}
