// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package recommend

// ResultKind discriminates the outcome of a tier's Rank call.
type ResultKind int

const (
	// KindDeferred means the tier cannot answer; ask the next tier.
	KindDeferred ResultKind = iota
	// KindEmpty is a real answer: nothing to recommend for this request.
	KindEmpty
	// KindRanked carries an ordered room-id list.
	KindRanked
)

// String returns a human-readable name for the result kind.
func (k ResultKind) String() string {
	switch k {
	case KindDeferred:
		return "deferred"
	case KindEmpty:
		return "empty"
	case KindRanked:
		return "ranked"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of a tier's Rank call. The explicit tag keeps
// "no recommendation for this cluster" (Empty) distinct from "ask the other
// tier" (Deferred); callers must not confuse the two.
type Result struct {
	kind    ResultKind
	roomIDs []int64

	// Generation records the artifact generation a tier-0 answer came from.
	Generation string
}

// Ranked builds a Result carrying an ordered room-id list.
func Ranked(roomIDs []int64) Result {
	return Result{kind: KindRanked, roomIDs: roomIDs}
}

// Empty builds the "nothing to recommend" answer.
func Empty() Result {
	return Result{kind: KindEmpty, roomIDs: []int64{}}
}

// Deferred builds the "ask the next tier" signal.
func Deferred() Result {
	return Result{kind: KindDeferred}
}

// Kind returns the result tag.
func (r Result) Kind() ResultKind {
	return r.kind
}

// IsDeferred reports whether the tier declined to answer.
func (r Result) IsDeferred() bool {
	return r.kind == KindDeferred
}

// RoomIDs returns the ordered room ids. It is nil for Deferred and empty
// (non-nil) for Empty results.
func (r Result) RoomIDs() []int64 {
	return r.roomIDs
}
