// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package popularity

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/moimlab/roomrec/internal/recommend"
	"github.com/moimlab/roomrec/internal/recommend/storage"
)

type dummyArtifact struct {
	V int
}

// seedGeneration publishes a generation with a fixed user-cluster map so the
// aggregator has something to join the log against.
func seedGeneration(t *testing.T, store *storage.Store, clusters map[string]recommend.ClusterID) {
	t.Helper()
	_, err := store.WriteGeneration(context.Background(), storage.BundleArtifacts{
		Vocabulary:   []string{"game"},
		UserClusters: clusters,
		Scaler:       &dummyArtifact{V: 1},
		Reducer:      &dummyArtifact{V: 2},
		Model:        &dummyArtifact{V: 3},
		K:            2,
		UserCount:    len(clusters),
		ReducerDim:   1,
	})
	if err != nil {
		t.Fatalf("WriteGeneration() error = %v", err)
	}
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestAggregator_Refresh(t *testing.T) {
	store := newTestStore(t)
	seedGeneration(t, store, map[string]recommend.ClusterID{
		"a": 0, "b": 0, "c": 1,
	})

	entries := []recommend.ActionLogEntry{
		{UserID: "a", RoomID: 42, Kind: recommend.ActionJoin},
		{UserID: "b", RoomID: 42, Kind: recommend.ActionJoin},
		{UserID: "a", RoomID: 42, Kind: recommend.ActionClick}, // 42 -> 2.1
		{UserID: "b", RoomID: 7, Kind: recommend.ActionJoin},   // 7 -> 1.0
		{UserID: "c", RoomID: 99, Kind: recommend.ActionJoin},  // cluster 1
	}

	agg := NewAggregator(store, zerolog.Nop())
	if err := agg.Refresh(context.Background(), entries); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	snap, err := store.LoadSnapshot(nil, nil, nil)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}

	want := map[recommend.ClusterID][]int64{
		0: {42, 7},
		1: {99},
	}
	if !reflect.DeepEqual(snap.Popularity, want) {
		t.Errorf("Popularity = %v, want %v", snap.Popularity, want)
	}
}

func TestAggregator_TiesBreakByEncounterOrder(t *testing.T) {
	store := newTestStore(t)
	seedGeneration(t, store, map[string]recommend.ClusterID{"a": 0})

	// Rooms 5 and 3 both end at weight 1.0; 5 was seen first.
	entries := []recommend.ActionLogEntry{
		{UserID: "a", RoomID: 5, Kind: recommend.ActionJoin},
		{UserID: "a", RoomID: 3, Kind: recommend.ActionJoin},
	}

	agg := NewAggregator(store, zerolog.Nop())
	if err := agg.Refresh(context.Background(), entries); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	snap, err := store.LoadSnapshot(nil, nil, nil)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if !reflect.DeepEqual(snap.Popularity[0], []int64{5, 3}) {
		t.Errorf("Popularity[0] = %v, want [5 3]", snap.Popularity[0])
	}
}

func TestAggregator_DropsUnattributableEntries(t *testing.T) {
	store := newTestStore(t)
	seedGeneration(t, store, map[string]recommend.ClusterID{"a": 0})

	entries := []recommend.ActionLogEntry{
		{UserID: "", RoomID: 1, Kind: recommend.ActionJoin},          // anonymous
		{UserID: "ghost", RoomID: 2, Kind: recommend.ActionJoin},     // not in map
		{UserID: "a", RoomID: 3, Kind: recommend.ActionKind("view")}, // no weight
		{UserID: "a", RoomID: 4, Kind: recommend.ActionJoin},
	}

	agg := NewAggregator(store, zerolog.Nop())
	if err := agg.Refresh(context.Background(), entries); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	snap, err := store.LoadSnapshot(nil, nil, nil)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}

	// Only the attributable join survives; nothing leaks into other clusters.
	want := map[recommend.ClusterID][]int64{0: {4}}
	if !reflect.DeepEqual(snap.Popularity, want) {
		t.Errorf("Popularity = %v, want %v", snap.Popularity, want)
	}
}

func TestAggregator_MalformedEntryAborts(t *testing.T) {
	store := newTestStore(t)
	seedGeneration(t, store, map[string]recommend.ClusterID{"a": 0})
	before, err := store.CurrentGeneration()
	if err != nil {
		t.Fatalf("CurrentGeneration() error = %v", err)
	}

	entries := []recommend.ActionLogEntry{
		{UserID: "a", RoomID: 42, Kind: recommend.ActionJoin},
		{UserID: "a", RoomID: 0, Kind: recommend.ActionJoin}, // missing room id
	}

	agg := NewAggregator(store, zerolog.Nop())
	err = agg.Refresh(context.Background(), entries)
	var verr *recommend.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Refresh() error = %v, want ValidationError", err)
	}

	// The aborted batch must not have published anything.
	after, err := store.CurrentGeneration()
	if err != nil {
		t.Fatalf("CurrentGeneration() error = %v", err)
	}
	if after != before {
		t.Errorf("generation advanced from %q to %q on a failed batch", before, after)
	}
}

func TestAggregator_RefreshWithoutClusterMap(t *testing.T) {
	store := newTestStore(t)

	agg := NewAggregator(store, zerolog.Nop())
	err := agg.Refresh(context.Background(), []recommend.ActionLogEntry{
		{UserID: "a", RoomID: 1, Kind: recommend.ActionJoin},
	})

	var verr *recommend.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Refresh() error = %v, want ValidationError before any retrain", err)
	}
}
