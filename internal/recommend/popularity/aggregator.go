// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

// Package popularity implements the batch that turns an interaction log into
// per-cluster ranked room tables, weighted by action kind.
package popularity

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/moimlab/roomrec/internal/metrics"
	"github.com/moimlab/roomrec/internal/recommend"
	"github.com/moimlab/roomrec/internal/recommend/storage"
)

// Aggregator consumes an ordered interaction log and publishes a
// cluster -> ranked-room-ids table derived from the current user-cluster
// map. Each run fully replaces the table; the caller supplies the log
// window (there is no cross-run decay).
type Aggregator struct {
	store  *storage.Store
	logger zerolog.Logger
}

// NewAggregator creates a popularity batch runner.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAggregator(store *storage.Store, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		logger: logger.With().Str("component", "popularity").Logger(),
	}
}

// roomScore accumulates the weight for one (cluster, room) pair. seen is the
// encounter index used to break weight ties in favor of earlier rooms.
type roomScore struct {
	roomID int64
	weight float64
	seen   int
}

// Refresh aggregates the log and publishes a new popularity generation.
//
// Entries are weighted join=1.0, click=0.1; other kinds are ignored.
// Anonymous users and users absent from the cluster map are dropped and
// counted, never attributed anywhere. A missing cluster map (no retrain has
// run) aborts the batch with a ValidationError before anything is written.
func (a *Aggregator) Refresh(ctx context.Context, entries []recommend.ActionLogEntry) error {
	start := time.Now()

	snap, err := a.store.LoadSnapshot(nil, nil, nil)
	if err != nil {
		metrics.PopularityRuns.WithLabelValues("error").Inc()
		if errors.Is(err, storage.ErrNoGeneration) {
			return recommend.NewValidationError("no user-cluster map: run a retrain before refreshing popularity")
		}
		return err
	}

	scores := make(map[recommend.ClusterID]map[int64]*roomScore)
	var dropped struct {
		anonymous  int
		unmapped   int
		unweighted int
	}

	for i, entry := range entries {
		if entry.RoomID == 0 {
			metrics.PopularityRuns.WithLabelValues("error").Inc()
			return recommend.NewValidationError("malformed log entry at index %d: missing room id", i)
		}

		if entry.UserID == "" {
			dropped.anonymous++
			continue
		}

		cid, ok := snap.UserClusters[entry.UserID]
		if !ok {
			dropped.unmapped++
			continue
		}

		weight := entry.Kind.Weight()
		if weight == 0 {
			dropped.unweighted++
			continue
		}

		rooms := scores[cid]
		if rooms == nil {
			rooms = make(map[int64]*roomScore)
			scores[cid] = rooms
		}
		if rs := rooms[entry.RoomID]; rs != nil {
			rs.weight += weight
		} else {
			rooms[entry.RoomID] = &roomScore{roomID: entry.RoomID, weight: weight, seen: i}
		}
	}

	table := rankScores(scores)

	gen, err := a.store.WritePopularity(ctx, table)
	if err != nil {
		metrics.PopularityRuns.WithLabelValues("error").Inc()
		return err
	}

	metrics.DroppedLogEntries.WithLabelValues("anonymous").Add(float64(dropped.anonymous))
	metrics.DroppedLogEntries.WithLabelValues("unmapped").Add(float64(dropped.unmapped))
	metrics.DroppedLogEntries.WithLabelValues("unweighted").Add(float64(dropped.unweighted))
	metrics.PopularityRuns.WithLabelValues("ok").Inc()

	// Data-quality warning, not an error: unmapped signal is lost until the
	// next retrain includes those users.
	if dropped.unmapped > 0 {
		a.logger.Warn().
			Int("unmapped", dropped.unmapped).
			Msg("dropped log entries for users without a cluster mapping")
	}

	a.logger.Info().
		Str("generation", gen).
		Int("entries", len(entries)).
		Int("clusters", len(table)).
		Int("dropped_anonymous", dropped.anonymous).
		Int("dropped_unmapped", dropped.unmapped).
		Dur("duration", time.Since(start)).
		Msg("popularity refresh complete")

	return nil
}

// rankScores orders each cluster's rooms by cumulative weight descending,
// with ties broken by encounter order.
func rankScores(scores map[recommend.ClusterID]map[int64]*roomScore) map[recommend.ClusterID][]int64 {
	table := make(map[recommend.ClusterID][]int64, len(scores))
	for cid, rooms := range scores {
		ranked := make([]*roomScore, 0, len(rooms))
		for _, rs := range rooms {
			ranked = append(ranked, rs)
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].weight != ranked[j].weight {
				return ranked[i].weight > ranked[j].weight
			}
			return ranked[i].seen < ranked[j].seen
		})

		ids := make([]int64, len(ranked))
		for i, rs := range ranked {
			ids[i] = rs.roomID
		}
		table[cid] = ids
	}
	return table
}
