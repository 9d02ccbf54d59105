// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package cluster

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/moimlab/roomrec/internal/metrics"
	"github.com/moimlab/roomrec/internal/recommend"
	"github.com/moimlab/roomrec/internal/recommend/feature"
	"github.com/moimlab/roomrec/internal/recommend/storage"
)

// snapshot is one fully loaded generation prepared for serving. It is
// immutable; Refresh swaps the single reference atomically.
type snapshot struct {
	generation string
	vocab      feature.Vocabulary
	scaler     feature.Scaler
	reducer    feature.Reducer
	model      KMeans
	popularity map[recommend.ClusterID][]int64
}

// Recommender is the tier-0 scorer. It computes a live cluster assignment
// with the persisted pipeline and looks up the per-cluster popularity table.
// When it cannot serve (no artifacts, anonymous user, empty table) it
// returns a Deferred result rather than an error.
type Recommender struct {
	config *recommend.Config
	store  *storage.Store
	logger zerolog.Logger

	mu   sync.RWMutex
	snap *snapshot // nil while disabled
}

// NewRecommender creates the tier-0 recommender and attempts an initial
// snapshot load. Missing artifacts leave the engine disabled, not broken;
// a later Refresh can enable it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommender(cfg *recommend.Config, store *storage.Store, logger zerolog.Logger) *Recommender {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	r := &Recommender{
		config: cfg,
		store:  store,
		logger: logger.With().Str("component", "cluster-recommender").Logger(),
	}

	if err := r.Refresh(); err != nil {
		r.logger.Warn().Err(err).Msg("artifacts unavailable, tier 0 disabled until refresh")
	}
	return r
}

// Name returns the tier identifier.
func (r *Recommender) Name() string {
	return "cluster"
}

// Refresh loads the current artifact generation and swaps it in. On error
// the previous snapshot (if any) stays live.
func (r *Recommender) Refresh() error {
	var (
		scaler  feature.Scaler
		reducer feature.Reducer
		model   KMeans
	)

	stored, err := r.store.LoadSnapshot(&scaler, &reducer, &model)
	if err != nil {
		if errors.Is(err, storage.ErrNoGeneration) {
			metrics.SnapshotLoads.WithLabelValues("missing").Inc()
		} else {
			metrics.SnapshotLoads.WithLabelValues("error").Inc()
		}
		return err
	}

	snap := &snapshot{
		generation: stored.Manifest.Generation,
		vocab:      feature.NewVocabulary(stored.Vocabulary),
		scaler:     scaler,
		reducer:    reducer,
		model:      model,
		popularity: stored.Popularity,
	}

	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()

	metrics.SnapshotLoads.WithLabelValues("ok").Inc()
	r.logger.Info().
		Str("generation", snap.generation).
		Int("k", snap.model.K).
		Int("vocab", snap.vocab.Size()).
		Bool("popularity", snap.popularity != nil).
		Msg("snapshot loaded")

	return nil
}

// Enabled reports whether a snapshot is loaded.
func (r *Recommender) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap != nil
}

// Rank serves a ranking from the per-cluster popularity table.
//
// It defers when disabled, when the user is anonymous, or when the snapshot
// carries no popularity rows at all. A computed cluster with no recorded
// popularity yields an Empty result: a real answer, distinct from defer.
func (r *Recommender) Rank(ctx context.Context, req recommend.Request) recommend.Result {
	r.mu.RLock()
	snap := r.snap
	r.mu.RUnlock()

	if snap == nil || req.User.Anonymous() || len(snap.popularity) == 0 {
		return recommend.Deferred()
	}

	cid := snap.predictCluster(req.User)

	rooms, ok := snap.popularity[cid]
	if !ok || len(rooms) == 0 {
		result := recommend.Empty()
		result.Generation = snap.generation
		return result
	}

	limit := r.config.Limits.ClampLimit(req.Limit)
	if len(rooms) > limit {
		rooms = rooms[:limit]
	}

	out := make([]int64, len(rooms))
	copy(out, rooms)

	result := recommend.Ranked(out)
	result.Generation = snap.generation
	return result
}

// PredictCluster exposes the live cluster assignment for a profile.
// The second return is false while the engine is disabled.
func (r *Recommender) PredictCluster(user recommend.UserProfile) (recommend.ClusterID, bool) {
	r.mu.RLock()
	snap := r.snap
	r.mu.RUnlock()

	if snap == nil {
		return 0, false
	}
	return snap.predictCluster(user), true
}

// predictCluster replays the training pipeline for one profile: multi-hot
// encode against the captured vocabulary, reduce, concatenate with the
// numeric row, scale, and assign to the nearest centroid. A cluster hint on
// the profile is advisory and deliberately ignored; the assignment is always
// recomputed.
func (s *snapshot) predictCluster(user recommend.UserProfile) recommend.ClusterID {
	multiHot := s.vocab.EncodeRow(user.PreferredCategories)
	dense := s.reducer.Transform(multiHot)
	row := feature.ConcatRow(feature.NumericRow(user), dense)
	scaled := s.scaler.Transform(row)
	return recommend.ClusterID(s.model.Predict(scaled))
}

// Ensure interface compliance.
var _ recommend.Recommender = (*Recommender)(nil)
