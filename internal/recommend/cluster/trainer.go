// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package cluster

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/moimlab/roomrec/internal/metrics"
	"github.com/moimlab/roomrec/internal/recommend"
	"github.com/moimlab/roomrec/internal/recommend/feature"
	"github.com/moimlab/roomrec/internal/recommend/storage"
)

// Trainer runs the retrain batch: it fits the full feature pipeline and the
// partition model on a user population, then persists the artifact bundle
// and the user-cluster map as one new generation.
type Trainer struct {
	config *recommend.Config
	store  *storage.Store
	logger zerolog.Logger
}

// NewTrainer creates a retrain batch runner.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainer(cfg *recommend.Config, store *storage.Store, logger zerolog.Logger) *Trainer {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	return &Trainer{
		config: cfg,
		store:  store,
		logger: logger.With().Str("component", "trainer").Logger(),
	}
}

// Train fits vocabulary, encoder, reducer, scaler and k-means on the
// population and publishes the result. It fails with a ValidationError only
// when the population is empty; a failed batch persists nothing.
func (t *Trainer) Train(ctx context.Context, users []recommend.UserProfile) (*recommend.TrainSummary, error) {
	start := time.Now()

	if len(users) == 0 {
		metrics.TrainingRuns.WithLabelValues("error").Inc()
		return nil, recommend.NewValidationError("training population is empty")
	}

	t.logger.Info().Int("users", len(users)).Int("k", t.config.Clusters).Msg("starting retrain")

	vocab := feature.BuildVocabulary(users)
	multiHot := feature.MultiHotMatrix(users, vocab)

	seed := t.config.EffectiveSeed()
	reducer, dense := feature.FitReducer(multiHot, t.config.ReducerDim, seed)

	numeric := feature.NumericMatrix(users)

	// One scaler over the whole design matrix: numeric and dense-category
	// blocks share a scale.
	design := feature.Concat(numeric, dense)
	scaler, scaled := feature.FitScaler(design)

	model, fit := FitKMeans(scaled, t.config.Clusters, seed, t.config.MaxIterations)

	userClusters := make(map[string]recommend.ClusterID, len(users))
	for i, u := range users {
		if u.UserID == "" {
			continue
		}
		userClusters[u.UserID] = recommend.ClusterID(fit.Labels[i])
	}

	gen, err := t.store.WriteGeneration(ctx, storage.BundleArtifacts{
		Vocabulary:   vocab.Categories(),
		UserClusters: userClusters,
		Scaler:       scaler,
		Reducer:      reducer,
		Model:        model,
		K:            model.K,
		UserCount:    len(users),
		ReducerDim:   reducer.NumComponents,
	})
	if err != nil {
		metrics.TrainingRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.TrainingRuns.WithLabelValues("ok").Inc()
	metrics.TrainingDuration.Observe(time.Since(start).Seconds())

	summary := &recommend.TrainSummary{
		Generation:   gen,
		UserCount:    len(users),
		ClusterCount: model.K,
		Inertia:      fit.Inertia,
		ClusterSizes: fit.Sizes,
	}

	t.logger.Info().
		Str("generation", gen).
		Int("users", summary.UserCount).
		Int("k", summary.ClusterCount).
		Float64("inertia", summary.Inertia).
		Dur("duration", time.Since(start)).
		Msg("retrain complete")

	return summary, nil
}
