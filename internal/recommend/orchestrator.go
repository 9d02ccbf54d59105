// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moimlab/roomrec/internal/metrics"
)

// Orchestrator routes a ranking request through the tiers: the primary tier
// answers unless it defers, in which case the same request is re-expressed
// for the fallback tier. Tier results are never merged, and a request is
// never rejected because the model is unavailable.
type Orchestrator struct {
	config   *Config
	logger   zerolog.Logger
	primary  Recommender
	fallback Recommender
}

// NewOrchestrator creates an orchestrator over a primary (tier 0) and a
// fallback (tier 1) recommender. The fallback must never defer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOrchestrator(cfg *Config, primary, fallback Recommender, logger zerolog.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Orchestrator{
		config:   cfg,
		logger:   logger.With().Str("component", "orchestrator").Logger(),
		primary:  primary,
		fallback: fallback,
	}
}

// Rank answers a ranking request. The returned response always carries an
// ordered (possibly empty) room-id list.
func (o *Orchestrator) Rank(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	logger := o.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.User.UserID).
		Logger()

	tier := o.primary
	result := tier.Rank(ctx, req)
	if result.IsDeferred() {
		metrics.RankFallbacks.Inc()
		logger.Debug().
			Str("from", o.primary.Name()).
			Str("to", o.fallback.Name()).
			Msg("tier deferred, falling back")

		tier = o.fallback
		result = tier.Rank(ctx, req)
	}

	metrics.RankRequests.WithLabelValues(tier.Name(), result.Kind().String()).Inc()

	resp := &Response{
		RoomIDs: result.RoomIDs(),
		Metadata: ResponseMetadata{
			RequestID:  req.RequestID,
			Tier:       tier.Name(),
			Outcome:    result.Kind().String(),
			Generation: result.Generation,
			LatencyMS:  time.Since(start).Milliseconds(),
			Timestamp:  time.Now(),
		},
	}
	if resp.RoomIDs == nil {
		resp.RoomIDs = []int64{}
	}

	logger.Debug().
		Str("tier", resp.Metadata.Tier).
		Str("outcome", resp.Metadata.Outcome).
		Int("returned", len(resp.RoomIDs)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("ranking complete")

	return resp, nil
}
