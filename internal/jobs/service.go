// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PipelineService runs the offline pipeline on a fixed interval as a
// supervised service. It implements suture.Service.
//
// The first run happens immediately on start so a fresh process serves
// from current data rather than waiting a full interval. Run errors are
// logged, not returned: a bad input file should not crash-loop the
// service, and the supervisor restart would not fix the data anyway.
type PipelineService struct {
	pipeline *Pipeline
	interval time.Duration
	logger   zerolog.Logger
}

// NewPipelineService creates a supervised pipeline runner.
func NewPipelineService(pipeline *Pipeline, interval time.Duration, logger zerolog.Logger) *PipelineService {
	return &PipelineService{
		pipeline: pipeline,
		interval: interval,
		logger:   logger.With().Str("component", "pipeline-service").Logger(),
	}
}

// Serve implements suture.Service.
func (s *PipelineService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("Pipeline service started")

	if err := s.pipeline.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Error().Err(err).Msg("Pipeline run failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Pipeline service stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := s.pipeline.Run(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Error().Err(err).Msg("Pipeline run failed")
			}
		}
	}
}

// String implements fmt.Stringer. Suture uses this to identify the
// service in log messages.
func (s *PipelineService) String() string {
	return "pipeline-service"
}
