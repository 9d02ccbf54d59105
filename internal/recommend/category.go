// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package recommend

import (
	"context"
	"math"
	"sort"
	"time"
)

// Tier-1 scoring weights. The mapping is fixed; tuning happens through
// retraining tier 0, not by reweighting the fallback.
const (
	categoryMatchWeight = 0.8
	ageProximityWeight  = 0.2

	coldstartPopularityWeight = 0.6
	coldstartRecencyWeight    = 0.4

	// ageProximityScale is the age difference (in years) at which the
	// proximity term reaches zero.
	ageProximityScale = 10.0

	// popularityCapacityNorm is the occupancy at which popularity saturates.
	popularityCapacityNorm = 50.0

	// recencyTau is the e-folding time of the recency signal.
	recencyTau = 3 * 24 * time.Hour
)

// CategoryRecommender is the always-available tier-1 scorer. It is stateless
// and needs no trained artifacts: personalized requests are ranked by
// category match plus age proximity, cold-start requests by a popularity and
// recency blend over the caller-supplied candidate set.
type CategoryRecommender struct {
	limits LimitsConfig
}

// NewCategoryRecommender creates the tier-1 recommender.
func NewCategoryRecommender(cfg *Config) *CategoryRecommender {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &CategoryRecommender{limits: cfg.Limits}
}

// Name returns the tier identifier.
func (c *CategoryRecommender) Name() string {
	return "category"
}

// Rank scores the candidate set and returns an ordered room-id list.
// It never defers: with no candidates it returns an Empty result.
func (c *CategoryRecommender) Rank(ctx context.Context, req Request) Result {
	if len(req.Candidates) == 0 {
		return Empty()
	}

	var scored []scoredRoom
	if req.User.Anonymous() || len(req.User.PreferredCategories) == 0 {
		scored = c.scoreColdstart(req.Candidates, req.At())
	} else {
		scored = c.scorePersonalized(req.User, req.Candidates)
	}

	sortScored(scored)

	ids := paginate(scored, c.limits.ClampLimit(req.Limit), req.Page)
	if len(ids) == 0 {
		return Empty()
	}
	return Ranked(ids)
}

// scoredRoom pairs a room id with its ranking score.
type scoredRoom struct {
	roomID int64
	score  float64
}

// scorePersonalized ranks by category match with an age-proximity tiebreak
// signal: score = 0.8*[category in preferred] + 0.2*max(0, 1 - |Δage|/10).
func (c *CategoryRecommender) scorePersonalized(user UserProfile, rooms []RoomCandidate) []scoredRoom {
	prefs := make(map[string]struct{}, len(user.PreferredCategories))
	for _, cat := range user.PreferredCategories {
		if cat != "" {
			prefs[cat] = struct{}{}
		}
	}

	scored := make([]scoredRoom, 0, len(rooms))
	for _, rm := range rooms {
		match := 0.0
		if _, ok := prefs[rm.Category]; ok {
			match = 1.0
		}

		ageDiff := math.Abs(float64(rm.HostAge - user.Age))
		proximity := math.Max(0, 1.0-ageDiff/ageProximityScale)

		scored = append(scored, scoredRoom{
			roomID: rm.RoomID,
			score:  categoryMatchWeight*match + ageProximityWeight*proximity,
		})
	}
	return scored
}

// scoreColdstart ranks by a popularity and recency blend:
// score = 0.6*clamp(occupancy/50) + 0.4*e^(-age/tau).
func (c *CategoryRecommender) scoreColdstart(rooms []RoomCandidate, now time.Time) []scoredRoom {
	scored := make([]scoredRoom, 0, len(rooms))
	for _, rm := range rooms {
		scored = append(scored, scoredRoom{
			roomID: rm.RoomID,
			score: coldstartPopularityWeight*popularityNorm(rm.Occupancy) +
				coldstartRecencyWeight*recencyNorm(rm.UpdatedAt, now),
		})
	}
	return scored
}

// popularityNorm maps occupancy to [0, 1], saturating at 50 members.
func popularityNorm(occupancy int) float64 {
	return clamp01(float64(occupancy) / popularityCapacityNorm)
}

// recencyNorm maps the time since the last update to [0, 1] with exponential
// decay. A zero timestamp scores 0.
func recencyNorm(updatedAt, now time.Time) float64 {
	if updatedAt.IsZero() {
		return 0.0
	}
	age := now.Sub(updatedAt).Seconds()
	return clamp01(math.Exp(-age / recencyTau.Seconds()))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// sortScored orders by score descending, with the larger room id first among
// equal scores. The room id is a deterministic tiebreaker only, never a
// standalone signal.
func sortScored(scored []scoredRoom) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].roomID > scored[j].roomID
	})
}

// paginate slices a 1-based page of length limit out of the ranking.
func paginate(scored []scoredRoom, limit, page int) []int64 {
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * limit
	if start >= len(scored) {
		return []int64{}
	}
	end := start + limit
	if end > len(scored) {
		end = len(scored)
	}

	ids := make([]int64, 0, end-start)
	for _, s := range scored[start:end] {
		ids = append(ids, s.roomID)
	}
	return ids
}
