// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package recommend

import (
	"context"
	"time"
)

// ClusterID identifies a user segment produced by the partitioning model.
// Cluster ids are typed integers everywhere inside the engine; they are
// converted to string keys only at the persistence boundary.
type ClusterID int

// ActionKind classifies an interaction log entry.
type ActionKind string

const (
	// ActionJoin indicates the user joined a room.
	ActionJoin ActionKind = "join"
	// ActionClick indicates the user clicked through to a room.
	ActionClick ActionKind = "click"
)

// Weight returns the popularity weight for this action kind.
// The mapping is fixed: join=1.0, click=0.1, anything else contributes
// nothing and is skipped by the aggregator.
func (k ActionKind) Weight() float64 {
	switch k {
	case ActionJoin:
		return 1.0
	case ActionClick:
		return 0.1
	default:
		return 0.0
	}
}

// UserProfile describes a user for both training and serving.
// All numeric fields are optional; absent values are carried as zero and
// zero-filled into the feature matrix (explicit policy, not imputation).
type UserProfile struct {
	// UserID is the user identity. Empty means anonymous.
	UserID string `json:"user_id,omitempty"`

	// PreferredCategories holds up to three preferred room categories.
	PreferredCategories []string `json:"preferred_categories,omitempty" validate:"max=3"`

	// Age is the user's age. Zero means unknown.
	Age int `json:"age,omitempty"`

	// EnrollYear is the user's enrollment year. Zero means unknown.
	EnrollYear int `json:"enroll_year,omitempty"`

	// JoinCount is the number of rooms the user has joined. Zero means unknown.
	JoinCount int `json:"join_count,omitempty"`

	// ClusterHint is a caller-supplied cluster id. It is accepted in the
	// schema but advisory only: the tier-0 scorer always recomputes the
	// cluster from the profile.
	ClusterHint *ClusterID `json:"cluster_id,omitempty"`
}

// Anonymous reports whether the profile carries no identity.
func (u UserProfile) Anonymous() bool {
	return u.UserID == ""
}

// RoomCandidate is one room in a caller-supplied candidate set.
// Candidates are only needed by tier-1 scoring; tier 0 ranks against a
// precomputed per-cluster table.
type RoomCandidate struct {
	// RoomID is the unique room identifier within one ranking request.
	RoomID int64 `json:"room_id"`

	// Category is the room's single category.
	Category string `json:"category"`

	// HostAge is the age of the room host.
	HostAge int `json:"host_age"`

	// Capacity is the maximum room size.
	Capacity int `json:"capacity"`

	// Occupancy is the current member count.
	Occupancy int `json:"occupancy"`

	// UpdatedAt is when the room was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// ActionLogEntry is one interaction log record consumed by the popularity
// aggregation batch. Entries are processed in the order supplied.
type ActionLogEntry struct {
	// UserID is the acting user. Empty means anonymous; anonymous entries
	// are dropped by the aggregator.
	UserID string `json:"user_id,omitempty"`

	// RoomID is the room acted upon.
	RoomID int64 `json:"room_id" validate:"required"`

	// Kind is the action kind. Kinds without a weight are ignored.
	Kind ActionKind `json:"kind"`
}

// Request is a ranking request handed to a tier or the orchestrator.
type Request struct {
	// User is the profile to recommend for.
	User UserProfile `json:"user"`

	// Candidates is the room set for tier-1 scoring.
	Candidates []RoomCandidate `json:"candidates,omitempty"`

	// Limit is the maximum number of room ids to return.
	// Defaults to Config.Limits.DefaultLimit if zero.
	Limit int `json:"limit,omitempty"`

	// Page selects a page of the ranking, 1-based. Defaults to 1.
	Page int `json:"page,omitempty"`

	// Now is the reference time for recency scoring.
	// Defaults to time.Now if zero.
	Now time.Time `json:"-"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// At returns the reference time for scoring.
func (r Request) At() time.Time {
	if r.Now.IsZero() {
		return time.Now()
	}
	return r.Now
}

// Response is the orchestrator's answer to a ranking request.
type Response struct {
	// RoomIDs is the ordered recommendation list, truncated to the limit.
	RoomIDs []int64 `json:"room_ids"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// Tier names the tier that produced the answer ("cluster" or "category").
	Tier string `json:"tier"`

	// Outcome is the result kind the answering tier returned.
	Outcome string `json:"outcome"`

	// Generation is the artifact generation used by tier 0, if any.
	Generation string `json:"generation,omitempty"`

	// LatencyMS is the total ranking latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// TrainSummary reports the outcome of one retrain batch.
type TrainSummary struct {
	// Generation is the artifact generation the batch produced.
	Generation string `json:"generation"`

	// UserCount is the size of the training population.
	UserCount int `json:"user_count"`

	// ClusterCount is the effective K used by the fit.
	ClusterCount int `json:"cluster_count"`

	// Inertia is the sum of squared distances to assigned centroids.
	Inertia float64 `json:"inertia"`

	// ClusterSizes is the per-cluster population histogram, indexed by
	// cluster id.
	ClusterSizes []int `json:"cluster_sizes"`
}

// Recommender is implemented by each serving tier.
type Recommender interface {
	// Name returns the tier identifier (e.g., "cluster", "category").
	Name() string

	// Rank answers a ranking request. Tiers signal inability to answer by
	// returning a Deferred result, never an error.
	Rank(ctx context.Context, req Request) Result
}
