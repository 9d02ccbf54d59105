// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package jobs

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/moimlab/roomrec/internal/recommend"
	"github.com/moimlab/roomrec/internal/validation"
)

// UserSource supplies the user population for a training run.
type UserSource interface {
	Users(ctx context.Context) ([]recommend.UserProfile, error)
}

// ActionLogSource supplies join/click entries for a popularity refresh.
type ActionLogSource interface {
	Entries(ctx context.Context) ([]recommend.ActionLogEntry, error)
}

// FileUserSource reads user profiles from a JSON array file.
type FileUserSource struct {
	Path string
}

// Users loads and decodes the user file. The file is re-read on every
// call so a run always sees the latest export.
func (s *FileUserSource) Users(_ context.Context) ([]recommend.UserProfile, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading users file %s: %w", s.Path, err)
	}
	var users []recommend.UserProfile
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decoding users file %s: %w", s.Path, err)
	}
	for i := range users {
		if err := validation.ValidateStruct(&users[i]); err != nil {
			return nil, fmt.Errorf("users file %s: entry %d: %w", s.Path, i, err)
		}
	}
	return users, nil
}

// FileActionLogSource reads action log entries from a JSON array file.
// An empty path means no action log is available and yields no entries.
type FileActionLogSource struct {
	Path string
}

// Entries loads and decodes the action log file.
func (s *FileActionLogSource) Entries(_ context.Context) ([]recommend.ActionLogEntry, error) {
	if s.Path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading action log %s: %w", s.Path, err)
	}
	var entries []recommend.ActionLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding action log %s: %w", s.Path, err)
	}
	for i := range entries {
		if err := validation.ValidateStruct(&entries[i]); err != nil {
			return nil, fmt.Errorf("action log %s: entry %d: %w", s.Path, i, err)
		}
	}
	return entries, nil
}
