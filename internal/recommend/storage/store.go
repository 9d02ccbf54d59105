// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moimlab/roomrec/internal/recommend"
)

// Fixed, generation-stable artifact file names.
const (
	currentFile      = "CURRENT"
	manifestFile     = "manifest.json"
	vocabFile        = "category_vocab.json"
	userClustersFile = "user_clusters.json"
	popularityFile   = "cluster_popularity.json"
	scalerFile       = "scaler.gob.gz"
	reducerFile      = "reducer.gob.gz"
	modelFile        = "kmeans.gob.gz"

	genPrefix     = "gen-"
	stagingPrefix = ".staging-"
)

// ErrNoGeneration is returned when no generation has been published yet.
var ErrNoGeneration = errors.New("no current artifact generation")

// Manifest describes one generation.
type Manifest struct {
	// Generation is the generation directory name.
	Generation string `json:"generation"`

	// CreatedAt is when the generation was published.
	CreatedAt time.Time `json:"created_at"`

	// K is the cluster count shared by every artifact of this generation.
	K int `json:"k"`

	// UserCount is the training population size.
	UserCount int `json:"user_count"`

	// VocabSize is the category vocabulary size.
	VocabSize int `json:"vocab_size"`

	// ReducerDim is the effective embedding dimensionality.
	ReducerDim int `json:"reducer_dim"`

	// BundleGeneration names the generation whose trained bundle this one
	// carries. Equal to Generation for retrain output; for popularity
	// refreshes it pins the bundle the table was derived from.
	BundleGeneration string `json:"bundle_generation"`

	// HasPopularity reports whether cluster_popularity.json is present.
	HasPopularity bool `json:"has_popularity"`

	// Checksums maps model file names to SHA-256 checksums of the raw
	// (uncompressed) gob payload.
	Checksums map[string]string `json:"checksums"`
}

// BundleArtifacts is everything one retrain batch persists.
type BundleArtifacts struct {
	// Vocabulary is the ordered category vocabulary.
	Vocabulary []string

	// UserClusters maps user id to cluster id.
	UserClusters map[string]recommend.ClusterID

	// Scaler, Reducer and Model are gob-encoded opaquely.
	Scaler  any
	Reducer any
	Model   any

	// K is the effective cluster count of the fit.
	K int

	// UserCount is the training population size.
	UserCount int

	// ReducerDim is the effective embedding dimensionality.
	ReducerDim int
}

// Snapshot is one fully loaded generation. It is immutable after load.
type Snapshot struct {
	// Manifest is the generation metadata.
	Manifest Manifest

	// Vocabulary is the ordered category vocabulary.
	Vocabulary []string

	// UserClusters maps user id to cluster id.
	UserClusters map[string]recommend.ClusterID

	// Popularity maps cluster id to its ranked room ids. Nil when the
	// generation carries no popularity table.
	Popularity map[recommend.ClusterID][]int64
}

// Store manages generations under a root directory. It serializes writers
// and publishes each generation atomically.
type Store struct {
	root   string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewStore opens (or creates) an artifact store rooted at dir.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, recommend.NewConfigurationError("create artifact directory", err)
	}

	// Probe writability up front so batches fail at startup, not mid-write.
	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		return nil, recommend.NewConfigurationError("artifact directory not writable", err)
	}
	_ = os.Remove(probe)

	return &Store{
		root:   dir,
		logger: logger.With().Str("component", "artifact-store").Logger(),
	}, nil
}

// WriteGeneration persists a retrain's bundle and user-cluster map as a new
// generation and atomically makes it current. The previous generation stays
// on disk untouched.
func (s *Store) WriteGeneration(ctx context.Context, art BundleArtifacts) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := newGenerationID()
	manifest := Manifest{
		Generation:       gen,
		CreatedAt:        time.Now().UTC(),
		K:                art.K,
		UserCount:        art.UserCount,
		VocabSize:        len(art.Vocabulary),
		ReducerDim:       art.ReducerDim,
		BundleGeneration: gen,
		Checksums:        make(map[string]string),
	}

	stage, err := s.mkStaging(gen)
	if err != nil {
		return "", err
	}
	defer func() { _ = os.RemoveAll(stage) }() //nolint:errcheck // best-effort cleanup on failure paths

	if err := writeJSON(filepath.Join(stage, vocabFile), art.Vocabulary); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(stage, userClustersFile), clustersToStringKeys(art.UserClusters)); err != nil {
		return "", err
	}

	for _, f := range []struct {
		name  string
		value any
	}{
		{scalerFile, art.Scaler},
		{reducerFile, art.Reducer},
		{modelFile, art.Model},
	} {
		sum, err := writeGob(filepath.Join(stage, f.name), f.value)
		if err != nil {
			return "", err
		}
		manifest.Checksums[f.name] = sum
	}

	if err := s.publish(stage, gen, manifest); err != nil {
		return "", err
	}

	s.logger.Info().
		Str("generation", gen).
		Int("k", art.K).
		Int("users", art.UserCount).
		Int("vocab", len(art.Vocabulary)).
		Msg("published artifact generation")

	return gen, nil
}

// WritePopularity persists a popularity table as a new generation derived
// from the current one: bundle files are carried forward byte-for-byte and
// the table is added. Returns ErrNoGeneration (wrapped) when no retrain has
// published a cluster map yet.
func (s *Store) WritePopularity(ctx context.Context, table map[recommend.ClusterID][]int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	curName, err := s.currentLocked()
	if err != nil {
		return "", err
	}

	curManifest, err := s.readManifest(curName)
	if err != nil {
		return "", fmt.Errorf("read current manifest: %w", err)
	}

	gen := newGenerationID()
	stage, err := s.mkStaging(gen)
	if err != nil {
		return "", err
	}
	defer func() { _ = os.RemoveAll(stage) }() //nolint:errcheck // best-effort cleanup on failure paths

	for _, name := range []string{vocabFile, userClustersFile, scalerFile, reducerFile, modelFile} {
		if err := copyFile(filepath.Join(s.root, curName, name), filepath.Join(stage, name)); err != nil {
			return "", fmt.Errorf("carry forward %s: %w", name, err)
		}
	}

	if err := writeJSON(filepath.Join(stage, popularityFile), popularityToStringKeys(table)); err != nil {
		return "", err
	}

	manifest := curManifest
	manifest.Generation = gen
	manifest.CreatedAt = time.Now().UTC()
	manifest.BundleGeneration = curManifest.BundleGeneration
	manifest.HasPopularity = true

	if err := s.publish(stage, gen, manifest); err != nil {
		return "", err
	}

	s.logger.Info().
		Str("generation", gen).
		Str("bundle_generation", manifest.BundleGeneration).
		Int("clusters", len(table)).
		Msg("published popularity generation")

	return gen, nil
}

// LoadSnapshot loads the current generation. The scaler, reducer and model
// targets are filled by gob decode; any of them may be nil to skip decoding
// that artifact (the popularity batch only needs the cluster map).
//
// The lock is held for the whole read so a concurrent publish plus Prune
// cannot remove the resolved generation mid-load.
func (s *Store) LoadSnapshot(scaler, reducer, model any) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen, err := s.currentLocked()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, gen)

	manifest, err := s.readManifest(gen)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var vocab []string
	if err := readJSON(filepath.Join(dir, vocabFile), &vocab); err != nil {
		return nil, err
	}

	var rawClusters map[string]int
	if err := readJSON(filepath.Join(dir, userClustersFile), &rawClusters); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Manifest:     manifest,
		Vocabulary:   vocab,
		UserClusters: clustersFromStringKeys(rawClusters),
	}

	if manifest.HasPopularity {
		var rawPop map[string][]int64
		if err := readJSON(filepath.Join(dir, popularityFile), &rawPop); err != nil {
			return nil, err
		}
		snap.Popularity, err = popularityFromStringKeys(rawPop)
		if err != nil {
			return nil, err
		}
	}

	for _, f := range []struct {
		name   string
		target any
	}{
		{scalerFile, scaler},
		{reducerFile, reducer},
		{modelFile, model},
	} {
		if f.target == nil {
			continue
		}
		if err := readGob(filepath.Join(dir, f.name), f.target, manifest.Checksums[f.name]); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

// CurrentGeneration returns the live generation name, or ErrNoGeneration.
func (s *Store) CurrentGeneration() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

// Prune removes published generations other than the newest keep, never
// touching the current one. Staging leftovers are always removed.
func (s *Store) Prune(keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 1 {
		keep = 1
	}

	current, _ := s.currentLocked()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("read artifact root: %w", err)
	}

	var gens []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		switch {
		case strings.HasPrefix(e.Name(), stagingPrefix):
			_ = os.RemoveAll(filepath.Join(s.root, e.Name())) //nolint:errcheck // best-effort cleanup
		case strings.HasPrefix(e.Name(), genPrefix):
			gens = append(gens, e.Name())
		}
	}

	// Generation names embed a UTC timestamp, so the sort is chronological.
	sort.Sort(sort.Reverse(sort.StringSlice(gens)))

	for i, gen := range gens {
		if i < keep || gen == current {
			continue
		}
		_ = os.RemoveAll(filepath.Join(s.root, gen)) //nolint:errcheck // best-effort cleanup of old generations
	}
	return nil
}

// currentLocked resolves CURRENT. Must be called with mu held.
func (s *Store) currentLocked() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.root, currentFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoGeneration
		}
		return "", fmt.Errorf("read %s: %w", currentFile, err)
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", ErrNoGeneration
	}
	return name, nil
}

// mkStaging creates the hidden staging directory for a generation.
func (s *Store) mkStaging(gen string) (string, error) {
	stage := filepath.Join(s.root, stagingPrefix+gen)
	if err := os.MkdirAll(stage, 0o750); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}
	return stage, nil
}

// publish writes the manifest into the staged directory, renames it into
// place, and atomically repoints CURRENT.
func (s *Store) publish(stage, gen string, manifest Manifest) error {
	if err := writeJSON(filepath.Join(stage, manifestFile), manifest); err != nil {
		return err
	}

	final := filepath.Join(s.root, gen)
	if err := os.Rename(stage, final); err != nil {
		return fmt.Errorf("publish generation: %w", err)
	}

	tmp := filepath.Join(s.root, currentFile+".tmp")
	if err := os.WriteFile(tmp, []byte(gen+"\n"), 0o600); err != nil {
		return fmt.Errorf("stage %s: %w", currentFile, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.root, currentFile)); err != nil {
		return fmt.Errorf("swap %s: %w", currentFile, err)
	}
	return nil
}

// readManifest loads the manifest of a published generation.
func (s *Store) readManifest(gen string) (Manifest, error) {
	var m Manifest
	err := readJSON(filepath.Join(s.root, gen, manifestFile), &m)
	return m, err
}

// newGenerationID builds a chronologically sortable generation name.
func newGenerationID() string {
	ts := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("%s%s-%s", genPrefix, ts, uuid.NewString()[:8])
}

// writeGob gob-encodes value, records its SHA-256, and writes it gzipped.
func writeGob(path string, value any) (string, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return "", fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	raw := buf.Bytes()

	hash := sha256.Sum256(raw)
	checksum := hex.EncodeToString(hash[:])

	f, err := os.Create(path) //nolint:gosec // path is built from store-controlled names
	if err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // close error after successful write is not actionable

	gzw := gzip.NewWriter(f)
	if _, err := gzw.Write(raw); err != nil {
		return "", fmt.Errorf("compress %s: %w", filepath.Base(path), err)
	}
	if err := gzw.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", filepath.Base(path), err)
	}
	return checksum, nil
}

// readGob reads a gzipped gob file, verifies its checksum, and decodes into
// target.
func readGob(path string, target any, wantChecksum string) error {
	f, err := os.Open(path) //nolint:gosec // path is built from store-controlled names
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // close error after read is not actionable

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close error after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if wantChecksum != "" {
		hash := sha256.Sum256(raw)
		if got := hex.EncodeToString(hash[:]); got != wantChecksum {
			return fmt.Errorf("checksum mismatch on %s: expected %s, got %s",
				filepath.Base(path), wantChecksum, got)
		}
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from store-controlled names
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("unmarshal %s: %w", filepath.Base(path), err)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src) //nolint:gosec // paths are built from store-controlled names
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o600)
}

// clustersToStringKeys converts typed cluster ids to the string keys the
// persistence format uses.
func clustersToStringKeys(m map[string]recommend.ClusterID) map[string]int {
	out := make(map[string]int, len(m))
	for user, cid := range m {
		out[user] = int(cid)
	}
	return out
}

func clustersFromStringKeys(m map[string]int) map[string]recommend.ClusterID {
	out := make(map[string]recommend.ClusterID, len(m))
	for user, cid := range m {
		out[user] = recommend.ClusterID(cid)
	}
	return out
}

func popularityToStringKeys(m map[recommend.ClusterID][]int64) map[string][]int64 {
	out := make(map[string][]int64, len(m))
	for cid, rooms := range m {
		out[strconv.Itoa(int(cid))] = rooms
	}
	return out
}

func popularityFromStringKeys(m map[string][]int64) (map[recommend.ClusterID][]int64, error) {
	out := make(map[recommend.ClusterID][]int64, len(m))
	for key, rooms := range m {
		cid, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("malformed cluster key %q in %s: %w", key, popularityFile, err)
		}
		out[recommend.ClusterID(cid)] = rooms
	}
	return out, nil
}
