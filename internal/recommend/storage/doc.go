// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

// Package storage persists trained artifacts as immutable generations.
//
// # Layout
//
// One directory per generation, under a fixed set of file names:
//
//	<root>/gen-<timestamp>-<id>/
//	    manifest.json              generation metadata and checksums
//	    category_vocab.json        ordered category vocabulary
//	    user_clusters.json         user id -> cluster id (string keys)
//	    cluster_popularity.json    cluster id -> ranked room ids (optional)
//	    scaler.gob.gz              z-score scaler parameters
//	    reducer.gob.gz             embedding reducer parameters
//	    kmeans.gob.gz              cluster model parameters
//	<root>/CURRENT                 name of the live generation
//
// Model parameters are gob-encoded, gzip-compressed, and carry SHA-256
// checksums in the manifest. JSON files hold the string-keyed mappings; the
// string keys exist only at this boundary, the engine uses typed integer
// cluster ids throughout.
//
// # Atomicity
//
// Writers stage a complete generation under a hidden directory, rename it
// into place, then atomically rewrite CURRENT. Readers resolve CURRENT once
// and load a whole generation into an immutable snapshot, so a reader never
// observes a partially written bundle and a failed batch leaves the previous
// generation live. Writers are serialized by a store-wide mutex.
//
// The popularity refresh produces a new generation derived from the current
// one: bundle files are carried forward unchanged and the popularity table is
// added, which pins the table to the exact user-cluster map it was computed
// from.
package storage
