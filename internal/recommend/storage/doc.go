// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package storage persists corpus snapshots for the recommendation engine.
//
// Two recommend.CorpusStore backends share one on-disk format:
//
//   - FileStore: a single JSON file replaced atomically (temp file + rename)
//   - BadgerStore: the same document under one BadgerDB key
//
// # Storage Format
//
//	{
//	  "schema_version": 1,
//	  "fetched_at": "2026-01-01T12:00:00Z",
//	  "checksum": "<recommend.CorpusVersion of the records>",
//	  "records": [{"id": 20, "title": "Naruto", ...}]
//	}
//
// A document with an unknown schema version, a checksum mismatch or invalid
// JSON is treated as missing (recommend.ErrStaleOrMissing), so a corrupt
// cache triggers a refetch instead of failing requests.
//
// # Staleness
//
// Load rejects a corpus older than the TTL; LoadAny returns it regardless,
// which lets the engine serve expired data when the catalog is unreachable.
// Age is measured from the corpus fetch time with the store's clock.
//
// # Usage Example
//
//	store := storage.NewFileStore("anime_cache.json", storage.Options{TTL: 24 * time.Hour})
//	corpus, err := store.Load(ctx)
//	if errors.Is(err, recommend.ErrStaleOrMissing) {
//	    // refetch
//	}
package storage
