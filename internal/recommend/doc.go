// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package recommend implements content-based anime recommendations.
//
// A query flows through three stages:
//
//  1. Resolver maps the user's text to a corpus title by fuzzy matching
//     against primary, English, Japanese and synonym titles.
//  2. TopK ranks every other title by cosine similarity of their
//     synopsis+genre vectors.
//  3. Engine maps ranked indices back to records.
//
// The Engine owns an immutable snapshot (corpus, vector space, resolver,
// title trie) behind an atomic pointer. A snapshot is replaced
// wholesale when the cached corpus expires; readers never see a partially
// built vector space. The vector space is rebuilt only when the corpus
// content hash changes.
//
// Persistence (CorpusStore), the remote catalog (CorpusFetcher), the text
// representation (Vectorizer) and title scoring (MatchFunc) are injected.
// Implementations live in the storage, catalog and algorithms packages.
//
// # Errors
//
//   - ErrStaleOrMissing: cache absent, expired or corrupt; triggers a fetch
//   - ErrFetchFailed: catalog unavailable and no older corpus to fall back to
//   - ErrNoConfidentMatch: returned as *NoConfidentMatchError with a suggestion
//   - ErrEmptyCorpus: nothing to rank against
package recommend
