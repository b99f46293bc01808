// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package algorithms implements the text vectorizers and the fuzzy title
// matcher used by the recommendation engine.
//
// # Vectorizers
//
// Both implement recommend.Vectorizer:
//
//   - TFIDF: sparse bag-of-words weighting fitted on the corpus documents
//   - HTTPEmbedder: dense sentence embeddings from an external service
//
// A vectorizer is fitted once per corpus snapshot and returns an immutable
// recommend.Encoder, so fitted models are safe for concurrent use.
//
// # Title Matching
//
// WRatio is a recommend.MatchFunc. Normalize is the folding used for title
// comparison and the autocomplete index.
//
// # Usage Example
//
//	engine, err := recommend.NewEngine(cfg, recommend.Options{
//	    Store:      store,
//	    Fetcher:    catalogClient,
//	    Vectorizer: algorithms.NewTFIDF(algorithms.TFIDFConfig{NgramMax: 1}),
//	    Match:      algorithms.WRatio,
//	    Normalize:  algorithms.Normalize,
//	}, logger)
package algorithms

import "context"

// ContextCancelled checks if the context has been cancelled without blocking.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
