// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

// Request structs carry validator tags; field names in error details come
// from the query tag.

// RecommendRequest is GET /api/v1/recommend.
type RecommendRequest struct {
	Query string `query:"q" validate:"notblank,max=200"`

	// K of 0 uses the engine default; larger values are capped by the engine.
	K int `query:"k" validate:"min=0,max=100"`
}

// SuggestRequest is GET /api/v1/suggest.
type SuggestRequest struct {
	Query string `query:"q" validate:"notblank,max=200"`
	Limit int    `query:"limit" validate:"min=0,max=50"`
}

// CompleteRequest is GET /api/v1/complete.
type CompleteRequest struct {
	Prefix string `query:"prefix" validate:"notblank,max=100"`
	Limit  int    `query:"limit" validate:"min=0,max=50"`
}
