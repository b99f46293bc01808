// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/animerec/internal/recommend"
)

// resultCacheControl lets clients reuse ranking responses briefly; the corpus
// changes at most once per TTL.
const resultCacheControl = "public, max-age=60"

// Recommend handles GET /api/v1/recommend?q=&k=.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	k, apiErr := getIntParam(r, "k", 0)
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}
	req := RecommendRequest{Query: r.URL.Query().Get("q"), K: k}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	rec, err := h.engine.Recommend(ctx, req.Query, req.K)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	if rec.Results == nil {
		rec.Results = []recommend.Result{}
	}

	w.Header().Set("Cache-Control", resultCacheControl)
	respondSuccess(w, r, rec, start)
}

// Suggest handles GET /api/v1/suggest?q=&limit=.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, apiErr := getIntParam(r, "limit", 0)
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}
	req := SuggestRequest{Query: r.URL.Query().Get("q"), Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	matches, err := h.engine.Suggest(ctx, req.Query, req.Limit)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	matches = matchesOrEmpty(matches)

	w.Header().Set("Cache-Control", resultCacheControl)
	respondSuccess(w, r, map[string]interface{}{
		"query":       req.Query,
		"suggestions": matches,
		"count":       len(matches),
	}, start)
}

// Complete handles GET /api/v1/complete?prefix=&limit=.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, apiErr := getIntParam(r, "limit", 0)
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}
	req := CompleteRequest{Prefix: r.URL.Query().Get("prefix"), Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	items, err := h.engine.Complete(ctx, req.Prefix, req.Limit)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	if items == nil {
		items = []recommend.Completion{}
	}

	w.Header().Set("Cache-Control", resultCacheControl)
	respondSuccess(w, r, map[string]interface{}{
		"prefix": req.Prefix,
		"items":  items,
		"count":  len(items),
	}, start)
}
