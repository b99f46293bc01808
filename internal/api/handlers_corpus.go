// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/animerec/internal/logging"
)

// CorpusStatus handles GET /api/v1/corpus/status. It never triggers a fetch.
func (h *Handler) CorpusStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, h.engine.Status(), start)
}

// RefreshCorpus handles POST /api/v1/corpus/refresh. On failure the engine
// keeps serving its current corpus and the error is reported.
func (h *Handler) RefreshCorpus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	status, err := h.engine.Refresh(ctx)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("titles", status.Titles).
		Str("corpus_version", status.CorpusVersion).
		Msg("Corpus refreshed via API")
	respondSuccess(w, r, status, start)
}
