// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/animerec/internal/models"
)

// Health handles GET /api/v1/health. It always answers 200 while the process
// is up; Status reports "degraded" until a corpus has been loaded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	st := h.engine.Status()

	status := "healthy"
	if !st.Ready {
		status = "degraded"
	}

	respondSuccess(w, r, models.HealthStatus{
		Status:  status,
		Version: Version,
		Ready:   st.Ready,
		Titles:  st.Titles,
		Stale:   st.Stale,
		Uptime:  time.Since(h.startTime).Seconds(),
	}, start)
}
