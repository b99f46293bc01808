// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"time"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/recommend"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// Recommender is the engine surface the handlers need.
type Recommender interface {
	Recommend(ctx context.Context, query string, k int) (*recommend.Recommendation, error)
	Suggest(ctx context.Context, query string, limit int) ([]recommend.Match, error)
	Complete(ctx context.Context, prefix string, limit int) ([]recommend.Completion, error)
	Refresh(ctx context.Context) (recommend.Status, error)
	Status() recommend.Status
}

// Handler holds dependencies for the API handlers.
//
// Handler methods are split across files:
//   - handlers_recommend.go: recommend, suggest, complete
//   - handlers_corpus.go: corpus status and refresh
//   - handlers_health.go: health
type Handler struct {
	engine         Recommender
	requestTimeout time.Duration
	startTime      time.Time
}

// NewHandler creates a handler. cfg may be nil in tests.
func NewHandler(engine Recommender, cfg *config.Config) *Handler {
	timeout := 30 * time.Second
	if cfg != nil && cfg.Server.Timeout > 0 {
		timeout = cfg.Server.Timeout
	}
	return &Handler{
		engine:         engine,
		requestTimeout: timeout,
		startTime:      time.Now(),
	}
}

// withTimeout bounds work done on behalf of one request.
func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.requestTimeout)
}
