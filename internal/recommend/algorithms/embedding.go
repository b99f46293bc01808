// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/animerec/internal/breaker"
	"github.com/tomtom215/animerec/internal/recommend"
)

// EmbeddingConfig contains configuration for the HTTP embedding vectorizer.
type EmbeddingConfig struct {
	// URL of the embedding endpoint.
	URL string

	// Model name sent with every request.
	Model string

	// BatchSize bounds the inputs per request.
	BatchSize int

	// Timeout per request.
	Timeout time.Duration
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// HTTPEmbedder produces dense sentence embeddings from an external service:
//
//	POST {url}  {"model": "...", "input": ["doc", ...]}
//	200         {"embeddings": [[0.1, ...], ...]}
//
// Calls go through a circuit breaker named "embedding-api".
type HTTPEmbedder struct {
	cfg     EmbeddingConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[][]float64]
	logger  zerolog.Logger
}

// NewHTTPEmbedder creates an embedder. client may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPEmbedder(cfg EmbeddingConfig, client *http.Client, logger zerolog.Logger) *HTTPEmbedder {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 32
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPEmbedder{
		cfg:     cfg,
		client:  client,
		breaker: breaker.New[[][]float64](breaker.DefaultConfig("embedding-api")),
		logger:  logger.With().Str("component", "embedding").Logger(),
	}
}

// Name returns the vectorizer identifier.
func (e *HTTPEmbedder) Name() string {
	return "embedding"
}

// Fit embeds every non-empty document in batches and memoizes the results,
// so vectorizing a corpus document afterwards makes no request.
func (e *HTTPEmbedder) Fit(ctx context.Context, docs []string) (recommend.Encoder, error) {
	unique := make([]string, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}

	memo := make(map[string]recommend.Vector, len(unique))
	dim := 0
	for start := 0; start < len(unique); start += e.cfg.BatchSize {
		end := min(start+e.cfg.BatchSize, len(unique))
		batch := unique[start:end]

		vecs, err := e.embed(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embed documents %d-%d: %w", start, end-1, err)
		}
		for i, v := range vecs {
			if dim == 0 {
				dim = len(v)
			} else if len(v) != dim {
				return nil, fmt.Errorf("embedding dimension changed from %d to %d", dim, len(v))
			}
			memo[batch[i]] = recommend.NewDense(v).Normalized()
		}
	}

	e.logger.Debug().Int("documents", len(unique)).Int("dimensions", dim).Msg("corpus embedded")
	return &embeddingModel{embedder: e, memo: memo}, nil
}

// embed sends one batch through the circuit breaker.
func (e *HTTPEmbedder) embed(ctx context.Context, inputs []string) ([][]float64, error) {
	vecs, err := breaker.Execute(e.breaker, func() ([][]float64, error) {
		return e.post(ctx, inputs)
	})
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(inputs) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d inputs", len(vecs), len(inputs))
	}
	return vecs, nil
}

func (e *HTTPEmbedder) post(ctx context.Context, inputs []string) ([][]float64, error) {
	body, err := json.Marshal(embedRequest{Model: e.cfg.Model, Input: inputs})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024)) //nolint:errcheck // best-effort error context
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Embeddings, nil
}

// embeddingModel serves memoized corpus vectors and embeds unseen text on demand.
type embeddingModel struct {
	embedder *HTTPEmbedder
	memo     map[string]recommend.Vector
}

// Vectorize returns the embedding of text. Blank text maps to the zero vector.
func (m *embeddingModel) Vectorize(ctx context.Context, text string) (recommend.Vector, error) {
	if strings.TrimSpace(text) == "" {
		return recommend.Vector{}, nil
	}
	if v, ok := m.memo[text]; ok {
		return v, nil
	}
	vecs, err := m.embedder.embed(ctx, []string{text})
	if err != nil {
		return recommend.Vector{}, err
	}
	return recommend.NewDense(vecs[0]).Normalized(), nil
}
