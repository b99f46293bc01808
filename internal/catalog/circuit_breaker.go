// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package catalog

import (
	"context"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/animerec/internal/breaker"
	"github.com/tomtom215/animerec/internal/recommend"
)

// BreakerName labels the Jikan breaker in metrics.
const BreakerName = "jikan-api"

// Fetcher is the subset of Client used by the breaker wrapper.
type Fetcher interface {
	FetchTop(ctx context.Context, n int) ([]recommend.TitleRecord, error)
}

// CircuitBreakerClient wraps a catalog fetcher with a circuit breaker so a
// down or throttling Jikan fails fast and the engine falls back to its cache.
type CircuitBreakerClient struct {
	fetcher Fetcher
	cb      *gobreaker.CircuitBreaker[[]recommend.TitleRecord]
}

// NewCircuitBreakerClient wraps fetcher with the default breaker settings.
func NewCircuitBreakerClient(fetcher Fetcher) *CircuitBreakerClient {
	return NewCircuitBreakerClientWithConfig(fetcher, breaker.DefaultConfig(BreakerName))
}

// NewCircuitBreakerClientWithConfig wraps fetcher with custom breaker settings.
func NewCircuitBreakerClientWithConfig(fetcher Fetcher, cfg breaker.Config) *CircuitBreakerClient {
	return &CircuitBreakerClient{
		fetcher: fetcher,
		cb:      breaker.New[[]recommend.TitleRecord](cfg),
	}
}

// FetchTop delegates through the breaker. A rejected call wraps
// recommend.ErrFetchFailed.
func (c *CircuitBreakerClient) FetchTop(ctx context.Context, n int) ([]recommend.TitleRecord, error) {
	records, err := breaker.Execute(c.cb, func() ([]recommend.TitleRecord, error) {
		return c.fetcher.FetchTop(ctx, n)
	})
	if err != nil && breaker.IsRejection(err) {
		return nil, fmt.Errorf("%w: %w", recommend.ErrFetchFailed, err)
	}
	return records, err
}

// State returns the breaker state ("closed", "half-open" or "open").
func (c *CircuitBreakerClient) State() string {
	return c.cb.State().String()
}
