// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"fmt"
	"time"
)

// Config contains engine settings. Persistence and transport settings live
// with their own components.
type Config struct {
	// DefaultK is used when a request asks for k <= 0.
	// Default: 5.
	DefaultK int `json:"default_k"`

	// MaxK caps k.
	// Default: 50.
	MaxK int `json:"max_k"`

	// MatchThreshold is the minimum resolver confidence on a 0-100 scale.
	// A best match scoring exactly the threshold is accepted.
	// Default: 60.
	MatchThreshold float64 `json:"match_threshold"`

	// SuggestionLimit bounds "did you mean" alternatives.
	// Default: 5.
	SuggestionLimit int `json:"suggestion_limit"`

	// TopN is how many titles a refresh fetches from the catalog.
	// Default: 500.
	TopN int `json:"top_n"`

	// TTL is reported in Status and decides Status.Stale. The store enforces
	// the same TTL on Load.
	// Default: 24h.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultK:        5,
		MaxK:            50,
		MatchThreshold:  60,
		SuggestionLimit: 5,
		TopN:            500,
		TTL:             24 * time.Hour,
	}
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k (%d) must be >= default_k (%d)", c.MaxK, c.DefaultK)
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 100 {
		return fmt.Errorf("match_threshold must be within [0, 100], got %v", c.MatchThreshold)
	}
	if c.SuggestionLimit < 1 {
		return fmt.Errorf("suggestion_limit must be positive, got %d", c.SuggestionLimit)
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("ttl must be positive, got %v", c.TTL)
	}
	return nil
}

// clampK applies DefaultK and MaxK.
func (c *Config) clampK(k int) int {
	if k <= 0 {
		k = c.DefaultK
	}
	if k > c.MaxK {
		k = c.MaxK
	}
	return k
}
