// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/animerec/internal/validation"
)

// Rate limit bounds.
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// Validate checks struct tag rules first, then cross-field constraints.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	validators := []func() error{
		c.validateCatalog,
		c.validateCorpus,
		c.validateRecommend,
		c.validateServer,
		c.validateRateLimits,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("JIKAN_TIMEOUT must be positive")
	}
	if c.Catalog.MaxRetries > 0 && c.Catalog.RetryDelay <= 0 {
		return fmt.Errorf("JIKAN_RETRY_DELAY must be positive when retries are enabled")
	}
	return nil
}

func (c *Config) validateCorpus() error {
	if c.Corpus.TTL <= 0 {
		return fmt.Errorf("CORPUS_TTL must be positive")
	}
	switch c.Corpus.Backend {
	case "file":
		if c.Corpus.Path == "" {
			return fmt.Errorf("CORPUS_PATH is required for the file backend")
		}
	case "badger":
		if c.Corpus.BadgerDir == "" {
			return fmt.Errorf("CORPUS_BADGER_DIR is required for the badger backend")
		}
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultK > r.MaxK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K (%d) must not exceed RECOMMEND_MAX_K (%d)", r.DefaultK, r.MaxK)
	}
	if r.RefreshInterval < 0 {
		return fmt.Errorf("RECOMMEND_REFRESH_INTERVAL must not be negative")
	}
	if r.Vectorizer == "embedding" {
		if r.Embedding.URL == "" {
			return fmt.Errorf("EMBEDDING_URL is required when RECOMMEND_VECTORIZER=embedding")
		}
		if r.Embedding.Timeout <= 0 {
			return fmt.Errorf("EMBEDDING_TIMEOUT must be positive")
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any allowed origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
