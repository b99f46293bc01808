// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package config loads AnimeRec configuration from built-in defaults, an
// optional YAML file and environment variables, in that order of precedence
// (environment wins).
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//
// Config is immutable after Load and safe for concurrent reads.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	Corpus    CorpusConfig    `koanf:"corpus"`
	Recommend RecommendConfig `koanf:"recommend"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// CatalogConfig configures the Jikan catalog client.
type CatalogConfig struct {
	// BaseURL of the Jikan v4 API, without trailing slash.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// PageSize is the number of entries requested per page. Jikan caps it at 25.
	PageSize int `koanf:"page_size" validate:"min=1,max=25"`

	// RequestsPerSecond paces page requests. Jikan allows 3/s and 60/min.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0,lte=3"`

	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries" validate:"min=0,max=10"`
	RetryDelay time.Duration `koanf:"retry_delay"`
	UserAgent  string        `koanf:"user_agent"`
}

// CorpusConfig configures corpus persistence and staleness.
type CorpusConfig struct {
	// Backend selects the store: file or badger.
	Backend string `koanf:"backend" validate:"oneof=file badger"`

	// Path of the JSON cache file (file backend).
	Path string `koanf:"path"`

	// BadgerDir is the BadgerDB directory (badger backend).
	BadgerDir string `koanf:"badger_dir"`

	// TTL is the maximum age of a cached corpus before it is refetched.
	// Default: 24h.
	TTL time.Duration `koanf:"ttl"`

	// TopN is how many top ranked titles to fetch.
	TopN int `koanf:"top_n" validate:"min=1,max=5000"`
}

// RecommendConfig configures the recommendation engine.
type RecommendConfig struct {
	// Vectorizer selects the text representation: tfidf or embedding.
	Vectorizer string `koanf:"vectorizer" validate:"oneof=tfidf embedding"`

	// DefaultK is used when a request does not specify k.
	DefaultK int `koanf:"default_k" validate:"min=1"`

	// MaxK caps k.
	MaxK int `koanf:"max_k" validate:"min=1"`

	// MatchThreshold is the minimum resolver confidence (0-100) accepted as a match.
	MatchThreshold float64 `koanf:"match_threshold" validate:"gte=0,lte=100"`

	// SuggestionLimit bounds "did you mean" candidates.
	SuggestionLimit int `koanf:"suggestion_limit" validate:"min=1,max=50"`

	// WarmOnStartup loads the corpus and builds vectors before serving.
	WarmOnStartup bool `koanf:"warm_on_startup"`

	// RefreshInterval enables periodic background refresh when > 0.
	// Default: 0 (disabled, corpus refreshes lazily on the first stale request).
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	TFIDF     TFIDFConfig     `koanf:"tfidf"`
	Embedding EmbeddingConfig `koanf:"embedding"`
}

// TFIDFConfig configures the sparse vectorizer.
type TFIDFConfig struct {
	NgramMax    int  `koanf:"ngram_max" validate:"min=1,max=3"`
	MinDF       int  `koanf:"min_df" validate:"min=1"`
	SublinearTF bool `koanf:"sublinear_tf"`
}

// EmbeddingConfig configures the dense embedding vectorizer.
type EmbeddingConfig struct {
	URL       string        `koanf:"url"`
	Model     string        `koanf:"model"`
	BatchSize int           `koanf:"batch_size" validate:"min=1,max=512"`
	Timeout   time.Duration `koanf:"timeout"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Load is the entry point used by main.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
