// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/animerec/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           "https://api.jikan.moe/v4",
			PageSize:          25,
			RequestsPerSecond: 2,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RetryDelay:        time.Second,
			UserAgent:         "AnimeRec/1.0",
		},
		Corpus: CorpusConfig{
			Backend:   "file",
			Path:      "anime_cache.json",
			BadgerDir: "/data/animerec",
			TTL:       24 * time.Hour,
			TopN:      500,
		},
		Recommend: RecommendConfig{
			Vectorizer:      "tfidf",
			DefaultK:        5,
			MaxK:            50,
			MatchThreshold:  60,
			SuggestionLimit: 5,
			WarmOnStartup:   true,
			RefreshInterval: 0,
			TFIDF: TFIDFConfig{
				NgramMax:    1,
				MinDF:       1,
				SublinearTF: false,
			},
			Embedding: EmbeddingConfig{
				URL:       "",
				Model:     "all-MiniLM-L6-v2",
				BatchSize: 32,
				Timeout:   30 * time.Second,
			},
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8501,
			Timeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf layers defaults, the optional YAML file and the environment,
// then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	"jikan_base_url":    "catalog.base_url",
	"jikan_page_size":   "catalog.page_size",
	"jikan_rps":         "catalog.requests_per_second",
	"jikan_timeout":     "catalog.timeout",
	"jikan_max_retries": "catalog.max_retries",
	"jikan_retry_delay": "catalog.retry_delay",
	"jikan_user_agent":  "catalog.user_agent",

	"corpus_backend":    "corpus.backend",
	"corpus_path":       "corpus.path",
	"corpus_badger_dir": "corpus.badger_dir",
	"corpus_ttl":        "corpus.ttl",
	"corpus_top_n":      "corpus.top_n",

	"tfidf_ngram_max":    "recommend.tfidf.ngram_max",
	"tfidf_min_df":       "recommend.tfidf.min_df",
	"tfidf_sublinear_tf": "recommend.tfidf.sublinear_tf",

	"embedding_url":        "recommend.embedding.url",
	"embedding_model":      "recommend.embedding.model",
	"embedding_batch_size": "recommend.embedding.batch_size",
	"embedding_timeout":    "recommend.embedding.timeout",

	"recommend_vectorizer":       "recommend.vectorizer",
	"recommend_default_k":        "recommend.default_k",
	"recommend_max_k":            "recommend.max_k",
	"recommend_match_threshold":  "recommend.match_threshold",
	"recommend_suggestion_limit": "recommend.suggestion_limit",
	"recommend_warm_on_startup":  "recommend.warm_on_startup",
	"recommend_refresh_interval": "recommend.refresh_interval",

	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps e.g. CORPUS_TTL -> corpus.ttl. Returning "" skips the variable.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
