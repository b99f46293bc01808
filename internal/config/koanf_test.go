// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points CONFIG_PATH at a missing file and moves into an empty
// directory so no stray config.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	return dir
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.Corpus.TTL != 24*time.Hour {
		t.Errorf("Corpus.TTL = %v, want 24h", cfg.Corpus.TTL)
	}
	if cfg.Recommend.MatchThreshold != 60 {
		t.Errorf("Recommend.MatchThreshold = %v, want 60", cfg.Recommend.MatchThreshold)
	}
	if cfg.Recommend.DefaultK != 5 {
		t.Errorf("Recommend.DefaultK = %d, want 5", cfg.Recommend.DefaultK)
	}
	if cfg.Catalog.PageSize != 25 {
		t.Errorf("Catalog.PageSize = %d, want 25", cfg.Catalog.PageSize)
	}
}

func TestLoadWithKoanfDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Corpus.Backend != "file" || cfg.Corpus.Path != "anime_cache.json" {
		t.Errorf("unexpected corpus config: %+v", cfg.Corpus)
	}
	if cfg.Server.Port != 8501 {
		t.Errorf("Server.Port = %d, want 8501", cfg.Server.Port)
	}
}

func TestLoadWithKoanfEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CORPUS_TTL", "2h")
	t.Setenv("CORPUS_BACKEND", "badger")
	t.Setenv("CORPUS_BADGER_DIR", "/tmp/animerec")
	t.Setenv("RECOMMEND_MATCH_THRESHOLD", "72.5")
	t.Setenv("RECOMMEND_DEFAULT_K", "3")
	t.Setenv("JIKAN_RPS", "1")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Corpus.TTL != 2*time.Hour {
		t.Errorf("Corpus.TTL = %v, want 2h", cfg.Corpus.TTL)
	}
	if cfg.Corpus.Backend != "badger" || cfg.Corpus.BadgerDir != "/tmp/animerec" {
		t.Errorf("unexpected corpus config: %+v", cfg.Corpus)
	}
	if cfg.Recommend.MatchThreshold != 72.5 {
		t.Errorf("MatchThreshold = %v, want 72.5", cfg.Recommend.MatchThreshold)
	}
	if cfg.Recommend.DefaultK != 3 {
		t.Errorf("DefaultK = %d, want 3", cfg.Recommend.DefaultK)
	}
	if cfg.Catalog.RequestsPerSecond != 1 {
		t.Errorf("RequestsPerSecond = %v, want 1", cfg.Catalog.RequestsPerSecond)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfFileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	yaml := `
corpus:
  ttl: 6h
  top_n: 100
recommend:
  vectorizer: tfidf
  tfidf:
    ngram_max: 2
server:
  port: 9000
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Corpus.TTL != 6*time.Hour || cfg.Corpus.TopN != 100 {
		t.Errorf("file values not applied: %+v", cfg.Corpus)
	}
	if cfg.Recommend.TFIDF.NgramMax != 2 {
		t.Errorf("NgramMax = %d, want 2", cfg.Recommend.TFIDF.NgramMax)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("env should override file: port = %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Corpus.Backend = "s3" }, "corpus.backend must be one of"},
		{"zero ttl", func(c *Config) { c.Corpus.TTL = 0 }, "CORPUS_TTL"},
		{"threshold too high", func(c *Config) { c.Recommend.MatchThreshold = 101 }, "recommend.match_threshold"},
		{"default k above max", func(c *Config) { c.Recommend.DefaultK = 60 }, "RECOMMEND_DEFAULT_K"},
		{"embedding without url", func(c *Config) { c.Recommend.Vectorizer = "embedding" }, "EMBEDDING_URL"},
		{"jikan rps above provider cap", func(c *Config) { c.Catalog.RequestsPerSecond = 5 }, "catalog.requests_per_second"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"rate limit window", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	if got := envTransformFunc("CORPUS_TTL"); got != "corpus.ttl" {
		t.Errorf("CORPUS_TTL -> %q", got)
	}
	if got := envTransformFunc("HOME"); got != "" {
		t.Errorf("unmapped variable should be skipped, got %q", got)
	}
}

func TestHasWildcardCORS(t *testing.T) {
	cfg := defaultConfig()
	if !cfg.HasWildcardCORS() {
		t.Error("default CORS should be wildcard")
	}
	cfg.Security.CORSOrigins = []string{"https://anime.example"}
	if cfg.HasWildcardCORS() {
		t.Error("explicit origin reported as wildcard")
	}
}
