// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/catalog"
	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/recommend/algorithms"
	"github.com/tomtom215/animerec/internal/recommend/storage"
	"github.com/tomtom215/animerec/internal/supervisor"
	"github.com/tomtom215/animerec/internal/supervisor/services"
)

// RecommendComponents holds the recommendation components built at startup.
type RecommendComponents struct {
	Engine  *recommend.Engine
	Service *services.CorpusService

	// closeStore releases the corpus store. Never nil.
	closeStore func() error
}

// Close releases resources held by the components.
func (c *RecommendComponents) Close() error {
	return c.closeStore()
}

// initRecommend builds store, fetcher, vectorizer and engine, and registers
// the corpus service with the supervisor tree.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, logger zerolog.Logger, tree *supervisor.SupervisorTree) (*RecommendComponents, error) {
	logger.Info().
		Str("backend", cfg.Corpus.Backend).
		Str("vectorizer", cfg.Recommend.Vectorizer).
		Int("top_n", cfg.Corpus.TopN).
		Dur("ttl", cfg.Corpus.TTL).
		Msg("initializing recommendation engine")

	store, closeStore, err := buildStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	fetcher := catalog.NewCircuitBreakerClient(catalog.NewClient(&cfg.Catalog, logger))

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), recommend.Options{
		Store:      store,
		Fetcher:    fetcher,
		Vectorizer: buildVectorizer(cfg, logger),
		Match:      algorithms.WRatio,
		Normalize:  algorithms.Normalize,
	}, logger)
	if err != nil {
		_ = closeStore() //nolint:errcheck // already failing
		return nil, fmt.Errorf("create engine: %w", err)
	}

	svc := services.NewCorpusService(engine, services.CorpusServiceConfig{
		WarmOnStartup:   cfg.Recommend.WarmOnStartup,
		RefreshInterval: cfg.Recommend.RefreshInterval,
	}, logger)
	tree.AddCorpusService(svc)

	logger.Info().
		Bool("warm_on_startup", cfg.Recommend.WarmOnStartup).
		Dur("refresh_interval", cfg.Recommend.RefreshInterval).
		Msg("corpus service added to supervisor tree")

	return &RecommendComponents{
		Engine:     engine,
		Service:    svc,
		closeStore: closeStore,
	}, nil
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func buildStore(cfg *config.Config, logger zerolog.Logger) (recommend.CorpusStore, func() error, error) {
	opts := storage.Options{TTL: cfg.Corpus.TTL}

	switch cfg.Corpus.Backend {
	case "badger":
		db, err := storage.OpenBadger(cfg.Corpus.BadgerDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open corpus badger store: %w", err)
		}
		logger.Info().Str("dir", cfg.Corpus.BadgerDir).Msg("corpus store: badger")
		return storage.NewBadgerStore(db, opts), db.Close, nil
	default:
		logger.Info().Str("path", cfg.Corpus.Path).Msg("corpus store: file")
		return storage.NewFileStore(cfg.Corpus.Path, opts), func() error { return nil }, nil
	}
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func buildVectorizer(cfg *config.Config, logger zerolog.Logger) recommend.Vectorizer {
	if cfg.Recommend.Vectorizer == "embedding" {
		e := cfg.Recommend.Embedding
		logger.Info().Str("url", e.URL).Str("model", e.Model).Msg("vectorizer: embedding")
		return algorithms.NewHTTPEmbedder(algorithms.EmbeddingConfig{
			URL:       e.URL,
			Model:     e.Model,
			BatchSize: e.BatchSize,
			Timeout:   e.Timeout,
		}, nil, logger)
	}

	t := cfg.Recommend.TFIDF
	logger.Info().Int("ngram_max", t.NgramMax).Int("min_df", t.MinDF).Msg("vectorizer: tfidf")
	return algorithms.NewTFIDF(algorithms.TFIDFConfig{
		NgramMax:    t.NgramMax,
		MinDF:       t.MinDF,
		SublinearTF: t.SublinearTF,
	})
}

func buildEngineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		DefaultK:        cfg.Recommend.DefaultK,
		MaxK:            cfg.Recommend.MaxK,
		MatchThreshold:  cfg.Recommend.MatchThreshold,
		SuggestionLimit: cfg.Recommend.SuggestionLimit,
		TopN:            cfg.Corpus.TopN,
		TTL:             cfg.Corpus.TTL,
	}
}
