// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/recommend"
)

// CorpusEngine is the engine surface the corpus service drives.
type CorpusEngine interface {
	Warm(ctx context.Context) error
	Refresh(ctx context.Context) (recommend.Status, error)
}

// CorpusServiceConfig controls warmup and background refresh.
type CorpusServiceConfig struct {
	// WarmOnStartup loads the corpus and builds vectors before the first request.
	WarmOnStartup bool

	// WarmRetryDelay is the wait between failed warmups.
	// Default: 30s
	WarmRetryDelay time.Duration

	// RefreshInterval forces a refetch on this period when > 0.
	RefreshInterval time.Duration

	// OperationTimeout bounds one warmup or refresh.
	// Default: 10m
	OperationTimeout time.Duration
}

// CorpusService keeps the engine's corpus warm under supervision.
type CorpusService struct {
	engine CorpusEngine
	config CorpusServiceConfig
	logger zerolog.Logger
	name   string
}

// NewCorpusService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCorpusService(engine CorpusEngine, cfg CorpusServiceConfig, logger zerolog.Logger) *CorpusService {
	if cfg.WarmRetryDelay <= 0 {
		cfg.WarmRetryDelay = 30 * time.Second
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 10 * time.Minute
	}
	return &CorpusService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "corpus").Logger(),
		name:   "corpus-service",
	}
}

// Serve warms the engine (retrying until it succeeds) and then refreshes on
// the configured interval until ctx is canceled. Failures are logged; the
// engine keeps serving whatever corpus it has.
func (s *CorpusService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("warm_on_startup", s.config.WarmOnStartup).
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("corpus service starting")

	if s.config.WarmOnStartup {
		if err := s.warmUntilReady(ctx); err != nil {
			return err
		}
	}

	if s.config.RefreshInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("corpus service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// warmUntilReady returns nil once Warm succeeds, or ctx.Err() on shutdown.
func (s *CorpusService) warmUntilReady(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		start := time.Now()
		opCtx, cancel := context.WithTimeout(ctx, s.config.OperationTimeout)
		err := s.engine.Warm(opCtx)
		cancel()

		if err == nil {
			s.logger.Info().Dur("duration", time.Since(start)).Int("attempt", attempt).Msg("corpus warm")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.logger.Warn().Err(err).
			Int("attempt", attempt).
			Dur("retry_in", s.config.WarmRetryDelay).
			Msg("corpus warmup failed, serving will load lazily")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.config.WarmRetryDelay):
		}
	}
}

func (s *CorpusService) refresh(ctx context.Context) {
	start := time.Now()
	opCtx, cancel := context.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	status, err := s.engine.Refresh(opCtx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("scheduled corpus refresh failed, keeping current corpus")
		return
	}
	s.logger.Info().
		Int("titles", status.Titles).
		Str("corpus_version", status.CorpusVersion).
		Dur("duration", time.Since(start)).
		Msg("scheduled corpus refresh complete")
}

func (s *CorpusService) String() string {
	return s.name
}
