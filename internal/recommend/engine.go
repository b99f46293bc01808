// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/metrics"
)

// fetchRetryInterval is how long a stale snapshot keeps being served after a
// failed catalog fetch before the next attempt.
const fetchRetryInterval = 5 * time.Minute

// Options wires the engine's collaborators. Store, Fetcher, Vectorizer and
// Match are required.
type Options struct {
	Store      CorpusStore
	Fetcher    CorpusFetcher
	Vectorizer Vectorizer
	Match      MatchFunc

	// Normalize folds titles for the autocomplete index. Defaults to lowercase.
	Normalize func(string) string
}

// Completion is one autocomplete hit.
type Completion struct {
	ID int `json:"id"`

	// Title is the primary title of the record.
	Title string `json:"title"`

	// Matched is the title (primary or alternate) that matched the prefix.
	Matched string `json:"matched"`
}

// Engine serves recommendations from an atomically swapped snapshot.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	store      CorpusStore
	fetcher    CorpusFetcher
	vectorizer Vectorizer
	match      MatchFunc
	normalize  func(string) string
	now        func() time.Time

	current   atomic.Pointer[snapshot]
	refreshMu sync.Mutex

	// lastFetchFailure holds UnixNano of the latest failed fetch, 0 after success.
	lastFetchFailure atomic.Int64

	requestCount  atomic.Int64
	noMatchCount  atomic.Int64
	errorCount    atomic.Int64
	refreshCount  atomic.Int64
	fallbackCount atomic.Int64
	rebuildCount  atomic.Int64
}

// NewEngine creates an engine. No I/O happens until the first call that needs
// the corpus (or Warm).
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, opts Options, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	switch {
	case opts.Store == nil:
		return nil, errors.New("corpus store is required")
	case opts.Fetcher == nil:
		return nil, errors.New("corpus fetcher is required")
	case opts.Vectorizer == nil:
		return nil, errors.New("vectorizer is required")
	case opts.Match == nil:
		return nil, errors.New("match function is required")
	}

	normalize := opts.Normalize
	if normalize == nil {
		normalize = strings.ToLower
	}

	return &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		store:      opts.Store,
		fetcher:    opts.Fetcher,
		vectorizer: opts.Vectorizer,
		match:      opts.Match,
		normalize:  normalize,
		now:        time.Now,
	}, nil
}

// Recommend resolves query to a title and returns up to k similar titles.
// k <= 0 uses the configured default; k above MaxK is capped.
func (e *Engine) Recommend(ctx context.Context, query string, k int) (*Recommendation, error) {
	start := time.Now()
	e.requestCount.Add(1)
	ctx, requestID := logging.EnsureRequestID(ctx)
	logger := e.logger.With().Str("request_id", requestID).Str("query", query).Logger()

	rec, err := e.recommend(ctx, query, k, requestID, start)
	outcome := outcomeFor(err)
	metrics.RecordRecommend(outcome, time.Since(start))

	if err != nil {
		var nm *NoConfidentMatchError
		if errors.As(err, &nm) {
			e.noMatchCount.Add(1)
			logger.Info().
				Str("suggestion", nm.Suggestion).
				Float64("confidence", nm.Confidence).
				Msg("no confident title match")
		} else if outcome != "invalid" {
			e.errorCount.Add(1)
			logger.Warn().Err(err).Msg("recommendation failed")
		}
		return nil, err
	}

	logger.Debug().
		Str("resolved", rec.ResolvedTitle).
		Float64("confidence", rec.Confidence).
		Int("returned", len(rec.Results)).
		Int64("latency_ms", rec.Metadata.LatencyMS).
		Msg("recommendation complete")
	return rec, nil
}

func (e *Engine) recommend(ctx context.Context, query string, k int, requestID string, start time.Time) (*Recommendation, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}

	snap, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}

	match, err := snap.resolver.Resolve(query)
	if err != nil {
		return nil, err
	}
	metrics.RecordResolverConfidence(match.Confidence)

	ranked := TopK(snap.space, match.Index, e.config.clampK(k))
	results := make([]Result, len(ranked))
	for i, r := range ranked {
		rec := &snap.corpus.Records[r.Index]
		results[i] = Result{
			ID:           rec.ID,
			Title:        rec.Title,
			TitleEnglish: rec.TitleEnglish,
			Genres:       slices.Clone(rec.Genres),
			Synopsis:     rec.Synopsis,
			ImageURL:     rec.ImageURL,
			Score:        r.Score,
		}
	}

	return &Recommendation{
		Query:            query,
		ResolvedTitle:    match.Title,
		ResolvedID:       match.ID,
		Confidence:       match.Confidence,
		Results:          results,
		CorpusAgeSeconds: e.store.Freshness(snap.corpus).Seconds(),
		CorpusFetchedAt:  snap.corpus.FetchedAt,
		Metadata: ResponseMetadata{
			RequestID:     requestID,
			LatencyMS:     time.Since(start).Milliseconds(),
			Vectorizer:    snap.space.Vectorizer,
			CorpusVersion: snap.version,
		},
	}, nil
}

// Suggest returns "did you mean" candidates for query. limit <= 0 uses SuggestionLimit.
func (e *Engine) Suggest(ctx context.Context, query string, limit int) ([]Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}
	snap, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > e.config.MaxK {
		limit = e.config.SuggestionLimit
	}
	return snap.resolver.Suggest(query, limit), nil
}

// Complete returns titles starting with prefix, in catalog rank order.
func (e *Engine) Complete(ctx context.Context, prefix string, limit int) ([]Completion, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, ErrInvalidQuery
	}
	snap, err := e.ensure(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > e.config.MaxK {
		limit = e.config.DefaultK
	}

	hits := snap.titles.Autocomplete(prefix, limit)
	out := make([]Completion, len(hits))
	for i, h := range hits {
		rec := &snap.corpus.Records[h.Index]
		out[i] = Completion{ID: rec.ID, Title: rec.Title, Matched: h.Value}
	}
	return out, nil
}

// Warm loads or fetches the corpus and builds the vector space.
func (e *Engine) Warm(ctx context.Context) error {
	_, err := e.ensure(ctx)
	return err
}

// Refresh refetches the catalog regardless of cache age and swaps in the
// result. When the fetch fails and a snapshot is already active, that
// snapshot keeps serving and the fetch error is returned.
func (e *Engine) Refresh(ctx context.Context) (Status, error) {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	if _, err := e.reload(ctx, true); err != nil {
		return e.Status(), err
	}
	return e.Status(), nil
}

// Status describes the active snapshot without triggering any I/O.
func (e *Engine) Status() Status {
	st := Status{
		TTLSeconds: e.config.TTL.Seconds(),
		Stats:      e.Stats(),
	}
	snap := e.current.Load()
	if snap == nil {
		return st
	}
	age := e.store.Freshness(snap.corpus)
	st.Ready = true
	st.Titles = snap.corpus.Len()
	st.FetchedAt = snap.corpus.FetchedAt
	st.AgeSeconds = age.Seconds()
	st.Stale = age > e.config.TTL
	st.CorpusVersion = snap.version
	st.Vectorizer = snap.space.Vectorizer
	st.BuiltAt = snap.space.BuiltAt
	return st
}

// Stats returns cumulative counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:  e.requestCount.Load(),
		NoMatch:   e.noMatchCount.Load(),
		Errors:    e.errorCount.Load(),
		Refreshes: e.refreshCount.Load(),
		Fallbacks: e.fallbackCount.Load(),
		Rebuilds:  e.rebuildCount.Load(),
	}
}

// ensure returns a current snapshot, reloading under refreshMu when the
// active one is missing or expired.
func (e *Engine) ensure(ctx context.Context) (*snapshot, error) {
	if snap := e.current.Load(); snap != nil && e.usable(snap) {
		return snap, nil
	}

	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	// another caller may have reloaded while we waited
	if snap := e.current.Load(); snap != nil && e.usable(snap) {
		return snap, nil
	}
	return e.reload(ctx, false)
}

// usable reports whether snap can serve without a reload: it is fresh, or a
// recent fetch failed and the retry interval has not elapsed.
func (e *Engine) usable(snap *snapshot) bool {
	if e.store.Freshness(snap.corpus) <= e.config.TTL {
		return true
	}
	failedAt := e.lastFetchFailure.Load()
	return failedAt != 0 && e.now().Sub(time.Unix(0, failedAt)) < fetchRetryInterval
}

// reload must be called with refreshMu held.
func (e *Engine) reload(ctx context.Context, force bool) (*snapshot, error) {
	corpus, err := e.obtainCorpus(ctx, force)
	if err != nil {
		return nil, err
	}
	if corpus.Len() == 0 {
		return nil, ErrEmptyCorpus
	}

	snap, err := e.buildSnapshot(ctx, corpus)
	if err != nil {
		return nil, err
	}
	e.current.Store(snap)
	e.refreshCount.Add(1)
	metrics.SetActiveCorpus(corpus.Len(), corpus.FetchedAt)

	e.logger.Info().
		Int("titles", corpus.Len()).
		Time("fetched_at", corpus.FetchedAt).
		Str("version", snap.version).
		Msg("corpus snapshot active")
	return snap, nil
}

// obtainCorpus tries the store (unless force), then the catalog, then older
// data. Must be called with refreshMu held.
func (e *Engine) obtainCorpus(ctx context.Context, force bool) (*Corpus, error) {
	if !force {
		c, err := e.store.Load(ctx)
		switch {
		case err == nil && c.Len() > 0:
			return c, nil
		case err != nil && !errors.Is(err, ErrStaleOrMissing):
			e.logger.Warn().Err(err).Msg("corpus store load failed, refetching")
		default:
			e.logger.Info().Msg("cached corpus stale or missing, fetching catalog")
		}
	}

	records, fetchErr := e.fetcher.FetchTop(ctx, e.config.TopN)
	if fetchErr == nil && len(records) > 0 {
		e.lastFetchFailure.Store(0)
		c := &Corpus{FetchedAt: records[0].FetchedAt, Records: records}
		if c.FetchedAt.IsZero() {
			c.FetchedAt = e.now()
		}
		if err := e.store.Save(ctx, c); err != nil {
			e.logger.Error().Err(err).Msg("failed to persist corpus, serving from memory")
		}
		return c, nil
	}

	if fetchErr != nil {
		e.lastFetchFailure.Store(e.now().UnixNano())
		e.logger.Warn().Err(fetchErr).Msg("catalog fetch failed")
		if force && e.current.Load() != nil {
			return nil, wrapFetchErr(fetchErr)
		}
	}

	if c, err := e.store.LoadAny(ctx); err == nil && c.Len() > 0 {
		e.fallbackCount.Add(1)
		metrics.RecordFallback("store")
		e.logger.Warn().Time("fetched_at", c.FetchedAt).Msg("serving expired cached corpus")
		return c, nil
	}
	if snap := e.current.Load(); snap != nil {
		e.fallbackCount.Add(1)
		metrics.RecordFallback("memory")
		e.logger.Warn().Time("fetched_at", snap.corpus.FetchedAt).Msg("serving in-memory corpus")
		return snap.corpus, nil
	}

	if fetchErr == nil {
		return nil, ErrEmptyCorpus
	}
	return nil, wrapFetchErr(fetchErr)
}

func wrapFetchErr(err error) error {
	if errors.Is(err, ErrFetchFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrFetchFailed, err)
}

// buildSnapshot reuses the previous vector space when the content hash is unchanged.
func (e *Engine) buildSnapshot(ctx context.Context, corpus *Corpus) (*snapshot, error) {
	version := CorpusVersion(corpus)

	if prev := e.current.Load(); prev != nil && prev.version == version {
		next := *prev
		next.corpus = corpus
		next.resolver = NewResolver(corpus, e.match, e.config.MatchThreshold, e.config.SuggestionLimit)
		return &next, nil
	}

	start := time.Now()
	space, err := Build(ctx, e.vectorizer, corpus)
	if err != nil {
		return nil, fmt.Errorf("build vector space: %w", err)
	}
	if space.Len() != corpus.Len() {
		return nil, fmt.Errorf("vector space has %d vectors for %d titles", space.Len(), corpus.Len())
	}
	elapsed := time.Since(start)
	metrics.RecordVectorBuild(space.Vectorizer, elapsed)
	e.rebuildCount.Add(1)

	e.logger.Info().
		Str("vectorizer", space.Vectorizer).
		Int("vectors", space.Len()).
		Dur("duration", elapsed).
		Msg("vector space built")

	return &snapshot{
		corpus:   corpus,
		version:  version,
		space:    space,
		resolver: NewResolver(corpus, e.match, e.config.MatchThreshold, e.config.SuggestionLimit),
		titles:   buildTitleTrie(corpus, e.normalize),
	}, nil
}

// outcomeFor labels an error for metrics.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidQuery):
		return "invalid"
	case errors.Is(err, ErrNoConfidentMatch):
		return "no_match"
	case errors.Is(err, ErrEmptyCorpus):
		return "empty_corpus"
	case errors.Is(err, ErrFetchFailed):
		return "fetch_failed"
	default:
		return "error"
	}
}
