// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package catalog fetches the top ranked anime from the Jikan v4 API
(an unofficial MyAnimeList API) and converts them into corpus records.

Client Features:
  - Paginated GET {base}/top/anime?page=P&limit=25
  - Request pacing with a token bucket (Jikan allows 3 req/s, 60 req/min)
  - HTTP 429 and 5xx retries with exponential backoff, honoring Retry-After
  - Partial results when a page after the first fails
  - Circuit breaker wrapper (CircuitBreakerClient)

Entries without an id or title are skipped; a null synopsis or missing
genres become empty values; a repeated id keeps its first occurrence.
*/
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/recommend"
)

// maxErrorBodySize limits the response body read for error reporting.
const maxErrorBodySize = 64 * 1024

// maxRetryAfter caps a server-provided Retry-After.
const maxRetryAfter = time.Minute

// maxPageFailures ends pagination after this many failed pages in a row.
const maxPageFailures = 3

// readBodyForError reads at most 64KB of r for an error message.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Client is a Jikan API client. It is safe for concurrent use, though
// concurrent fetches share one rate limiter.
type Client struct {
	baseURL    string
	pageSize   int
	userAgent  string
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
	now        func() time.Time
}

// NewClient creates a client from catalog configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg *config.CatalogConfig, logger zerolog.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 25 {
		pageSize = 25
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		pageSize:   pageSize,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		retryDelay: retryDelay,
		client:     &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger.With().Str("component", "catalog").Logger(),
		now:        time.Now,
	}
}

// FetchTop returns up to n top ranked titles in rank order. A failure on the
// first page, or no valid entries at all, wraps recommend.ErrFetchFailed.
// A failed later page is skipped; pagination stops after maxPageFailures
// failures in a row and keeps the titles gathered so far.
func (c *Client) FetchTop(ctx context.Context, n int) ([]recommend.TitleRecord, error) {
	start := time.Now()
	records, skipped, err := c.fetchTop(ctx, n)
	metrics.RecordCorpusFetch(time.Since(start), skipped, err)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Int("titles", len(records)).
		Int("skipped", skipped).
		Dur("duration", time.Since(start)).
		Msg("catalog fetched")
	return records, nil
}

func (c *Client) fetchTop(ctx context.Context, n int) ([]recommend.TitleRecord, int, error) {
	if n <= 0 {
		return nil, 0, fmt.Errorf("%w: requested %d titles", recommend.ErrFetchFailed, n)
	}

	fetchedAt := c.now().UTC()
	// a little slack covers pages thinned out by skipped entries
	maxPages := (n+c.pageSize-1)/c.pageSize + 2
	records := make([]recommend.TitleRecord, 0, n)
	seen := make(map[int]struct{}, n)
	skipped := 0
	failures := 0

	for page := 1; page <= maxPages && len(records) < n; page++ {
		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			if page == 1 {
				return nil, skipped, fmt.Errorf("%w: page 1: %w", recommend.ErrFetchFailed, err)
			}
			if ctx.Err() != nil {
				break
			}
			failures++
			c.logger.Warn().Err(err).Int("page", page).Int("titles", len(records)).
				Msg("catalog page failed, skipping to next page")
			if failures >= maxPageFailures {
				break
			}
			continue
		}
		failures = 0

		for i := range resp.Data {
			if len(records) == n {
				break
			}
			rec, ok := toRecord(&resp.Data[i], fetchedAt)
			if !ok {
				skipped++
				continue
			}
			if _, dup := seen[rec.ID]; dup {
				skipped++
				continue
			}
			seen[rec.ID] = struct{}{}
			records = append(records, rec)
		}

		c.logger.Debug().Int("page", page).Int("entries", len(resp.Data)).Int("titles", len(records)).Msg("catalog page fetched")
		if !resp.Pagination.HasNextPage {
			break
		}
	}

	if len(records) == 0 {
		return nil, skipped, fmt.Errorf("%w: no valid entries returned", recommend.ErrFetchFailed)
	}
	return records, skipped, nil
}

// toRecord converts an entry, reporting false when it lacks an id or title.
func toRecord(a *Anime, fetchedAt time.Time) (recommend.TitleRecord, bool) {
	title := strings.TrimSpace(a.Title)
	if a.MalID <= 0 || title == "" {
		return recommend.TitleRecord{}, false
	}

	genres := make([]string, 0, len(a.Genres))
	for _, g := range a.Genres {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}

	var synonyms []string
	for _, s := range a.TitleSynonyms {
		if s = strings.TrimSpace(s); s != "" {
			synonyms = append(synonyms, s)
		}
	}

	rec := recommend.TitleRecord{
		ID:            a.MalID,
		Title:         title,
		TitleSynonyms: synonyms,
		Genres:        genres,
		ImageURL:      a.Images.JPG.ImageURL,
		FetchedAt:     fetchedAt,
	}
	if a.TitleEnglish != nil && strings.TrimSpace(*a.TitleEnglish) != "" {
		en := strings.TrimSpace(*a.TitleEnglish)
		rec.TitleEnglish = &en
	}
	if a.TitleJapanese != nil {
		rec.TitleJapanese = strings.TrimSpace(*a.TitleJapanese)
	}
	if a.Synopsis != nil {
		rec.Synopsis = strings.TrimSpace(*a.Synopsis)
	}
	return rec, true
}

// fetchPage requests and decodes one page.
func (c *Client) fetchPage(ctx context.Context, page int) (*TopAnimeResponse, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(c.pageSize))
	reqURL := fmt.Sprintf("%s/top/anime?%s", c.baseURL, params.Encode())

	resp, err := c.doRequestWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("top anime page %d failed with status %d: %s", page, resp.StatusCode, describeError(body))
	}

	var out TopAnimeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode top anime page %d: %w", page, err)
	}
	return &out, nil
}

// doRequestWithRetry paces requests through the limiter and retries HTTP 429
// and 5xx responses with exponential backoff (retryDelay, 2x, 4x, ...).
func (c *Client) doRequestWithRetry(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordCatalogRequest("error")
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		metrics.RecordCatalogRequest(strconv.Itoa(resp.StatusCode))

		if !retryable(resp.StatusCode) {
			return resp, nil
		}
		if attempt >= c.maxRetries {
			return resp, nil
		}
		_ = resp.Body.Close() //nolint:errcheck // retrying anyway

		delay := c.retryDelay * time.Duration(1<<uint(attempt)) //nolint:gosec // attempt is bounded by maxRetries
		if d, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok {
			delay = d
		}
		c.logger.Debug().Int("status", resp.StatusCode).Int("attempt", attempt+1).Dur("delay", delay).Msg("retrying catalog request")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		d = time.Until(at)
	} else {
		return 0, false
	}
	if d < 0 {
		d = 0
	}
	return min(d, maxRetryAfter), true
}

// describeError prefers Jikan's error message over the raw body.
func describeError(body []byte) string {
	var e ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}
