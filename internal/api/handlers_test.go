// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/recommend"
)

// stubEngine is a scripted Recommender.
type stubEngine struct {
	mu sync.Mutex

	rec        *recommend.Recommendation
	recErr     error
	matches    []recommend.Match
	items      []recommend.Completion
	status     recommend.Status
	refreshErr error

	lastQuery string
	lastK     int
	lastLimit int
	refreshes int
}

func (s *stubEngine) Recommend(_ context.Context, query string, k int) (*recommend.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery, s.lastK = query, k
	if s.recErr != nil {
		return nil, s.recErr
	}
	return s.rec, nil
}

func (s *stubEngine) Suggest(_ context.Context, query string, limit int) ([]recommend.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery, s.lastLimit = query, limit
	return s.matches, s.recErr
}

func (s *stubEngine) Complete(_ context.Context, prefix string, limit int) ([]recommend.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery, s.lastLimit = prefix, limit
	return s.items, s.recErr
}

func (s *stubEngine) Refresh(context.Context) (recommend.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	return s.status, s.refreshErr
}

func (s *stubEngine) Status() recommend.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// envelope mirrors models.APIResponse with raw data for per-test decoding.
type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Timestamp   time.Time `json:"timestamp"`
		QueryTimeMS int64     `json:"query_time_ms"`
		RequestID   string    `json:"request_id"`
	} `json:"metadata"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func newTestServer(engine Recommender, mwCfg *ChiMiddlewareConfig) http.Handler {
	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitDisabled = true
	}
	return NewRouter(NewHandler(engine, nil), NewChiMiddleware(mwCfg)).SetupChi()
}

func do(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v\nbody: %s", err, w.Body.String())
		}
	}
	return w, env
}

func strPtr(s string) *string { return &s }

func sampleRecommendation() *recommend.Recommendation {
	return &recommend.Recommendation{
		Query:         "naruot",
		ResolvedTitle: "Naruto",
		ResolvedID:    20,
		Confidence:    66.7,
		Results: []recommend.Result{
			{ID: 269, Title: "Bleach", Genres: []string{"Action"}, Score: 0.42},
			{ID: 32281, Title: "Kimi no Na wa.", TitleEnglish: strPtr("Your Name."), Genres: []string{"Drama"}, Score: 0},
		},
		CorpusAgeSeconds: 120,
	}
}

func TestRecommendSuccess(t *testing.T) {
	t.Parallel()
	engine := &stubEngine{rec: sampleRecommendation()}
	srv := newTestServer(engine, nil)

	w, env := do(t, srv, http.MethodGet, "/api/v1/recommend?q=naruot&k=2")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if env.Status != "success" || env.Error != nil {
		t.Fatalf("envelope = %+v", env)
	}
	if engine.lastQuery != "naruot" || engine.lastK != 2 {
		t.Errorf("engine got (%q, %d)", engine.lastQuery, engine.lastK)
	}

	var rec recommend.Recommendation
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		t.Fatal(err)
	}
	if rec.ResolvedTitle != "Naruto" || len(rec.Results) != 2 || rec.Results[0].Title != "Bleach" {
		t.Errorf("data = %+v", rec)
	}
	if !strings.Contains(string(env.Data), `"imageUrl"`) || !strings.Contains(string(env.Data), `"corpusAgeSeconds"`) {
		t.Errorf("data missing camelCase fields: %s", env.Data)
	}

	if got := w.Header().Get("Cache-Control"); got != resultCacheControl {
		t.Errorf("Cache-Control = %q", got)
	}
	if w.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}
	if id := w.Header().Get("X-Request-ID"); id == "" || id != env.Metadata.RequestID {
		t.Errorf("request id header %q, metadata %q", id, env.Metadata.RequestID)
	}
	if env.Metadata.Timestamp.IsZero() {
		t.Error("metadata.timestamp not set")
	}
}

func TestRecommendDefaultsKToZero(t *testing.T) {
	t.Parallel()
	engine := &stubEngine{rec: &recommend.Recommendation{ResolvedTitle: "Naruto"}}
	w, env := do(t, newTestServer(engine, nil), http.MethodGet, "/api/v1/recommend?q=Naruto")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if engine.lastK != 0 {
		t.Errorf("k = %d, want 0 (engine default)", engine.lastK)
	}
	if !strings.Contains(string(env.Data), `"results":[]`) {
		t.Errorf("nil results should encode as []: %s", env.Data)
	}
}

func TestRecommendValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		target    string
		wantField string
	}{
		{"missing q", "/api/v1/recommend", "q"},
		{"blank q", "/api/v1/recommend?q=%20%20", "q"},
		{"k not integer", "/api/v1/recommend?q=Naruto&k=ten", "k"},
		{"negative k", "/api/v1/recommend?q=Naruto&k=-1", "k"},
		{"k too large", "/api/v1/recommend?q=Naruto&k=1000", "k"},
		{"q too long", "/api/v1/recommend?q=" + strings.Repeat("a", 201), "q"},
	}

	engine := &stubEngine{rec: sampleRecommendation()}
	srv := newTestServer(engine, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, srv, http.MethodGet, tt.target)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if env.Status != "error" || env.Error == nil || env.Error.Code != ErrCodeValidation {
				t.Fatalf("envelope = %+v", env)
			}
			if got := env.Error.Details["field"]; got != tt.wantField {
				t.Errorf("details.field = %v, want %s", got, tt.wantField)
			}
			if string(env.Data) != "null" {
				t.Errorf("data = %s, want null", env.Data)
			}
		})
	}
}

func TestRecommendEngineErrors(t *testing.T) {
	t.Parallel()

	noMatch := &recommend.NoConfidentMatchError{
		Query:        "naruot",
		Suggestion:   "Naruto",
		SuggestionID: 20,
		Confidence:   55,
		Alternatives: []recommend.Match{{ID: 20, Title: "Naruto", Confidence: 55}},
	}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"no confident match", noMatch, http.StatusNotFound, ErrCodeNoConfidentMatch},
		{"no match without suggestion", &recommend.NoConfidentMatchError{Query: "zzzz"}, http.StatusNotFound, ErrCodeNoConfidentMatch},
		{"invalid query", recommend.ErrInvalidQuery, http.StatusBadRequest, ErrCodeValidation},
		{"empty corpus", recommend.ErrEmptyCorpus, http.StatusServiceUnavailable, ErrCodeEmptyCorpus},
		{"fetch failed", fmt.Errorf("load corpus: %w", recommend.ErrFetchFailed), http.StatusServiceUnavailable, ErrCodeFetchFailed},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, ErrCodeInternal},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubEngine{recErr: tt.err}, nil)
			w, env := do(t, srv, http.MethodGet, "/api/v1/recommend?q=naruot")
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if env.Error == nil || env.Error.Code != tt.wantErr {
				t.Fatalf("error = %+v, want code %s", env.Error, tt.wantErr)
			}
			if strings.Contains(env.Error.Message, "boom") {
				t.Error("internal error text leaked to client")
			}
		})
	}
}

func TestRecommendNoMatchDetails(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&stubEngine{recErr: &recommend.NoConfidentMatchError{
		Query:        "naruot",
		Suggestion:   "Naruto",
		SuggestionID: 20,
		Confidence:   55,
		Alternatives: []recommend.Match{{ID: 20, Title: "Naruto", Confidence: 55}, {ID: 1735, Title: "Naruto: Shippuuden", Confidence: 50}},
	}}, nil)

	_, env := do(t, srv, http.MethodGet, "/api/v1/recommend?q=naruot")
	if env.Error == nil {
		t.Fatal("missing error")
	}
	if want := "no close match for 'naruot', did you mean 'Naruto'?"; env.Error.Message != want {
		t.Errorf("message = %q, want %q", env.Error.Message, want)
	}
	d := env.Error.Details
	if d["suggestion"] != "Naruto" || d["suggestion_id"] != float64(20) || d["confidence"] != float64(55) {
		t.Errorf("details = %v", d)
	}
	if alts, ok := d["alternatives"].([]interface{}); !ok || len(alts) != 2 {
		t.Errorf("alternatives = %v", d["alternatives"])
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()
	engine := &stubEngine{matches: []recommend.Match{{ID: 20, Title: "Naruto", Confidence: 90}}}
	srv := newTestServer(engine, nil)

	w, env := do(t, srv, http.MethodGet, "/api/v1/suggest?q=narut&limit=3")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if engine.lastLimit != 3 {
		t.Errorf("limit = %d", engine.lastLimit)
	}
	var data struct {
		Query       string            `json:"query"`
		Suggestions []recommend.Match `json:"suggestions"`
		Count       int               `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Count != 1 || data.Suggestions[0].ID != 20 || data.Query != "narut" {
		t.Errorf("data = %+v", data)
	}

	engine.matches = nil
	_, env = do(t, srv, http.MethodGet, "/api/v1/suggest?q=zzzz")
	if !strings.Contains(string(env.Data), `"suggestions":[]`) {
		t.Errorf("empty suggestions should encode as []: %s", env.Data)
	}
}

func TestComplete(t *testing.T) {
	t.Parallel()
	engine := &stubEngine{items: []recommend.Completion{{ID: 20, Title: "Naruto", Matched: "Naruto"}}}
	srv := newTestServer(engine, nil)

	w, env := do(t, srv, http.MethodGet, "/api/v1/complete?prefix=nar")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if engine.lastQuery != "nar" || engine.lastLimit != 0 {
		t.Errorf("engine got (%q, %d)", engine.lastQuery, engine.lastLimit)
	}
	if !strings.Contains(string(env.Data), `"count":1`) {
		t.Errorf("data = %s", env.Data)
	}

	w, env = do(t, srv, http.MethodGet, "/api/v1/complete")
	if w.Code != http.StatusBadRequest || env.Error.Details["field"] != "prefix" {
		t.Errorf("missing prefix: status %d, error %+v", w.Code, env.Error)
	}
}

func TestCorpusStatusAndRefresh(t *testing.T) {
	t.Parallel()
	engine := &stubEngine{status: recommend.Status{Ready: true, Titles: 500, Vectorizer: "tfidf", CorpusVersion: "abc123"}}
	srv := newTestServer(engine, nil)

	w, env := do(t, srv, http.MethodGet, "/api/v1/corpus/status")
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), `"titles":500`) {
		t.Fatalf("status: %d %s", w.Code, env.Data)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("status must not be cached, got %q", w.Header().Get("Cache-Control"))
	}
	if engine.refreshes != 0 {
		t.Error("status must not refresh")
	}

	w, _ = do(t, srv, http.MethodGet, "/api/v1/corpus/refresh")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET refresh = %d, want 405", w.Code)
	}

	w, env = do(t, srv, http.MethodPost, "/api/v1/corpus/refresh")
	if w.Code != http.StatusOK || engine.refreshes != 1 {
		t.Fatalf("refresh: %d, refreshes = %d", w.Code, engine.refreshes)
	}
	if !strings.Contains(string(env.Data), `"corpusVersion":"abc123"`) {
		t.Errorf("data = %s", env.Data)
	}

	engine.refreshErr = fmt.Errorf("refresh: %w", recommend.ErrFetchFailed)
	w, env = do(t, srv, http.MethodPost, "/api/v1/corpus/refresh")
	if w.Code != http.StatusServiceUnavailable || env.Error.Code != ErrCodeFetchFailed {
		t.Errorf("failed refresh: %d %+v", w.Code, env.Error)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	engine := &stubEngine{}
	srv := newTestServer(engine, nil)

	w, env := do(t, srv, http.MethodGet, "/api/v1/health")
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), `"status":"degraded"`) {
		t.Errorf("cold health: %d %s", w.Code, env.Data)
	}

	engine.mu.Lock()
	engine.status = recommend.Status{Ready: true, Titles: 3}
	engine.mu.Unlock()
	_, env = do(t, srv, http.MethodGet, "/api/v1/health")
	if !strings.Contains(string(env.Data), `"status":"healthy"`) || !strings.Contains(string(env.Data), `"titles":3`) {
		t.Errorf("warm health: %s", env.Data)
	}
}
