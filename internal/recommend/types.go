// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"strings"
	"time"
)

// TitleRecord is one catalog entry. Within a corpus snapshot the ID
// determines every other field.
type TitleRecord struct {
	// ID is the catalog identifier (MyAnimeList id for Jikan).
	ID int `json:"id"`

	// Title is the primary (romanized) title.
	Title string `json:"title"`

	// TitleEnglish is the English title, nil when the catalog has none.
	TitleEnglish *string `json:"title_english"`

	// TitleJapanese is the native title.
	TitleJapanese string `json:"title_japanese,omitempty"`

	// TitleSynonyms are alternative spellings used only for matching.
	TitleSynonyms []string `json:"title_synonyms,omitempty"`

	// Genres is ordered as delivered by the catalog.
	Genres []string `json:"genres"`

	// Synopsis may be empty.
	Synopsis string `json:"synopsis"`

	// ImageURL is the cover image reference.
	ImageURL string `json:"image_url"`

	// FetchedAt is when this record was retrieved from the catalog.
	FetchedAt time.Time `json:"fetched_at"`
}

// Document is the text vectorized for a record: synopsis followed by genre names.
func (r *TitleRecord) Document() string {
	if len(r.Genres) == 0 {
		return r.Synopsis
	}
	return r.Synopsis + " " + strings.Join(r.Genres, " ")
}

// EnglishTitle returns the English title or "".
func (r *TitleRecord) EnglishTitle() string {
	if r.TitleEnglish == nil {
		return ""
	}
	return *r.TitleEnglish
}

// MatchTitles lists every non-empty title the resolver may match, primary first.
func (r *TitleRecord) MatchTitles() []string {
	titles := make([]string, 0, 3+len(r.TitleSynonyms))
	titles = append(titles, r.Title)
	if en := r.EnglishTitle(); en != "" {
		titles = append(titles, en)
	}
	if r.TitleJapanese != "" {
		titles = append(titles, r.TitleJapanese)
	}
	for _, s := range r.TitleSynonyms {
		if s != "" {
			titles = append(titles, s)
		}
	}
	return titles
}

// Corpus is an ordered set of records plus the corpus-level fetch time.
// Indices are the join key with the VectorSpace built from it.
type Corpus struct {
	FetchedAt time.Time     `json:"fetched_at"`
	Records   []TitleRecord `json:"records"`
}

// Len returns the number of records, 0 for a nil corpus.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}

// VectorSpace holds one vector per corpus index. It is never mutated after Build.
type VectorSpace struct {
	Vectors []Vector

	// Vectorizer names the strategy that produced the vectors.
	Vectorizer string

	// CorpusVersion is the content hash of the corpus the space was built from.
	CorpusVersion string

	BuiltAt time.Time
}

// Len returns the number of vectors.
func (s *VectorSpace) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Vectors)
}

// Scored pairs a corpus index with a similarity score.
type Scored struct {
	Index int
	Score float64
}

// Match is a resolved title.
type Match struct {
	// Index into the corpus.
	Index int `json:"-"`

	ID    int    `json:"id"`
	Title string `json:"title"`

	// Confidence is on a 0-100 scale.
	Confidence float64 `json:"confidence"`

	// exact is set when a stored title equals the query ignoring case.
	exact bool
}

// Result is one recommended title.
type Result struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	TitleEnglish *string  `json:"titleEnglish"`
	Genres       []string `json:"genres"`
	Synopsis     string   `json:"synopsis"`
	ImageURL     string   `json:"imageUrl"`
	Score        float64  `json:"score"`
}

// Recommendation is the outcome of Engine.Recommend.
type Recommendation struct {
	Query         string  `json:"query"`
	ResolvedTitle string  `json:"resolvedTitle"`
	ResolvedID    int     `json:"resolvedId"`
	Confidence    float64 `json:"confidence"`

	// Results are ordered by descending score.
	Results []Result `json:"results"`

	// CorpusAgeSeconds is the age of the corpus that served the request.
	CorpusAgeSeconds float64   `json:"corpusAgeSeconds"`
	CorpusFetchedAt  time.Time `json:"corpusFetchedAt"`

	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID     string `json:"requestId"`
	LatencyMS     int64  `json:"latencyMs"`
	Vectorizer    string `json:"vectorizer"`
	CorpusVersion string `json:"corpusVersion"`
}

// Status describes the active corpus for "last updated" displays and health checks.
type Status struct {
	Ready         bool      `json:"ready"`
	Titles        int       `json:"titles"`
	FetchedAt     time.Time `json:"fetchedAt"`
	AgeSeconds    float64   `json:"ageSeconds"`
	Stale         bool      `json:"stale"`
	TTLSeconds    float64   `json:"ttlSeconds"`
	CorpusVersion string    `json:"corpusVersion"`
	Vectorizer    string    `json:"vectorizer"`
	BuiltAt       time.Time `json:"builtAt"`
	Stats         Stats     `json:"stats"`
}

// Stats are cumulative engine counters.
type Stats struct {
	Requests  int64 `json:"requests"`
	NoMatch   int64 `json:"noMatch"`
	Errors    int64 `json:"errors"`
	Refreshes int64 `json:"refreshes"`
	Fallbacks int64 `json:"fallbacks"`
	Rebuilds  int64 `json:"rebuilds"`
}

// CorpusStore persists corpus snapshots.
type CorpusStore interface {
	// Load returns the cached corpus when present and younger than the TTL,
	// otherwise an error wrapping ErrStaleOrMissing.
	Load(ctx context.Context) (*Corpus, error)

	// LoadAny returns the cached corpus regardless of age.
	LoadAny(ctx context.Context) (*Corpus, error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, c *Corpus) error

	// Freshness is the elapsed time since c was fetched.
	Freshness(c *Corpus) time.Duration
}

// CorpusFetcher retrieves the top n titles from a remote catalog.
// Failures wrap ErrFetchFailed.
type CorpusFetcher interface {
	FetchTop(ctx context.Context, n int) ([]TitleRecord, error)
}

// Vectorizer learns a text representation from corpus documents.
type Vectorizer interface {
	// Name identifies the strategy, e.g. "tfidf".
	Name() string

	// Fit learns vocabulary or model state from docs. The returned Encoder
	// must vectorize docs[i] deterministically.
	Fit(ctx context.Context, docs []string) (Encoder, error)
}

// Encoder maps text to a vector in the space learned by Fit.
type Encoder interface {
	Vectorize(ctx context.Context, text string) (Vector, error)
}

// MatchFunc scores how well query matches candidate on a 0-100 scale.
type MatchFunc func(query, candidate string) float64
