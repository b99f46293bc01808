// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"sort"
	"strings"
)

// Resolver maps free text to a corpus index by approximate title matching.
// It is bound to one corpus snapshot and safe for concurrent use.
type Resolver struct {
	records      []TitleRecord
	match        MatchFunc
	threshold    float64
	alternatives int
}

// NewResolver creates a resolver over c. threshold is the minimum accepted
// confidence (inclusive); alternatives bounds the suggestions attached to a
// NoConfidentMatchError.
func NewResolver(c *Corpus, match MatchFunc, threshold float64, alternatives int) *Resolver {
	var records []TitleRecord
	if c != nil {
		records = c.Records
	}
	return &Resolver{
		records:      records,
		match:        match,
		threshold:    threshold,
		alternatives: alternatives,
	}
}

// Resolve returns the best matching record. A blank query is ErrInvalidQuery,
// an empty corpus ErrEmptyCorpus and a best score below the threshold a
// *NoConfidentMatchError.
func (r *Resolver) Resolve(query string) (Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Match{}, ErrInvalidQuery
	}
	if len(r.records) == 0 {
		return Match{}, ErrEmptyCorpus
	}

	ranked := r.rank(query)
	best := ranked[0]
	if best.Confidence >= r.threshold {
		return best, nil
	}

	n := r.alternatives
	if n > len(ranked) {
		n = len(ranked)
	}
	return Match{}, &NoConfidentMatchError{
		Query:        query,
		Suggestion:   best.Title,
		SuggestionID: best.ID,
		Confidence:   best.Confidence,
		Alternatives: ranked[:n],
	}
}

// Suggest returns up to limit records ordered by match score, regardless of the threshold.
func (r *Resolver) Suggest(query string, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 || len(r.records) == 0 {
		return []Match{}
	}
	ranked := r.rank(query)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// rank scores every record by its best title and orders by score, then
// exact title hits, then primary title, then index. Titles that differ only
// in punctuation (Gintama, Gintama', Gintama.) all score 100, so an exact
// hit has to outrank them.
func (r *Resolver) rank(query string) []Match {
	out := make([]Match, len(r.records))
	for i := range r.records {
		rec := &r.records[i]
		score, exact := r.score(query, rec)
		out[i] = Match{Index: i, ID: rec.ID, Title: rec.Title, Confidence: score, exact: exact}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Confidence != out[b].Confidence {
			return out[a].Confidence > out[b].Confidence
		}
		if out[a].exact != out[b].exact {
			return out[a].exact
		}
		if out[a].Title != out[b].Title {
			return out[a].Title < out[b].Title
		}
		return out[a].Index < out[b].Index
	})
	return out
}

func (r *Resolver) score(query string, rec *TitleRecord) (float64, bool) {
	var best float64
	for _, t := range rec.MatchTitles() {
		if strings.EqualFold(query, strings.TrimSpace(t)) {
			return 100, true
		}
		if s := r.match(query, t); s > best {
			best = s
		}
	}
	return best, false
}
