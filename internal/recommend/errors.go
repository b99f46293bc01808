// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed means the catalog could not be fetched and no older corpus was available.
	ErrFetchFailed = errors.New("catalog fetch failed")

	// ErrStaleOrMissing means the cached corpus is absent, expired or corrupt.
	ErrStaleOrMissing = errors.New("cached corpus stale or missing")

	// ErrNoConfidentMatch means the query did not resolve to any title above the threshold.
	ErrNoConfidentMatch = errors.New("no confident title match")

	// ErrEmptyCorpus means there are no titles to rank against.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrInvalidQuery means the query was blank.
	ErrInvalidQuery = errors.New("query must not be blank")
)

// NoConfidentMatchError carries the best-effort suggestion for a query that
// did not resolve. It matches ErrNoConfidentMatch with errors.Is.
type NoConfidentMatchError struct {
	Query        string
	Suggestion   string
	SuggestionID int
	Confidence   float64
	Alternatives []Match
}

func (e *NoConfidentMatchError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("no close match for '%s'", e.Query)
	}
	return fmt.Sprintf("no close match for '%s', did you mean '%s'?", e.Query, e.Suggestion)
}

// Is reports whether target is ErrNoConfidentMatch.
func (e *NoConfidentMatchError) Is(target error) bool {
	return target == ErrNoConfidentMatch
}
