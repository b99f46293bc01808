// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldPool reuses accent-folding transformers; a transform.Transformer is stateful.
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// foldAccents strips combining marks, so "Pokémon" becomes "Pokemon".
func foldAccents(s string) string {
	t := foldPool.Get().(transform.Transformer) //nolint:errcheck // pool only holds transformers
	defer foldPool.Put(t)
	t.Reset()
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize lowercases, folds accents and collapses every run of
// non-alphanumeric characters into one space.
//
//	Normalize("  Kimi no Na wa. ")  // "kimi no na wa"
//	Normalize("Pokémon: XY&Z")      // "pokemon xy z"
func Normalize(s string) string {
	s = foldAccents(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// Tokens splits Normalize(s) on spaces.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}
