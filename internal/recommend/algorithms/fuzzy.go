// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	// unbaseScale discounts token-reordered scores against a plain ratio.
	unbaseScale = 0.95

	// partialScale discounts substring scores when lengths differ by 1.5x or more.
	partialScale = 0.9

	// longPartialScale applies when one string is 8x the other.
	longPartialScale = 0.6
)

// WRatio scores how well two titles match on a 0-100 scale. It takes the
// best of a plain edit-distance ratio, token sort and token set ratios and,
// when the lengths differ a lot, their substring variants. Inputs are
// compared after Normalize. Identical normalized strings score 100 and a
// blank input scores 0.
//
//	WRatio("naruot", "Naruto")               // ~66.7
//	WRatio("shingeki", "Shingeki no Kyojin") // substring match, 90
func WRatio(a, b string) float64 {
	p1, p2 := Normalize(a), Normalize(b)
	if p1 == "" || p2 == "" {
		return 0
	}
	if p1 == p2 {
		return 100
	}

	len1, len2 := utf8.RuneCountInString(p1), utf8.RuneCountInString(p2)
	lenRatio := float64(max(len1, len2)) / float64(min(len1, len2))

	best := ratio(p1, p2)

	if lenRatio < 1.5 {
		best = max(best,
			ratio(sortTokens(p1), sortTokens(p2))*unbaseScale,
			tokenSetRatio(p1, p2, ratio)*unbaseScale,
		)
		return best
	}

	scale := partialScale
	if lenRatio >= 8 {
		scale = longPartialScale
	}
	return max(best,
		partialRatio(p1, p2)*scale,
		partialRatio(sortTokens(p1), sortTokens(p2))*unbaseScale*scale,
		tokenSetRatio(p1, p2, partialRatio)*unbaseScale*scale,
	)
}

// ratio is 100 * (1 - levenshtein / longer length).
func ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(longest))
}

// partialRatio is the best ratio of the shorter string against every
// equal-length window of the longer one.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	s := string(short)
	var best float64
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// sortTokens reorders the words of a normalized string alphabetically.
func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// tokenSetRatio compares the shared words against each side's full word set.
// A side whose words are all shared scores 100.
func tokenSetRatio(a, b string, score func(string, string) float64) float64 {
	set1, set2 := tokenSet(a), tokenSet(b)

	var common, only1, only2 []string
	for tok := range set1 {
		if _, ok := set2[tok]; ok {
			common = append(common, tok)
		} else {
			only1 = append(only1, tok)
		}
	}
	for tok := range set2 {
		if _, ok := set1[tok]; !ok {
			only2 = append(only2, tok)
		}
	}
	if len(common) > 0 && (len(only1) == 0 || len(only2) == 0) {
		return 100
	}

	sort.Strings(common)
	sort.Strings(only1)
	sort.Strings(only2)
	sect := strings.Join(common, " ")
	combined1 := strings.TrimSpace(sect + " " + strings.Join(only1, " "))
	combined2 := strings.TrimSpace(sect + " " + strings.Join(only2, " "))

	best := score(combined1, combined2)
	if sect != "" {
		best = max(best, score(sect, combined1), score(sect, combined2))
	}
	return best
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
