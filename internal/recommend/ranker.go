// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import "sort"

// TopK returns up to k entries most similar to space.Vectors[index], excluding
// index itself, by descending score with ties broken by ascending index.
// The scan is exhaustive. k <= 0 or an out-of-range index yields an empty slice.
func TopK(space *VectorSpace, index, k int) []Scored {
	n := space.Len()
	if k <= 0 || index < 0 || index >= n {
		return []Scored{}
	}

	query := space.Vectors[index]
	scored := make([]Scored, 0, n-1)
	for i, v := range space.Vectors {
		if i == index {
			continue
		}
		scored = append(scored, Scored{Index: i, Score: Cosine(query, v)})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		return scored[a].Index < scored[b].Index
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
