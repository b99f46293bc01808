// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"math"
	"sort"
)

// Vector is a sparse vector with strictly ascending indices. Dense vectors
// set Idx to 0..n-1. A vector with no entries is the zero vector.
type Vector struct {
	Idx []int32   `json:"idx"`
	Val []float64 `json:"val"`
}

// NewSparse builds a vector from an index->value map, dropping zeros.
func NewSparse(m map[int32]float64) Vector {
	idx := make([]int32, 0, len(m))
	for i, v := range m {
		if v != 0 {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a] < idx[b] })

	val := make([]float64, len(idx))
	for k, i := range idx {
		val[k] = m[i]
	}
	return Vector{Idx: idx, Val: val}
}

// NewDense wraps a dense slice.
func NewDense(values []float64) Vector {
	idx := make([]int32, len(values))
	for i := range idx {
		idx[i] = int32(i) //nolint:gosec // embedding dimensions are small
	}
	val := make([]float64, len(values))
	copy(val, values)
	return Vector{Idx: idx, Val: val}
}

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	for _, x := range v.Val {
		if x != 0 {
			return false
		}
	}
	return true
}

// Dot is the inner product, merging the two index lists.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Idx) && j < len(o.Idx) {
		switch {
		case v.Idx[i] == o.Idx[j]:
			sum += v.Val[i] * o.Val[j]
			i++
			j++
		case v.Idx[i] < o.Idx[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm is the Euclidean length.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Val {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalized returns v scaled to unit length; the zero vector is returned unchanged.
func (v Vector) Normalized() Vector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	val := make([]float64, len(v.Val))
	for i, x := range v.Val {
		val[i] = x / n
	}
	return Vector{Idx: v.Idx, Val: val}
}

// Cosine returns the cosine similarity of a and b, 0 when either is zero.
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	s := a.Dot(b) / (na * nb)
	// clamp rounding drift so score(a, a) never exceeds 1
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
