// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Naruto", "naruto"},
		{"  Kimi no Na wa. ", "kimi no na wa"},
		{"Pokémon: XY&Z", "pokemon xy z"},
		{"Re:Zero − Starting Life", "re zero starting life"},
		{"Steins;Gate 0", "steins gate 0"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWRatio(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		min     float64
		max     float64
		exactly float64
	}{
		{name: "identical", a: "Naruto", b: "Naruto", exactly: 100},
		{name: "case and punctuation", a: "kimi no na wa", b: "Kimi no Na wa.", exactly: 100},
		{name: "transposition typo", a: "naruot", b: "Naruto", min: 60, max: 70},
		{name: "reordered words", a: "academia hero my", b: "My Hero Academia", min: 94, max: 96},
		{name: "prefix of long title", a: "shingeki", b: "Shingeki no Kyojin", min: 89.9, max: 90.1},
		{name: "nonsense", a: "zzzznotreal", b: "Naruto", max: 59.9},
		{name: "nonsense vs short", a: "zzzznotreal", b: "Bleach", max: 59.9},
		{name: "nonsense vs spaced", a: "zzzznotreal", b: "Your Name", max: 59.9},
		{name: "blank", a: "   ", b: "Naruto", exactly: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WRatio(tt.a, tt.b)
			if tt.exactly != 0 || (tt.min == 0 && tt.max == 0) {
				if math.Abs(got-tt.exactly) > 1e-9 {
					t.Errorf("WRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.exactly)
				}
				return
			}
			if got < tt.min || got > tt.max {
				t.Errorf("WRatio(%q, %q) = %v, want within [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}

func TestWRatioSymmetricAndBounded(t *testing.T) {
	titles := []string{"Naruto", "Bleach", "Your Name", "Naruto: Shippuuden", "One Piece", "x"}
	for _, a := range titles {
		for _, b := range titles {
			ab, ba := WRatio(a, b), WRatio(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("WRatio(%q, %q) = %v but reversed = %v", a, b, ab, ba)
			}
			if ab < 0 || ab > 100 {
				t.Errorf("WRatio(%q, %q) = %v out of range", a, b, ab)
			}
		}
	}
}

func TestWRatioPrefersCloserTitle(t *testing.T) {
	if WRatio("naruto shipuden", "Naruto: Shippuuden") <= WRatio("naruto shipuden", "Bleach") {
		t.Error("misspelled sequel should score higher against its own title")
	}
}

func TestPartialRatio(t *testing.T) {
	if got := partialRatio("hero", "my hero academia"); got != 100 {
		t.Errorf("partialRatio substring = %v, want 100", got)
	}
	if got := partialRatio("", "abc"); got != 0 {
		t.Errorf("partialRatio empty = %v, want 0", got)
	}
}

func TestTokenSetRatioSubset(t *testing.T) {
	if got := tokenSetRatio("naruto", "naruto shippuuden", ratio); got != 100 {
		t.Errorf("subset token set = %v, want 100", got)
	}
}
