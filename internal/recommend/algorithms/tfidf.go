// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/animerec/internal/recommend"
)

// TFIDFConfig contains configuration for the TF-IDF vectorizer.
type TFIDFConfig struct {
	// NgramMax is the longest word n-gram emitted. 1 means unigrams only.
	NgramMax int

	// MinDF drops terms appearing in fewer documents.
	MinDF int

	// SublinearTF replaces tf with 1 + ln(tf).
	SublinearTF bool
}

// TFIDF learns a vocabulary and inverse document frequencies from corpus
// documents. The weighting is
//
//	w(t, d) = tf(t, d) * (ln((1 + n) / (1 + df(t))) + 1)
//
// followed by L2 normalization, so cosine similarity reduces to a dot product.
type TFIDF struct {
	ngramMax    int
	minDF       int
	sublinearTF bool
}

// NewTFIDF creates a TF-IDF vectorizer, applying defaults to zero fields.
func NewTFIDF(cfg TFIDFConfig) *TFIDF {
	if cfg.NgramMax < 1 {
		cfg.NgramMax = 1
	}
	if cfg.MinDF < 1 {
		cfg.MinDF = 1
	}
	return &TFIDF{
		ngramMax:    cfg.NgramMax,
		minDF:       cfg.MinDF,
		sublinearTF: cfg.SublinearTF,
	}
}

// Name returns the vectorizer identifier.
func (t *TFIDF) Name() string {
	return "tfidf"
}

// Fit builds the vocabulary from docs. Term indices follow lexical order so
// equal input always yields equal vectors.
func (t *TFIDF) Fit(ctx context.Context, docs []string) (recommend.Encoder, error) {
	df := make(map[string]int)
	for _, doc := range docs {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		seen := make(map[string]struct{})
		for _, term := range t.terms(doc) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	vocab := make([]string, 0, len(df))
	for term, n := range df {
		if n >= t.minDF {
			vocab = append(vocab, term)
		}
	}
	sort.Strings(vocab)

	n := float64(len(docs))
	model := &TFIDFModel{
		vectorizer: t,
		index:      make(map[string]int32, len(vocab)),
		idf:        make([]float64, len(vocab)),
	}
	for i, term := range vocab {
		model.index[term] = int32(i) //nolint:gosec // vocabulary is bounded by corpus size
		model.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return model, nil
}

// terms tokenizes doc and appends n-grams up to ngramMax.
func (t *TFIDF) terms(doc string) []string {
	tokens := tokenize(doc)
	if t.ngramMax == 1 || len(tokens) < 2 {
		return tokens
	}
	out := make([]string, 0, len(tokens)*t.ngramMax)
	out = append(out, tokens...)
	for n := 2; n <= t.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// tokenize keeps letter/digit runs of two or more runes that are not stop words.
func tokenize(doc string) []string {
	raw := Tokens(doc)
	out := raw[:0]
	for _, tok := range raw {
		if utf8.RuneCountInString(tok) < 2 || isStopWord(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// TFIDFModel is a fitted TF-IDF encoder. It is immutable and safe for concurrent use.
type TFIDFModel struct {
	vectorizer *TFIDF
	index      map[string]int32
	idf        []float64
}

// Vectorize weights the in-vocabulary terms of text. Text with no known
// terms maps to the zero vector.
func (m *TFIDFModel) Vectorize(_ context.Context, text string) (recommend.Vector, error) {
	tf := make(map[int32]float64)
	for _, term := range m.vectorizer.terms(text) {
		if i, ok := m.index[term]; ok {
			tf[i]++
		}
	}
	for i, count := range tf {
		if m.vectorizer.sublinearTF {
			count = 1 + math.Log(count)
		}
		tf[i] = count * m.idf[i]
	}
	return recommend.NewSparse(tf).Normalized(), nil
}

// VocabularySize returns the number of retained terms.
func (m *TFIDFModel) VocabularySize() int {
	return len(m.idf)
}
