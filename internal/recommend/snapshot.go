// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/tomtom215/animerec/internal/cache"
)

// snapshot is everything derived from one corpus. It is never mutated after
// construction; the engine swaps whole snapshots.
type snapshot struct {
	corpus   *Corpus
	version  string
	space    *VectorSpace
	resolver *Resolver
	titles   *cache.Trie
}

// CorpusVersion is a content hash of the records. Fetch timestamps are
// excluded so refetching an unchanged catalog keeps the same version.
func CorpusVersion(c *Corpus) string {
	d := xxhash.New()
	write := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	for i := range c.Records {
		r := &c.Records[i]
		write(strconv.Itoa(r.ID))
		write(r.Title)
		if r.TitleEnglish != nil {
			write("en:" + *r.TitleEnglish)
		} else {
			write("")
		}
		write(r.TitleJapanese)
		write(strconv.Itoa(len(r.TitleSynonyms)))
		for _, s := range r.TitleSynonyms {
			write(s)
		}
		write(strconv.Itoa(len(r.Genres)))
		for _, g := range r.Genres {
			write(g)
		}
		write(r.Synopsis)
		write(r.ImageURL)
		_, _ = d.Write([]byte{0xff})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// Build fits v on the corpus documents and vectorizes each one. The space
// has exactly one vector per record.
func Build(ctx context.Context, v Vectorizer, c *Corpus) (*VectorSpace, error) {
	docs := make([]string, len(c.Records))
	for i := range c.Records {
		docs[i] = c.Records[i].Document()
	}

	enc, err := v.Fit(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("fit %s vectorizer: %w", v.Name(), err)
	}

	vectors := make([]Vector, len(docs))
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := enc.Vectorize(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("vectorize title %d: %w", c.Records[i].ID, err)
		}
		vectors[i] = vec
	}

	return &VectorSpace{
		Vectors:       vectors,
		Vectorizer:    v.Name(),
		CorpusVersion: CorpusVersion(c),
		BuiltAt:       time.Now(),
	}, nil
}

// buildTitleTrie indexes every match title of every record.
func buildTitleTrie(c *Corpus, normalize func(string) string) *cache.Trie {
	t := cache.NewTrie(normalize)
	for i := range c.Records {
		for _, title := range c.Records[i].MatchTitles() {
			t.Insert(title, i)
		}
	}
	return t
}
