// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package storage

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/recommend"
)

// SchemaVersion is the current document layout.
const SchemaVersion = 1

// DefaultTTL is used when Options.TTL is zero.
const DefaultTTL = 24 * time.Hour

// Options configures a store.
type Options struct {
	// TTL is the maximum corpus age Load accepts.
	TTL time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// envelope is the persisted document.
type envelope struct {
	SchemaVersion int                     `json:"schema_version"`
	FetchedAt     time.Time               `json:"fetched_at"`
	Checksum      string                  `json:"checksum"`
	Records       []recommend.TitleRecord `json:"records"`
}

func encodeCorpus(c *recommend.Corpus) ([]byte, error) {
	records := c.Records
	if records == nil {
		records = []recommend.TitleRecord{}
	}
	data, err := json.Marshal(envelope{
		SchemaVersion: SchemaVersion,
		FetchedAt:     c.FetchedAt,
		Checksum:      recommend.CorpusVersion(c),
		Records:       records,
	})
	if err != nil {
		return nil, fmt.Errorf("encode corpus: %w", err)
	}
	return data, nil
}

// decodeCorpus validates and unpacks a stored document. Every failure wraps
// recommend.ErrStaleOrMissing.
func decodeCorpus(data []byte) (*recommend.Corpus, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: corrupt cache: %w", recommend.ErrStaleOrMissing, err)
	}
	if env.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", recommend.ErrStaleOrMissing, env.SchemaVersion)
	}
	if len(env.Records) == 0 {
		return nil, fmt.Errorf("%w: empty record list", recommend.ErrStaleOrMissing)
	}

	c := &recommend.Corpus{FetchedAt: env.FetchedAt, Records: env.Records}
	if sum := recommend.CorpusVersion(c); sum != env.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch: stored %s, computed %s", recommend.ErrStaleOrMissing, env.Checksum, sum)
	}
	return c, nil
}

// freshness is the age of c on the given clock, never negative.
func freshness(now func() time.Time, c *recommend.Corpus) time.Duration {
	if c == nil {
		return 0
	}
	age := now().Sub(c.FetchedAt)
	if age < 0 {
		return 0
	}
	return age
}

// checkTTL rejects a corpus older than ttl.
func checkTTL(opts Options, c *recommend.Corpus) error {
	if age := freshness(opts.Now, c); age > opts.TTL {
		return fmt.Errorf("%w: corpus age %s exceeds ttl %s", recommend.ErrStaleOrMissing, age.Round(time.Second), opts.TTL)
	}
	return nil
}

func recordResult(backend, op string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.RecordStoreOp(backend, op, result)
}
