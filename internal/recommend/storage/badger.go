// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/animerec/internal/recommend"
)

const badgerBackend = "badger"

// corpusKey holds the current corpus document.
const corpusKey = "corpus:current"

// BadgerStore keeps the corpus in BadgerDB. The caller owns the DB.
type BadgerStore struct {
	db   *badger.DB
	opts Options
}

// NewBadgerStore creates a store on an open database.
func NewBadgerStore(db *badger.DB, opts Options) *BadgerStore {
	return &BadgerStore{db: db, opts: opts.withDefaults()}
}

// OpenBadger opens (or creates) a database in dir with badger's own logging off.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return db, nil
}

// Load returns the stored corpus if present, valid and within the TTL.
func (s *BadgerStore) Load(ctx context.Context) (*recommend.Corpus, error) {
	c, err := s.LoadAny(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkTTL(s.opts, c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadAny returns the stored corpus regardless of age.
func (s *BadgerStore) LoadAny(ctx context.Context) (*recommend.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(corpusKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		recordResult(badgerBackend, "load", nil)
		return nil, fmt.Errorf("%w: no stored corpus", recommend.ErrStaleOrMissing)
	}
	if err != nil {
		recordResult(badgerBackend, "load", err)
		return nil, fmt.Errorf("get corpus: %w", err)
	}

	c, err := decodeCorpus(data)
	recordResult(badgerBackend, "load", err)
	return c, err
}

// Save replaces the stored corpus in one transaction.
func (s *BadgerStore) Save(ctx context.Context, c *recommend.Corpus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeCorpus(c)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(corpusKey), data)
	})
	recordResult(badgerBackend, "save", err)
	if err != nil {
		return fmt.Errorf("set corpus: %w", err)
	}
	return nil
}

// Freshness returns the age of c.
func (s *BadgerStore) Freshness(c *recommend.Corpus) time.Duration {
	return freshness(s.opts.Now, c)
}
