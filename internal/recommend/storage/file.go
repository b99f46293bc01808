// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tomtom215/animerec/internal/recommend"
)

const fileBackend = "file"

// FileStore keeps the corpus in one JSON file.
type FileStore struct {
	path string
	opts Options
	mu   sync.RWMutex
}

// NewFileStore creates a store at path. The file is created on first Save.
func NewFileStore(path string, opts Options) *FileStore {
	return &FileStore{path: path, opts: opts.withDefaults()}
}

// Path returns the cache file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the cached corpus if present, valid and within the TTL.
func (s *FileStore) Load(ctx context.Context) (*recommend.Corpus, error) {
	c, err := s.LoadAny(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkTTL(s.opts, c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadAny returns the cached corpus regardless of age.
func (s *FileStore) LoadAny(ctx context.Context) (*recommend.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()

	if errors.Is(err, fs.ErrNotExist) {
		recordResult(fileBackend, "load", nil)
		return nil, fmt.Errorf("%w: %s not found", recommend.ErrStaleOrMissing, s.path)
	}
	if err != nil {
		recordResult(fileBackend, "load", err)
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	c, err := decodeCorpus(data)
	recordResult(fileBackend, "load", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return c, nil
}

// Save replaces the cache file atomically: readers see either the old or
// the new document, never a partial write.
func (s *FileStore) Save(ctx context.Context, c *recommend.Corpus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeCorpus(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = writeFileAtomic(s.path, data)
	recordResult(fileBackend, "save", err)
	return err
}

// Freshness returns the age of c.
func (s *FileStore) Freshness(c *recommend.Corpus) time.Duration {
	return freshness(s.opts.Now, c)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	committed = true
	return nil
}
