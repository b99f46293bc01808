// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/animerec/internal/recommend"
)

var (
	_ recommend.CorpusStore = (*FileStore)(nil)
	_ recommend.CorpusStore = (*BadgerStore)(nil)
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func strPtr(s string) *string { return &s }

func sampleCorpus(fetchedAt time.Time) *recommend.Corpus {
	return &recommend.Corpus{
		FetchedAt: fetchedAt,
		Records: []recommend.TitleRecord{
			{
				ID:            20,
				Title:         "Naruto",
				TitleEnglish:  strPtr("Naruto"),
				TitleJapanese: "ナルト",
				TitleSynonyms: []string{"NARUTO"},
				Genres:        []string{"Action", "Adventure"},
				Synopsis:      "A ninja...",
				ImageURL:      "https://cdn.myanimelist.net/images/anime/13/17405.jpg",
				FetchedAt:     fetchedAt,
			},
			{
				ID:        269,
				Title:     "Bleach",
				Genres:    []string{"Action"},
				Synopsis:  "",
				FetchedAt: fetchedAt,
			},
			{
				ID:        32281,
				Title:     "Kimi no Na wa.",
				Genres:    []string{},
				Synopsis:  "Two teens swap bodies...",
				FetchedAt: fetchedAt,
			},
		},
	}
}

func newTestBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// backends returns a fresh store of each kind sharing clock.
func backends(t *testing.T, clock *fakeClock) map[string]recommend.CorpusStore {
	t.Helper()
	opts := Options{TTL: 24 * time.Hour, Now: clock.Now}
	return map[string]recommend.CorpusStore{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "anime_cache.json"), opts),
		"badger": NewBadgerStore(newTestBadger(t), opts),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()

	for name, store := range backends(t, clock) {
		t.Run(name, func(t *testing.T) {
			want := sampleCorpus(clock.Now())
			if err := store.Save(ctx, want); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !got.FetchedAt.Equal(want.FetchedAt) {
				t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, want.FetchedAt)
			}
			if !reflect.DeepEqual(got.Records, want.Records) {
				t.Errorf("records differ after round trip:\n got %+v\nwant %+v", got.Records, want.Records)
			}
			if recommend.CorpusVersion(got) != recommend.CorpusVersion(want) {
				t.Error("version changed across round trip")
			}
		})
	}
}

func TestStoreMissing(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t, newFakeClock()) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrStaleOrMissing) {
				t.Errorf("Load on empty store: err = %v", err)
			}
			if _, err := store.LoadAny(ctx); !errors.Is(err, recommend.ErrStaleOrMissing) {
				t.Errorf("LoadAny on empty store: err = %v", err)
			}
		})
	}
}

func TestStoreTTL(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"file", "badger"} {
		t.Run(name, func(t *testing.T) {
			clock := newFakeClock()
			store := backends(t, clock)[name]

			c := sampleCorpus(clock.Now())
			if err := store.Save(ctx, c); err != nil {
				t.Fatalf("Save: %v", err)
			}

			clock.Advance(3 * time.Hour)
			if got := store.Freshness(c); got != 3*time.Hour {
				t.Errorf("Freshness = %v, want 3h", got)
			}

			clock.Advance(21 * time.Hour)
			if _, err := store.Load(ctx); err != nil {
				t.Errorf("corpus exactly at ttl should load: %v", err)
			}

			clock.Advance(time.Second)
			if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrStaleOrMissing) {
				t.Errorf("expired corpus: err = %v, want ErrStaleOrMissing", err)
			}
			got, err := store.LoadAny(ctx)
			if err != nil {
				t.Fatalf("LoadAny on expired corpus: %v", err)
			}
			if len(got.Records) != 3 {
				t.Errorf("LoadAny returned %d records", len(got.Records))
			}
		})
	}
}

func TestStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()

	for name, store := range backends(t, clock) {
		t.Run(name, func(t *testing.T) {
			first := sampleCorpus(clock.Now())
			second := &recommend.Corpus{
				FetchedAt: clock.Now().Add(time.Minute),
				Records:   first.Records[:1],
			}
			if err := store.Save(ctx, first); err != nil {
				t.Fatal(err)
			}
			if err := store.Save(ctx, second); err != nil {
				t.Fatal(err)
			}
			got, err := store.LoadAny(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(got.Records) != 1 || !got.FetchedAt.Equal(second.FetchedAt) {
				t.Errorf("second save not visible: %+v", got)
			}
		})
	}
}

func TestFreshnessNeverNegative(t *testing.T) {
	clock := newFakeClock()
	s := NewFileStore("unused.json", Options{Now: clock.Now})
	future := &recommend.Corpus{FetchedAt: clock.Now().Add(time.Hour)}
	if got := s.Freshness(future); got != 0 {
		t.Errorf("Freshness = %v, want 0", got)
	}
}

func TestFileStoreCorruptCache(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"truncated", `{"schema_version":1,"records":[`, "corrupt cache"},
		{"future schema", `{"schema_version":99,"records":[]}`, "unsupported schema version 99"},
		{"no records", `{"schema_version":1,"records":[]}`, "empty record list"},
		{"null records", `{"schema_version":1,"records":null}`, "empty record list"},
		{"tampered", `{"schema_version":1,"checksum":"deadbeef","records":[{"id":1,"title":"Naruto"}]}`, "checksum mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "anime_cache.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			store := NewFileStore(path, Options{Now: clock.Now})

			_, err := store.LoadAny(ctx)
			if !errors.Is(err, recommend.ErrStaleOrMissing) {
				t.Fatalf("err = %v, want ErrStaleOrMissing", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestFileStoreWritesDocumentFormat(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	path := filepath.Join(t.TempDir(), "nested", "anime_cache.json")
	store := NewFileStore(path, Options{Now: clock.Now})

	if err := store.Save(ctx, sampleCorpus(clock.Now())); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"schema_version":1`, `"checksum":"`, `"fetched_at":"2026-03-01T09:30:00Z"`, `"title_english":null`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("document missing %s", want)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, store := range backends(t, newFakeClock()) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save(ctx, sampleCorpus(time.Now())); !errors.Is(err, context.Canceled) {
				t.Errorf("Save err = %v", err)
			}
			if _, err := store.LoadAny(ctx); !errors.Is(err, context.Canceled) {
				t.Errorf("LoadAny err = %v", err)
			}
		})
	}
}
