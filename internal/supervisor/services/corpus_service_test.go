// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/recommend"
)

type fakeCorpusEngine struct {
	mu           sync.Mutex
	warms        int
	refreshes    int
	warmFailures int
	refreshErr   error
}

func (f *fakeCorpusEngine) Warm(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warms++
	if f.warms <= f.warmFailures {
		return recommend.ErrFetchFailed
	}
	return nil
}

func (f *fakeCorpusEngine) Refresh(context.Context) (recommend.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return recommend.Status{Ready: true, Titles: 3}, f.refreshErr
}

func (f *fakeCorpusEngine) counts() (warms, refreshes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.warms, f.refreshes
}

func TestCorpusServiceDefaults(t *testing.T) {
	svc := NewCorpusService(&fakeCorpusEngine{}, CorpusServiceConfig{}, zerolog.Nop())
	if svc.config.WarmRetryDelay != 30*time.Second || svc.config.OperationTimeout != 10*time.Minute {
		t.Errorf("config = %+v", svc.config)
	}
	if svc.String() != "corpus-service" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestCorpusServiceIdleWithoutWork(t *testing.T) {
	engine := &fakeCorpusEngine{}
	svc := NewCorpusService(engine, CorpusServiceConfig{}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve = %v", err)
	}
	if w, r := engine.counts(); w != 0 || r != 0 {
		t.Errorf("warms = %d, refreshes = %d, want none", w, r)
	}
}

func TestCorpusServiceWarmRetries(t *testing.T) {
	engine := &fakeCorpusEngine{warmFailures: 2}
	svc := NewCorpusService(engine, CorpusServiceConfig{
		WarmOnStartup:  true,
		WarmRetryDelay: 5 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if w, _ := engine.counts(); w != 3 {
		t.Errorf("warms = %d, want 3 (two failures then success)", w)
	}
}

func TestCorpusServiceWarmStopsOnCancel(t *testing.T) {
	engine := &fakeCorpusEngine{warmFailures: 1 << 30}
	svc := NewCorpusService(engine, CorpusServiceConfig{
		WarmOnStartup:  true,
		WarmRetryDelay: time.Hour,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not stop during warm retry wait")
	}
}

func TestCorpusServicePeriodicRefresh(t *testing.T) {
	engine := &fakeCorpusEngine{refreshErr: errors.New("jikan down")}
	svc := NewCorpusService(engine, CorpusServiceConfig{RefreshInterval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve = %v, refresh failures must not stop the service", err)
	}

	if _, r := engine.counts(); r < 3 {
		t.Errorf("refreshes = %d, want several", r)
	}
}
