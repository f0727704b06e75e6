package web

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"voice-chat/internal/domain"
)

type overlapSource struct {
	active  atomic.Int32
	maxSeen atomic.Int32
	hold    time.Duration
}

func (s *overlapSource) Listen(_ context.Context) (domain.Recording, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		seen := s.maxSeen.Load()
		if n <= seen || s.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(s.hold)
	return domain.Recording{Data: []byte("pcm"), Format: domain.FormatWAV, SampleRate: 16000}, nil
}

func (s *overlapSource) Name() string { return "mic" }

func TestExclusiveSource_SerializesListen(t *testing.T) {
	inner := &overlapSource{hold: 10 * time.Millisecond}
	source := newExclusiveSource(inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := source.Listen(context.Background()); err != nil {
				t.Errorf("Listen() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := inner.maxSeen.Load(); got != 1 {
		t.Errorf("expected at most one listener at a time, saw %d", got)
	}
	if source.Name() != "mic" {
		t.Errorf("expected inner name, got %q", source.Name())
	}
}

func TestExclusiveSource_WaitingListenHonorsContext(t *testing.T) {
	inner := &overlapSource{hold: 200 * time.Millisecond}
	source := newExclusiveSource(inner)

	go source.Listen(context.Background())
	for inner.active.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := source.Listen(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded while waiting, got %v", err)
	}
}
