package web

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
)

// ClipStore is the web player: it copies each synthesized clip into memory
// under a fresh id so the page can fetch it after the temp file is gone.
// The oldest clips are evicted once max is reached.
type ClipStore struct {
	max int

	mu    sync.RWMutex
	clips map[string][]byte
	order []string
}

func NewClipStore(max int) *ClipStore {
	if max <= 0 {
		max = 256
	}
	return &ClipStore{
		max:   max,
		clips: make(map[string][]byte),
	}
}

func (s *ClipStore) Play(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading clip: %w", err)
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clips[id] = data
	s.order = append(s.order, id)
	for len(s.order) > s.max {
		delete(s.clips, s.order[0])
		s.order = s.order[1:]
	}

	return id, nil
}

func (s *ClipStore) Get(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.clips[id]
	return data, ok
}

func (s *ClipStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clips)
}
