package history

import (
	"context"
	"sync"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

// MemoryStore is a StateStore for tests and single-process deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, key string, state *router.State) error {
	data, err := Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.data[key] = data
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, key string) (*router.State, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrStoreClosed
	}
	data, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return Unmarshal(data)
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.data = nil
	return nil
}
