package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process KeyedStore used by tests and single-client
// development runs.  Several MemoryStore handles can share one underlying
// map via Shared(), which models independent clients attached to the same
// persisted store.
type MemoryStore struct {
	origin string
	state  *memoryState
}

// memoryState is the shared backing storage.  Subscribers receive change
// signals on buffered channels; a full channel drops the signal, which is
// acceptable because consumers reconcile periodically anyway.
type memoryState struct {
	mu   sync.Mutex
	data map[string][]byte
	subs map[chan Change]struct{}
}

// NewMemoryStore returns a MemoryStore with its own private backing state.
// origin identifies the owning client in emitted change signals.
func NewMemoryStore(origin string) *MemoryStore {
	return &MemoryStore{
		origin: origin,
		state: &memoryState{
			data: make(map[string][]byte),
			subs: make(map[chan Change]struct{}),
		},
	}
}

// Shared returns a second handle onto the same backing state with a
// different origin id, modelling another client of the same store.
func (s *MemoryStore) Shared(origin string) *MemoryStore {
	return &MemoryStore{origin: origin, state: s.state}
}

// Load implements KeyedStore.
func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	v, ok := s.state.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Save implements KeyedStore.  The write and the fan-out happen under one
// lock, so signals are emitted in commit order.
func (s *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.data[key] = stored
	for sub := range s.state.subs {
		select {
		case sub <- Change{Key: key, Origin: s.origin}:
		default: // subscriber is slow; it will catch up on its next reconcile
		}
	}
	return nil
}

// Watch implements KeyedStore.
func (s *MemoryStore) Watch(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, 16)
	s.state.mu.Lock()
	s.state.subs[ch] = struct{}{}
	s.state.mu.Unlock()
	go func() {
		<-ctx.Done()
		s.state.mu.Lock()
		delete(s.state.subs, ch)
		s.state.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// Close implements KeyedStore.  Nothing to release.
func (s *MemoryStore) Close() error { return nil }
