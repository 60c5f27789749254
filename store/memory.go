package store

import (
	"sync"

	"github.com/skillnet-dev/skillnet-go/domain"
)

// MemoryStore keeps the session in process memory. Used by tests and by
// embedders that manage persistence themselves.
type MemoryStore struct {
	mu       sync.RWMutex
	token    *Token
	snapshot *domain.User
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil
	}
	t := *s.token
	return &t
}

func (s *MemoryStore) SetToken(t *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t == nil {
		s.token = nil
		return
	}
	cp := *t
	s.token = &cp
}

func (s *MemoryStore) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
}

func (s *MemoryStore) Snapshot() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil
	}
	u := *s.snapshot
	return &u
}

func (s *MemoryStore) SetSnapshot(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.snapshot = nil
		return
	}
	cp := *u
	s.snapshot = &cp
}

func (s *MemoryStore) ClearSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
