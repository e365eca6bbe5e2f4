package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/sweetpotato0/agentchat/groupchat"
)

// InMemoryStore keeps session records in process memory. Useful for tests
// and single-process deployments.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*groupchat.Record
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*groupchat.Record),
	}
}

// Save persists a session record.
func (s *InMemoryStore) Save(_ context.Context, record *groupchat.Record) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("session record cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record.Clone()
	return nil
}

// Load returns a copy of the stored record.
func (s *InMemoryStore) Load(_ context.Context, id string) (*groupchat.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return record.Clone(), nil
}

// Delete removes a session record.
func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// List returns all session IDs.
func (s *InMemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids, nil
}

// Count returns the number of stored sessions.
func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Exists checks if a session exists.
func (s *InMemoryStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[id]
	return ok, nil
}
