package db

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps documents in process memory. Used for tests and
// STORE_DRIVER=memory; contents are lost on restart.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string][]byte{}}
}

func (s *MemoryStore) Read(_ context.Context, name string) ([]json.RawMessage, error) {
	s.mu.Lock()
	body, ok := s.docs[name]
	s.mu.Unlock()
	if !ok {
		return []json.RawMessage{}, nil
	}
	return decodeDocument(name, body), nil
}

func (s *MemoryStore) Write(_ context.Context, name string, records []json.RawMessage) error {
	body, err := encodeDocument(records)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[name] = body
	s.mu.Unlock()
	return nil
}

// Raw exposes the stored bytes of a document.
func (s *MemoryStore) Raw(name string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.docs[name]...)
}

// Put replaces a document's raw body, bypassing encoding.
func (s *MemoryStore) Put(name string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = append([]byte(nil), body...)
}
