package store

import (
	"context"
	"sync"

	"github.com/vishalk7890/Support-IQ/pkg/errors"
	"github.com/vishalk7890/Support-IQ/pkg/insight"
)

// MemoryTranscriptStore is an in-memory TranscriptStore used in tests and
// local development. Keys enumerate in insertion order.
type MemoryTranscriptStore struct {
	mu      sync.RWMutex
	keys    []string
	records map[string][]byte

	// ListErr and GetErr force the corresponding operation to fail
	ListErr error
	GetErr  error
}

// NewMemoryTranscriptStore creates an empty in-memory transcript store
func NewMemoryTranscriptStore() *MemoryTranscriptStore {
	return &MemoryTranscriptStore{
		records: make(map[string][]byte),
	}
}

// Put adds or replaces a transcript record
func (s *MemoryTranscriptStore) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.records[key] = data
}

// ListTranscripts returns up to maxKeys keys with the given prefix
func (s *MemoryTranscriptStore) ListTranscripts(ctx context.Context, prefix string, maxKeys int32) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ListErr != nil {
		return nil, s.ListErr
	}

	var out []string
	for _, key := range s.keys {
		if int32(len(out)) >= maxKeys {
			break
		}
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, key)
		}
	}
	return out, nil
}

// GetTranscript returns the stored record for one key
func (s *MemoryTranscriptStore) GetTranscript(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.GetErr != nil {
		return nil, s.GetErr
	}

	data, exists := s.records[key]
	if !exists {
		return nil, errors.ErrTranscriptNotFound
	}
	return data, nil
}

// MemoryInsightStore is an in-memory InsightStore used in tests
type MemoryInsightStore struct {
	mu       sync.RWMutex
	insights map[string]*insight.Insight
	order    []string

	// PutErr forces writes to fail
	PutErr error
}

// NewMemoryInsightStore creates an empty in-memory insight store
func NewMemoryInsightStore() *MemoryInsightStore {
	return &MemoryInsightStore{
		insights: make(map[string]*insight.Insight),
	}
}

// PutInsight stores one insight record by id
func (s *MemoryInsightStore) PutInsight(ctx context.Context, record *insight.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.PutErr != nil {
		return s.PutErr
	}

	if _, exists := s.insights[record.ID]; !exists {
		s.order = append(s.order, record.ID)
	}
	s.insights[record.ID] = record
	return nil
}

// All returns stored insights in write order
func (s *MemoryInsightStore) All() []*insight.Insight {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*insight.Insight, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.insights[id])
	}
	return out
}

// Count returns the number of stored insights
func (s *MemoryInsightStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.insights)
}
