package store

import (
	"context"
	"sync"

	"github.com/tata-ai/tata/pkg/silo"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps templates in process memory
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[silo.NodeTypeID]*silo.Template
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		templates: make(map[silo.NodeTypeID]*silo.Template),
	}
}

func (s *MemoryStore) LoadAll(ctx context.Context) (map[silo.NodeTypeID]*silo.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[silo.NodeTypeID]*silo.Template, len(s.templates))
	for node, tpl := range s.templates {
		out[node] = tpl.Clone()
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, node silo.NodeTypeID) (*silo.Template, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tpl, ok := s.templates[node]
	if !ok {
		return nil, false, nil
	}
	return tpl.Clone(), true, nil
}

func (s *MemoryStore) PutBand(ctx context.Context, node silo.NodeTypeID, band silo.BandID, data silo.BandData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, ok := s.templates[node]
	if !ok {
		tpl = silo.NewTemplate("")
		s.templates[node] = tpl
	}
	tpl.SetBand(band, data.Clone())
	return nil
}

func (s *MemoryStore) PutTemplate(ctx context.Context, node silo.NodeTypeID, tpl *silo.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates[node] = tpl.Clone()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
