package workspace

import (
	"context"
	"sync"
)

// Entry is a registered workspace artifact.
type Entry struct {
	Key  string `json:"key"`
	Path string `json:"path"`
}

// Store is the storage backend of an [Index]. Implementations must be safe
// for concurrent use and give Put insert-or-overwrite semantics.
type Store interface {
	// Put maps key to path, replacing any previous mapping.
	Put(ctx context.Context, key, path string) error

	// Get returns the path for key. A missing key is reported as ok=false,
	// not as an error.
	Get(ctx context.Context, key string) (path string, ok bool, err error)

	// Entries returns every mapping in unspecified order.
	Entries(ctx context.Context) ([]Entry, error)

	// Clear removes every mapping.
	Clear(ctx context.Context) error
}

// MemoryStore is an in-process Store backed by a sync.Map.
type MemoryStore struct {
	m sync.Map // key -> path
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, key, path string) error {
	s.m.Store(key, path)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.m.Load(key)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

// Entries implements Store.
func (s *MemoryStore) Entries(_ context.Context) ([]Entry, error) {
	var out []Entry
	s.m.Range(func(k, v any) bool {
		out = append(out, Entry{Key: k.(string), Path: v.(string)})
		return true
	})
	return out, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.m.Clear()
	return nil
}

var _ Store = (*MemoryStore)(nil)
