package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process memory. It backs local development
// and the test suite.
// Writes publish to watchers before releasing mu, so watchers see states in
// write order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	hub         *watchHub
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]interface{}),
		hub:         newWatchHub(),
	}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Data: copyMap(data)}, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data map[string]interface{}, merge bool) error {
	s.mu.Lock()
	docs := s.collection(collection)
	next := copyMap(data)
	if existing, ok := docs[id]; ok && merge {
		next = copyMap(existing)
		for k, v := range data {
			next[k] = copyValue(v)
		}
	}
	docs[id] = next
	s.hub.publish(collection, id, &Document{ID: id, Data: copyMap(next)})
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := uuid.New().String()
	return id, s.Set(ctx, collection, id, data, false)
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	existing, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range fields {
		existing[k] = copyValue(v)
	}
	s.hub.publish(collection, id, &Document{ID: id, Data: copyMap(existing)})
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	delete(s.collections[collection], id)
	s.hub.publish(collection, id, nil)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Document
	for id, data := range s.collections[collection] {
		if matches(data, filters) {
			out = append(out, Document{ID: id, Data: copyMap(data)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Watch reads the initial state and subscribes under the read lock, so no
// write lands between the two.
func (s *MemoryStore) Watch(ctx context.Context, collection, id string) (<-chan *Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var initial *Document
	if data, ok := s.collections[collection][id]; ok {
		initial = &Document{ID: id, Data: copyMap(data)}
	}
	return s.hub.subscribe(ctx, collection, id, initial), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) collection(name string) map[string]map[string]interface{} {
	docs, ok := s.collections[name]
	if !ok {
		docs = make(map[string]map[string]interface{})
		s.collections[name] = docs
	}
	return docs
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return copyMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = copyMap(item)
		}
		return out
	case []string:
		return stringsToSlice(val)
	}
	return v
}
