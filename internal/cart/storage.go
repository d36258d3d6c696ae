package cart

import (
	"context"
	"sync"
)

// StorageKey is the single storage entry holding the serialized cart.
const StorageKey = "ecom_cart"

// Storage is a durable string key/value store. SetItem must be all-or-nothing:
// after a failed call the previous value is still readable.
type Storage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
}

// Watcher reports keys changed by other clients sharing the same storage.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (s *MemoryStorage) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}
