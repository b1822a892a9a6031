package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with expiration, used when no Redis
// host is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*memoryItem
}

type memoryItem struct {
	value      string
	expireTime time.Time
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]*memoryItem),
	}

	go store.cleanupExpired()

	return store
}

// Set stores a key-value pair with expiration.
func (ms *MemoryStore) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = &memoryItem{
		value:      value,
		expireTime: time.Now().Add(ttl),
	}
	return nil
}

// Get retrieves a value by key.
func (ms *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[key]
	if !exists {
		return "", false, nil
	}
	if time.Now().After(item.expireTime) {
		return "", false, nil
	}
	return item.value, true, nil
}

// cleanupExpired periodically removes expired items.
func (ms *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ms.mu.Lock()
		now := time.Now()
		for key, item := range ms.items {
			if now.After(item.expireTime) {
				delete(ms.items, key)
			}
		}
		ms.mu.Unlock()
	}
}
