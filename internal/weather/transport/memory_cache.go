package transport

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps responses for the lifetime of the process.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{store: gocache.New(gocache.NoExpiration, 0)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, body []byte) error {
	m.store.Set(key, body, gocache.NoExpiration)
	return nil
}

func (m *MemoryCache) Close() error {
	m.store.Flush()
	return nil
}
