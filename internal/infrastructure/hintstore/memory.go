package hintstore

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"broker_market/internal/domain/entity"
)

// Memory is the single-process hint store, suitable when one engine instance
// serves all clients. Hints expire after the configured TTL so abandoned
// announcements don't pile up.
type Memory struct {
	cache *gocache.Cache
	mu    sync.Mutex
}

func NewMemory(ttl, cleanupInterval time.Duration) *Memory {
	return &Memory{cache: gocache.New(ttl, cleanupInterval)}
}

func (m *Memory) Put(_ context.Context, ownerID, itemID string, decision entity.SellDecision) error {
	m.cache.SetDefault(key(ownerID, itemID), decision)
	return nil
}

func (m *Memory) Take(_ context.Context, ownerID, itemID string) (entity.SellDecision, bool, error) {
	// get+delete must be one step, otherwise two settlements racing on the
	// same item could both see the hint
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(ownerID, itemID)
	v, ok := m.cache.Get(k)
	if !ok {
		return entity.SellDecision{}, false, nil
	}
	m.cache.Delete(k)

	decision, ok := v.(entity.SellDecision)
	if !ok {
		return entity.SellDecision{}, false, nil
	}
	return decision, true, nil
}
