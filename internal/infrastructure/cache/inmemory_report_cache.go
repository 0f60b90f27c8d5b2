package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/application/report"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryReportCache keeps reports in process memory. Entries are not
// shared across instances.
type InMemoryReportCache struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]map[string]entry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReportCache starts a cache with a background sweep of expired entries
func NewInMemoryReportCache(ttl time.Duration) *InMemoryReportCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	c := &InMemoryReportCache{
		entries:  make(map[uuid.UUID]map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

// Get returns a copy of the cached value
func (c *InMemoryReportCache) Get(_ context.Context, ownerID uuid.UUID, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[ownerID][key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set stores a copy of value
func (c *InMemoryReportCache) Set(_ context.Context, ownerID uuid.UUID, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	owner, ok := c.entries[ownerID]
	if !ok {
		owner = make(map[string]entry)
		c.entries[ownerID] = owner
	}
	owner[key] = entry{value: append([]byte(nil), value...), expiresAt: c.now().Add(c.ttl)}
	return nil
}

// InvalidateOwner drops all entries of the owner
func (c *InMemoryReportCache) InvalidateOwner(_ context.Context, ownerID uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, ownerID)
	c.mu.Unlock()
	return nil
}

// Close stops the sweep goroutine. Safe to call multiple times.
func (c *InMemoryReportCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryReportCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryReportCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for ownerID, owner := range c.entries {
		for key, e := range owner {
			if !now.Before(e.expiresAt) {
				delete(owner, key)
			}
		}
		if len(owner) == 0 {
			delete(c.entries, ownerID)
		}
	}
}

// Size returns the number of live and expired entries not yet swept
func (c *InMemoryReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, owner := range c.entries {
		n += len(owner)
	}
	return n
}

var _ report.Cache = (*InMemoryReportCache)(nil)
