package inmemory

import (
	"context"
	"sync"
	"time"

	emailingdomain "feedback360-go/internal/domain/emailing"
)

// EmailingCache keeps one computed list per tenant. An entry expires after
// slidingTTL without reads, and after absoluteTTL regardless of reads.
type EmailingCache struct {
	mu          sync.Mutex
	items       map[string]emailingItem
	generations map[string]int64
	// epoch moves on Clear and is part of every tenant's generation, so a
	// cold read of a tenant with no entry is fenced too.
	epoch       int64
	slidingTTL  time.Duration
	absoluteTTL time.Duration
	now         func() time.Time
}

type emailingItem struct {
	value      []emailingdomain.Item
	lastAccess time.Time
	createdAt  time.Time
}

func NewEmailingCache(slidingTTL, absoluteTTL time.Duration) *EmailingCache {
	return &EmailingCache{
		items:       make(map[string]emailingItem),
		generations: make(map[string]int64),
		slidingTTL:  slidingTTL,
		absoluteTTL: absoluteTTL,
		now:         time.Now,
	}
}

func (c *EmailingCache) Generation(_ context.Context, tenantID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation(tenantID), nil
}

func (c *EmailingCache) Get(_ context.Context, tenantID string) ([]emailingdomain.Item, bool, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[tenantID]
	if !ok {
		return nil, false, nil
	}
	if c.expired(item, now) {
		delete(c.items, tenantID)
		return nil, false, nil
	}

	item.lastAccess = now
	c.items[tenantID] = item
	return cloneItems(item.value), true, nil
}

func (c *EmailingCache) Set(_ context.Context, tenantID string, generation int64, items []emailingdomain.Item) error {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation(tenantID) != generation {
		return nil
	}
	c.items[tenantID] = emailingItem{
		value:      cloneItems(items),
		lastAccess: now,
		createdAt:  now,
	}
	return nil
}

func (c *EmailingCache) Invalidate(_ context.Context, tenantID string) error {
	c.mu.Lock()
	delete(c.items, tenantID)
	c.generations[tenantID]++
	c.mu.Unlock()
	return nil
}

func (c *EmailingCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.epoch++
	c.items = make(map[string]emailingItem)
	c.mu.Unlock()
	return nil
}

// generation must be called with mu held. Both counters only grow, so their
// sum changes whenever either does.
func (c *EmailingCache) generation(tenantID string) int64 {
	return c.epoch + c.generations[tenantID]
}

func (c *EmailingCache) expired(item emailingItem, now time.Time) bool {
	if c.slidingTTL > 0 && !item.lastAccess.Add(c.slidingTTL).After(now) {
		return true
	}
	return c.absoluteTTL > 0 && !item.createdAt.Add(c.absoluteTTL).After(now)
}

func cloneItems(items []emailingdomain.Item) []emailingdomain.Item {
	if items == nil {
		return nil
	}
	cloned := make([]emailingdomain.Item, len(items))
	for i, item := range items {
		item.OutstandingSubjects = append([]string(nil), item.OutstandingSubjects...)
		item.AssignmentIDs = append([]string(nil), item.AssignmentIDs...)
		cloned[i] = item
	}
	return cloned
}
