package inmemory

import (
	"sync"
	"time"

	tenantsdomain "feedback360-go/internal/domain/tenants"
)

type TenantCache struct {
	mu    sync.RWMutex
	items map[string]tenantItem
	now   func() time.Time
}

type tenantItem struct {
	value     tenantsdomain.Tenant
	expiresAt time.Time
}

func NewTenantCache() *TenantCache {
	return &TenantCache{
		items: make(map[string]tenantItem),
		now:   time.Now,
	}
}

func (c *TenantCache) GetByID(id string) (*tenantsdomain.Tenant, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[id]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, id)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	return &value, true
}

func (c *TenantCache) SetByID(id string, tenant *tenantsdomain.Tenant, ttl time.Duration) {
	if tenant == nil || ttl <= 0 {
		c.DeleteByID(id)
		return
	}

	c.mu.Lock()
	c.items[id] = tenantItem{
		value:     *tenant,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *TenantCache) DeleteByID(id string) {
	c.mu.Lock()
	delete(c.items, id)
	c.mu.Unlock()
}
