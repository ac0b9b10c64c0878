package tenants

import "time"

type Cache interface {
	GetByID(id string) (*Tenant, bool)
	SetByID(id string, tenant *Tenant, ttl time.Duration)
	DeleteByID(id string)
}

type noopCache struct{}

func (noopCache) GetByID(string) (*Tenant, bool) {
	return nil, false
}

func (noopCache) SetByID(string, *Tenant, time.Duration) {}

func (noopCache) DeleteByID(string) {}
