package emailing

import "context"

// Cache stores computed lists per tenant. Set must drop the value when the
// tenant's generation moved past generation, so a slow cold read never
// overwrites an invalidation that happened after it started.
type Cache interface {
	Generation(ctx context.Context, tenantID string) (int64, error)
	Get(ctx context.Context, tenantID string) ([]Item, bool, error)
	Set(ctx context.Context, tenantID string, generation int64, items []Item) error
	Invalidate(ctx context.Context, tenantID string) error
	Clear(ctx context.Context) error
}

type noopCache struct{}

func (noopCache) Generation(context.Context, string) (int64, error) {
	return 0, nil
}

func (noopCache) Get(context.Context, string) ([]Item, bool, error) {
	return nil, false, nil
}

func (noopCache) Set(context.Context, string, int64, []Item) error {
	return nil
}

func (noopCache) Invalidate(context.Context, string) error {
	return nil
}

func (noopCache) Clear(context.Context) error {
	return nil
}
