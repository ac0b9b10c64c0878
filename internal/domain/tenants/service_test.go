package tenants

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"feedback360-go/internal/domain/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTenantRepo struct {
	tenants map[string]*Tenant
	gets    int
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[string]*Tenant)}
}

func (r *fakeTenantRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeTenantRepo) GetByID(ctx context.Context, id string) (*Tenant, error) {
	r.gets++
	tenant, ok := r.tenants[id]
	if !ok {
		return nil, ErrTenantNotFound
	}
	copied := *tenant
	return &copied, nil
}

func (r *fakeTenantRepo) GetByCode(ctx context.Context, code string) (*Tenant, error) {
	for _, tenant := range r.tenants {
		if tenant.Code == code {
			copied := *tenant
			return &copied, nil
		}
	}
	return nil, ErrTenantNotFound
}

func (r *fakeTenantRepo) Create(ctx context.Context, tenant *Tenant) error {
	copied := *tenant
	r.tenants[tenant.ID] = &copied
	return nil
}

func (r *fakeTenantRepo) UpdateName(ctx context.Context, id, name string) error {
	tenant, ok := r.tenants[id]
	if !ok {
		return ErrTenantNotFound
	}
	tenant.Name = name
	return nil
}

func (r *fakeTenantRepo) UpdateState(ctx context.Context, id string, state lifecycle.State) error {
	tenant, ok := r.tenants[id]
	if !ok {
		return ErrTenantNotFound
	}
	tenant.State = state
	return nil
}

func (r *fakeTenantRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	for _, tenant := range r.tenants {
		if tenant.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type mapCache struct {
	items map[string]Tenant
}

func (c *mapCache) GetByID(id string) (*Tenant, bool) {
	tenant, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return &tenant, true
}

func (c *mapCache) SetByID(id string, tenant *Tenant, ttl time.Duration) {
	c.items[id] = *tenant
}

func (c *mapCache) DeleteByID(id string) {
	delete(c.items, id)
}

type recordingInvalidator struct {
	tenants []string
	err     error
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, tenantID string) error {
	r.tenants = append(r.tenants, tenantID)
	return r.err
}

func TestCreateTenantTrimsNameAndGeneratesCode(t *testing.T) {
	svc := NewService(newFakeTenantRepo())

	tenant, err := svc.CreateTenant(context.Background(), "  Acme Corp ")
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", tenant.Name)
	assert.Len(t, tenant.Code, tenantCodeLength)
	assert.Equal(t, lifecycle.Active, tenant.State)
	assert.NotEmpty(t, tenant.ID)
}

func TestCreateTenantRequiresName(t *testing.T) {
	svc := NewService(newFakeTenantRepo())

	_, err := svc.CreateTenant(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestGetTenantUsesCache(t *testing.T) {
	repo := newFakeTenantRepo()
	cache := &mapCache{items: make(map[string]Tenant)}
	svc := NewService(repo).WithCache(cache, time.Minute)

	created, err := svc.CreateTenant(context.Background(), "Acme")
	require.NoError(t, err)

	_, err = svc.GetTenant(context.Background(), created.ID)
	require.NoError(t, err)
	_, err = svc.GetTenant(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.gets)
}

func TestDeactivateTenantHidesItAndInvalidatesCaches(t *testing.T) {
	repo := newFakeTenantRepo()
	cache := &mapCache{items: make(map[string]Tenant)}
	invalidator := &recordingInvalidator{}
	svc := NewService(repo).WithCache(cache, time.Minute).WithInvalidator(invalidator)

	created, err := svc.CreateTenant(context.Background(), "Acme")
	require.NoError(t, err)
	_, err = svc.GetTenant(context.Background(), created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateTenant(context.Background(), created.ID))

	_, err = svc.GetTenant(context.Background(), created.ID)
	assert.True(t, errors.Is(err, ErrTenantNotFound))
	assert.Equal(t, []string{created.ID}, invalidator.tenants)

	_, err = svc.GetTenantByCode(context.Background(), created.Code)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestRenameTenant(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := NewService(repo)

	created, err := svc.CreateTenant(context.Background(), "Acme")
	require.NoError(t, err)

	renamed, err := svc.RenameTenant(context.Background(), created.ID, "Acme Global")
	require.NoError(t, err)
	assert.Equal(t, "Acme Global", renamed.Name)
	assert.Equal(t, "Acme Global", repo.tenants[created.ID].Name)
}

func TestGetTenantByCodeIsCaseInsensitive(t *testing.T) {
	svc := NewService(newFakeTenantRepo())

	created, err := svc.CreateTenant(context.Background(), "Acme")
	require.NoError(t, err)

	found, err := svc.GetTenantByCode(context.Background(), " "+strings.ToLower(created.Code)+" ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
