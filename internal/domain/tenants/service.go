package tenants

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"feedback360-go/internal/domain/lifecycle"
	"github.com/google/uuid"
)

const (
	tenantCodeLength   = 6
	tenantCodeAttempts = 10
)

// CacheInvalidator drops tenant-scoped derived data when a tenant goes away.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}

type Service struct {
	repo        Repository
	cache       Cache
	cacheTTL    time.Duration
	invalidator CacheInvalidator
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cache: noopCache{}}
}

func (s *Service) WithCache(cache Cache, ttl time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

func (s *Service) WithInvalidator(invalidator CacheInvalidator) *Service {
	s.invalidator = invalidator
	return s
}

// GetTenant returns an active tenant. Deactivated tenants are reported as not found.
func (s *Service) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	if cached, ok := s.cache.GetByID(id); ok {
		return cached, nil
	}

	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tenant.State.IsActive() {
		return nil, ErrTenantNotFound
	}

	s.cache.SetByID(id, tenant, s.cacheTTL)
	return tenant, nil
}

func (s *Service) GetTenantByCode(ctx context.Context, code string) (*Tenant, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrTenantNotFound
	}

	tenant, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !tenant.State.IsActive() {
		return nil, ErrTenantNotFound
	}
	return tenant, nil
}

func (s *Service) CreateTenant(ctx context.Context, name string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	var result Tenant
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		tenant := Tenant{
			ID:    uuid.NewString(),
			Name:  name,
			Code:  code,
			State: lifecycle.Active,
		}
		if err := tx.Create(ctx, &tenant); err != nil {
			return err
		}

		result = tenant
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) RenameTenant(ctx context.Context, id, name string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	tenant, err := s.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateName(ctx, tenant.ID, name); err != nil {
		return nil, err
	}
	s.cache.DeleteByID(tenant.ID)

	renamed := *tenant
	renamed.Name = name
	return &renamed, nil
}

// DeactivateTenant soft-deletes the tenant and clears its derived caches.
func (s *Service) DeactivateTenant(ctx context.Context, id string) error {
	tenant, err := s.GetTenant(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateState(ctx, tenant.ID, lifecycle.Deactivated); err != nil {
		return err
	}

	s.cache.DeleteByID(tenant.ID)
	if s.invalidator != nil {
		return s.invalidator.Invalidate(ctx, tenant.ID)
	}
	return nil
}

func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < tenantCodeAttempts; i++ {
		code, err := generateCode(tenantCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

func generateCode(length int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}
