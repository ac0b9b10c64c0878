package tenants

import (
	"context"

	"feedback360-go/internal/domain/lifecycle"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetByCode(ctx context.Context, code string) (*Tenant, error)
	Create(ctx context.Context, tenant *Tenant) error
	UpdateName(ctx context.Context, id, name string) error
	UpdateState(ctx context.Context, id string, state lifecycle.State) error
	IsCodeTaken(ctx context.Context, code string) (bool, error)
}
