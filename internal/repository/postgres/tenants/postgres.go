package tenants

import (
	"context"
	"errors"

	"feedback360-go/internal/domain/lifecycle"
	tenantsdomain "feedback360-go/internal/domain/tenants"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(tenantsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*tenantsdomain.Tenant, error) {
	var tenant tenantsdomain.Tenant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenantsdomain.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*tenantsdomain.Tenant, error) {
	var tenant tenantsdomain.Tenant
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenantsdomain.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *PostgresRepository) Create(ctx context.Context, tenant *tenantsdomain.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id, name string) error {
	result := r.db.WithContext(ctx).
		Model(&tenantsdomain.Tenant{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return tenantsdomain.ErrTenantNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateState(ctx context.Context, id string, state lifecycle.State) error {
	result := r.db.WithContext(ctx).
		Model(&tenantsdomain.Tenant{}).
		Where("id = ?", id).
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return tenantsdomain.ErrTenantNotFound
	}
	return nil
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tenantsdomain.Tenant{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
