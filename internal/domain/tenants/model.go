package tenants

import (
	"time"

	"feedback360-go/internal/domain/lifecycle"
)

type Tenant struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"not null"`
	Code      string          `gorm:"size:6;not null;uniqueIndex"`
	State     lifecycle.State `gorm:"type:varchar(16);not null;default:active"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}
