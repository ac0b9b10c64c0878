package identity

import (
	"time"

	"feedback360-go/internal/domain/batch"
	"feedback360-go/internal/domain/lifecycle"
)

type Role string

const (
	RoleSubject   Role = "subject"
	RoleEvaluator Role = "evaluator"
)

func (r Role) Valid() bool {
	return r == RoleSubject || r == RoleEvaluator
}

type Employee struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	TenantID     string          `gorm:"type:uuid;not null;uniqueIndex:ux_employees_tenant_code,priority:1"`
	EmployeeCode string          `gorm:"column:employee_code;not null;uniqueIndex:ux_employees_tenant_code,priority:2"`
	Name         string          `gorm:"not null"`
	Email        string          `gorm:"not null"`
	Department   *string         `gorm:"column:department"`
	State        lifecycle.State `gorm:"type:varchar(16);not null;default:active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

// Subject marks an employee as eligible to be rated.
type Subject struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	TenantID   string          `gorm:"type:uuid;not null;uniqueIndex:ux_subjects_tenant_employee,priority:1"`
	EmployeeID string          `gorm:"type:uuid;not null;uniqueIndex:ux_subjects_tenant_employee,priority:2"`
	State      lifecycle.State `gorm:"type:varchar(16);not null;default:active"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

// Evaluator marks an employee as eligible to rate others.
type Evaluator struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	TenantID   string          `gorm:"type:uuid;not null;uniqueIndex:ux_evaluators_tenant_employee,priority:1"`
	EmployeeID string          `gorm:"type:uuid;not null;uniqueIndex:ux_evaluators_tenant_employee,priority:2"`
	State      lifecycle.State `gorm:"type:varchar(16);not null;default:active"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

// EmployeeSnapshot is an employee together with its role wrappers, if any.
type EmployeeSnapshot struct {
	Employee
	SubjectID   *string
	EvaluatorID *string
}

type CreateEmployeeInput struct {
	TenantID     string
	EmployeeCode string
	Name         string
	Email        string
	Department   *string
}

type EmployeeOutcome struct {
	Row          int              `json:"row"`
	EmployeeCode string           `json:"employee_code"`
	EmployeeID   *string          `json:"employee_id,omitempty"`
	Status       batch.ItemStatus `json:"status"`
	Error        *batch.ItemError `json:"error,omitempty"`
}

// CodeResolution is the outcome of resolving one external employee code.
type CodeResolution struct {
	Code     string
	Employee *EmployeeSnapshot
	Err      error
}
