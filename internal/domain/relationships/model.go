package relationships

import (
	"time"

	"feedback360-go/internal/domain/batch"
	"feedback360-go/internal/domain/lifecycle"
)

const (
	MaxBatchItems  = 500
	MaxLabelLength = 64
)

// Relationship is one labeled Subject-Evaluator edge. At most one active edge
// exists per (tenant, subject, evaluator).
type Relationship struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	TenantID      string          `gorm:"type:uuid;not null"`
	SubjectID     string          `gorm:"type:uuid;not null"`
	EvaluatorID   string          `gorm:"type:uuid;not null"`
	Label         string          `gorm:"column:relationship;not null"`
	State         lifecycle.State `gorm:"type:varchar(16);not null;default:active"`
	DeactivatedAt *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Relationship) TableName() string {
	return "subject_evaluators"
}

// Party is the display snapshot of one side of an edge.
type Party struct {
	ID           string
	EmployeeID   string
	EmployeeCode string
	Name         string
	Email        string
}

type RelationshipView struct {
	Relationship
	Subject   Party
	Evaluator Party
}

// IsSelf reports whether both sides of the edge are the same employee.
func (v RelationshipView) IsSelf() bool {
	return v.Subject.EmployeeID != "" && v.Subject.EmployeeID == v.Evaluator.EmployeeID
}

type Outcome struct {
	SubjectID      string           `json:"subject_id"`
	EvaluatorID    string           `json:"evaluator_id"`
	RelationshipID *string          `json:"relationship_id,omitempty"`
	Label          string           `json:"relationship"`
	Status         batch.ItemStatus `json:"status"`
	Error          *batch.ItemError `json:"error,omitempty"`
}

type AssignResult = batch.Envelope[Outcome]
