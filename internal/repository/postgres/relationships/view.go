package relationships

import (
	"time"

	"feedback360-go/internal/domain/lifecycle"
	relationshipsdomain "feedback360-go/internal/domain/relationships"
	"gorm.io/gorm"
)

const viewColumns = `subject_evaluators.id, subject_evaluators.tenant_id,
	subject_evaluators.subject_id, subject_evaluators.evaluator_id,
	subject_evaluators.relationship, subject_evaluators.state,
	subject_evaluators.deactivated_at, subject_evaluators.created_at, subject_evaluators.updated_at,
	subject_employees.id AS subject_employee_id, subject_employees.employee_code AS subject_employee_code,
	subject_employees.name AS subject_name, subject_employees.email AS subject_email,
	evaluator_employees.id AS evaluator_employee_id, evaluator_employees.employee_code AS evaluator_employee_code,
	evaluator_employees.name AS evaluator_name, evaluator_employees.email AS evaluator_email`

// ViewRow is the flat scan target for a relationship joined to both parties.
type ViewRow struct {
	ID                    string
	TenantID              string
	SubjectID             string
	EvaluatorID           string
	Relationship          string
	State                 lifecycle.State
	DeactivatedAt         *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	SubjectEmployeeID     string
	SubjectEmployeeCode   string
	SubjectName           string
	SubjectEmail          string
	EvaluatorEmployeeID   string
	EvaluatorEmployeeCode string
	EvaluatorName         string
	EvaluatorEmail        string
}

func (row ViewRow) View() relationshipsdomain.RelationshipView {
	return relationshipsdomain.RelationshipView{
		Relationship: relationshipsdomain.Relationship{
			ID:            row.ID,
			TenantID:      row.TenantID,
			SubjectID:     row.SubjectID,
			EvaluatorID:   row.EvaluatorID,
			Label:         row.Relationship,
			State:         row.State,
			DeactivatedAt: row.DeactivatedAt,
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
		},
		Subject: relationshipsdomain.Party{
			ID:           row.SubjectID,
			EmployeeID:   row.SubjectEmployeeID,
			EmployeeCode: row.SubjectEmployeeCode,
			Name:         row.SubjectName,
			Email:        row.SubjectEmail,
		},
		Evaluator: relationshipsdomain.Party{
			ID:           row.EvaluatorID,
			EmployeeID:   row.EvaluatorEmployeeID,
			EmployeeCode: row.EvaluatorEmployeeCode,
			Name:         row.EvaluatorName,
			Email:        row.EvaluatorEmail,
		},
	}
}

// ViewQuery selects active edges of a tenant joined to their active parties.
// Callers add filters, ordering and any extra columns.
func ViewQuery(db *gorm.DB, tenantID string, extraColumns ...string) *gorm.DB {
	columns := viewColumns
	for _, column := range extraColumns {
		columns += ", " + column
	}
	return db.
		Table("subject_evaluators").
		Select(columns).
		Joins("join subjects on subjects.id = subject_evaluators.subject_id and subjects.state = ?", lifecycle.Active).
		Joins("join employees subject_employees on subject_employees.id = subjects.employee_id and subject_employees.state = ?", lifecycle.Active).
		Joins("join evaluators on evaluators.id = subject_evaluators.evaluator_id and evaluators.state = ?", lifecycle.Active).
		Joins("join employees evaluator_employees on evaluator_employees.id = evaluators.employee_id and evaluator_employees.state = ?", lifecycle.Active).
		Where("subject_evaluators.tenant_id = ? AND subject_evaluators.state = ?", tenantID, lifecycle.Active)
}
