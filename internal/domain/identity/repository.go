package identity

import (
	"context"

	"feedback360-go/internal/domain/lifecycle"
)

type Repository interface {
	GetEmployeeByID(ctx context.Context, tenantID, employeeID string) (*Employee, error)
	GetEmployeeByCode(ctx context.Context, tenantID, code string) (*Employee, error)
	GetEmployeeSnapshots(ctx context.Context, tenantID string, codes []string) (map[string]EmployeeSnapshot, error)
	ListEmployees(ctx context.Context, tenantID string) ([]Employee, error)
	CreateEmployee(ctx context.Context, employee *Employee) error
	UpdateEmployeeState(ctx context.Context, tenantID, employeeID string, state lifecycle.State) error

	GetSubject(ctx context.Context, tenantID, subjectID string) (*Subject, error)
	GetEvaluator(ctx context.Context, tenantID, evaluatorID string) (*Evaluator, error)
	GetSubjectByEmployee(ctx context.Context, tenantID, employeeID string) (*Subject, error)
	GetEvaluatorByEmployee(ctx context.Context, tenantID, employeeID string) (*Evaluator, error)
	CreateSubject(ctx context.Context, subject *Subject) error
	CreateEvaluator(ctx context.Context, evaluator *Evaluator) error
	UpdateSubjectState(ctx context.Context, tenantID, subjectID string, state lifecycle.State) error
	UpdateEvaluatorState(ctx context.Context, tenantID, evaluatorID string, state lifecycle.State) error

	// LocateSubject and LocateEvaluator ignore tenancy. They exist only to tell
	// a cross-tenant reference apart from a missing one.
	LocateSubject(ctx context.Context, subjectID string) (string, bool, error)
	LocateEvaluator(ctx context.Context, evaluatorID string) (string, bool, error)
}
