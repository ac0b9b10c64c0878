package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"feedback360-go/internal/domain/batch"
	"feedback360-go/internal/domain/lifecycle"
	"github.com/google/uuid"
)

const MaxBulkEmployees = 1000

type CacheInvalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}

type Service struct {
	repo        Repository
	invalidator CacheInvalidator
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, string) error { return nil }

func NewService(repo Repository, invalidator CacheInvalidator) *Service {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &Service{repo: repo, invalidator: invalidator}
}

// ResolveEmployeeCode maps an external employee code to an active employee of the tenant.
func (s *Service) ResolveEmployeeCode(ctx context.Context, tenantID, code string) (*Employee, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, ErrEmployeeCodeRequired
	}

	employee, err := s.repo.GetEmployeeByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	if !employee.State.IsActive() {
		return nil, ErrEmployeeInactive
	}
	return employee, nil
}

// LookupEmployeeCodes returns every known employee (any state) for the given
// codes, keyed by normalized code. Unknown codes are absent from the map.
func (s *Service) LookupEmployeeCodes(ctx context.Context, tenantID string, codes []string) (map[string]EmployeeSnapshot, error) {
	unique := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = normalizeCode(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		unique = append(unique, code)
	}

	if len(unique) == 0 {
		return map[string]EmployeeSnapshot{}, nil
	}
	return s.repo.GetEmployeeSnapshots(ctx, tenantID, unique)
}

// ResolveEmployeeCodes resolves every code in input order. A code that cannot
// be used carries the reason in Err; only store failures are returned as error.
func (s *Service) ResolveEmployeeCodes(ctx context.Context, tenantID string, codes []string) ([]CodeResolution, error) {
	known, err := s.LookupEmployeeCodes(ctx, tenantID, codes)
	if err != nil {
		return nil, err
	}

	resolutions := make([]CodeResolution, 0, len(codes))
	for _, raw := range codes {
		code := normalizeCode(raw)
		resolution := CodeResolution{Code: code}

		snapshot, ok := known[code]
		switch {
		case code == "":
			resolution.Err = ErrEmployeeCodeRequired
		case !ok:
			resolution.Err = ErrEmployeeNotFound
		case !snapshot.State.IsActive():
			resolution.Err = ErrEmployeeInactive
		default:
			resolution.Employee = &snapshot
		}
		resolutions = append(resolutions, resolution)
	}
	return resolutions, nil
}

func (s *Service) GetSubject(ctx context.Context, tenantID, subjectID string) (*Subject, error) {
	if _, err := uuid.Parse(subjectID); err != nil {
		return nil, ErrSubjectNotFound
	}
	return s.repo.GetSubject(ctx, tenantID, subjectID)
}

func (s *Service) GetEvaluator(ctx context.Context, tenantID, evaluatorID string) (*Evaluator, error) {
	if _, err := uuid.Parse(evaluatorID); err != nil {
		return nil, ErrEvaluatorNotFound
	}
	return s.repo.GetEvaluator(ctx, tenantID, evaluatorID)
}

func (s *Service) LocateSubject(ctx context.Context, subjectID string) (string, bool, error) {
	if _, err := uuid.Parse(subjectID); err != nil {
		return "", false, nil
	}
	return s.repo.LocateSubject(ctx, subjectID)
}

func (s *Service) LocateEvaluator(ctx context.Context, evaluatorID string) (string, bool, error) {
	if _, err := uuid.Parse(evaluatorID); err != nil {
		return "", false, nil
	}
	return s.repo.LocateEvaluator(ctx, evaluatorID)
}

// EnsureSubject returns the employee's subject wrapper, creating or
// reactivating it on first use.
func (s *Service) EnsureSubject(ctx context.Context, tenantID, employeeID string) (*Subject, error) {
	if err := s.requireActiveEmployee(ctx, tenantID, employeeID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetSubjectByEmployee(ctx, tenantID, employeeID)
	switch {
	case err == nil:
		if !existing.State.IsActive() {
			if err := s.repo.UpdateSubjectState(ctx, tenantID, existing.ID, lifecycle.Active); err != nil {
				return nil, err
			}
			existing.State = lifecycle.Active
		}
		return existing, nil
	case !errors.Is(err, ErrSubjectNotFound):
		return nil, err
	}

	subject := Subject{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		EmployeeID: employeeID,
		State:      lifecycle.Active,
	}
	if err := s.repo.CreateSubject(ctx, &subject); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return s.repo.GetSubjectByEmployee(ctx, tenantID, employeeID)
		}
		return nil, err
	}
	return &subject, nil
}

// EnsureEvaluator is the evaluator-side twin of EnsureSubject.
func (s *Service) EnsureEvaluator(ctx context.Context, tenantID, employeeID string) (*Evaluator, error) {
	if err := s.requireActiveEmployee(ctx, tenantID, employeeID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetEvaluatorByEmployee(ctx, tenantID, employeeID)
	switch {
	case err == nil:
		if !existing.State.IsActive() {
			if err := s.repo.UpdateEvaluatorState(ctx, tenantID, existing.ID, lifecycle.Active); err != nil {
				return nil, err
			}
			existing.State = lifecycle.Active
		}
		return existing, nil
	case !errors.Is(err, ErrEvaluatorNotFound):
		return nil, err
	}

	evaluator := Evaluator{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		EmployeeID: employeeID,
		State:      lifecycle.Active,
	}
	if err := s.repo.CreateEvaluator(ctx, &evaluator); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return s.repo.GetEvaluatorByEmployee(ctx, tenantID, employeeID)
		}
		return nil, err
	}
	return &evaluator, nil
}

func (s *Service) ListEmployees(ctx context.Context, tenantID string) ([]Employee, error) {
	return s.repo.ListEmployees(ctx, tenantID)
}

func (s *Service) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*Employee, error) {
	employee, err := buildEmployee(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// BulkCreateEmployees creates each row independently; a failed row never
// aborts the rows after it.
func (s *Service) BulkCreateEmployees(ctx context.Context, tenantID string, inputs []CreateEmployeeInput) (batch.Envelope[EmployeeOutcome], error) {
	if len(inputs) > MaxBulkEmployees {
		return batch.Envelope[EmployeeOutcome]{}, fmt.Errorf("%w: %d > %d", ErrTooManyEmployees, len(inputs), MaxBulkEmployees)
	}

	result := batch.NewEnvelope[EmployeeOutcome](len(inputs))
	seen := make(map[string]int, len(inputs))

	for i, input := range inputs {
		row := i + 1
		input.TenantID = tenantID
		code := normalizeCode(input.EmployeeCode)
		outcome := EmployeeOutcome{Row: row, EmployeeCode: code}

		if first, ok := seen[code]; ok && code != "" {
			message := fmt.Sprintf("row %d: employee code %q duplicates row %d", row, code, first)
			outcome.Status = batch.ItemFailed
			outcome.Error = &batch.ItemError{Code: batch.ErrorCodeDuplicate, Message: message}
			result.Fail(outcome, message)
			continue
		}
		seen[code] = row

		employee, err := s.CreateEmployee(ctx, input)
		if err != nil {
			code, message := employeeErrorCode(err)
			message = fmt.Sprintf("row %d: %s", row, message)
			outcome.Status = batch.ItemFailed
			outcome.Error = &batch.ItemError{Code: code, Message: message}
			result.Fail(outcome, message)
			continue
		}

		outcome.Status = batch.ItemCreated
		outcome.EmployeeID = &employee.ID
		result.Succeed(outcome)
	}

	result.Finish("employees.bulk_create")
	return result, nil
}

// DeactivateEmployee soft-deletes the employee. Its relationship history is kept.
func (s *Service) DeactivateEmployee(ctx context.Context, tenantID, employeeID string) error {
	if _, err := uuid.Parse(employeeID); err != nil {
		return ErrEmployeeNotFound
	}
	employee, err := s.repo.GetEmployeeByID(ctx, tenantID, employeeID)
	if err != nil {
		return err
	}
	if !employee.State.IsActive() {
		return ErrEmployeeNotFound
	}

	if err := s.repo.UpdateEmployeeState(ctx, tenantID, employeeID, lifecycle.Deactivated); err != nil {
		return err
	}
	return s.invalidator.Invalidate(ctx, tenantID)
}

func (s *Service) requireActiveEmployee(ctx context.Context, tenantID, employeeID string) error {
	employee, err := s.repo.GetEmployeeByID(ctx, tenantID, employeeID)
	if err != nil {
		return err
	}
	if !employee.State.IsActive() {
		return ErrEmployeeInactive
	}
	return nil
}

func buildEmployee(input CreateEmployeeInput) (*Employee, error) {
	code := normalizeCode(input.EmployeeCode)
	if code == "" {
		return nil, ErrEmployeeCodeRequired
	}

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return nil, ErrInvalidEmployee
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmployee
	}

	var department *string
	if input.Department != nil {
		if trimmed := strings.TrimSpace(*input.Department); trimmed != "" {
			department = &trimmed
		}
	}

	return &Employee{
		ID:           uuid.NewString(),
		TenantID:     input.TenantID,
		EmployeeCode: code,
		Name:         name,
		Email:        strings.ToLower(email),
		Department:   department,
		State:        lifecycle.Active,
	}, nil
}

func employeeErrorCode(err error) (batch.ErrorCode, string) {
	switch {
	case errors.Is(err, ErrEmployeeCodeRequired), errors.Is(err, ErrInvalidEmployee):
		return batch.ErrorCodeInvalidRequest, err.Error()
	case errors.Is(err, ErrEmployeeCodeTaken):
		return batch.ErrorCodeDuplicate, err.Error()
	default:
		return batch.ErrorCodeInternalError, "internal error"
	}
}

func normalizeCode(code string) string {
	return strings.TrimSpace(code)
}
