package identity

import (
	"context"
	"errors"

	identitydomain "feedback360-go/internal/domain/identity"
	"feedback360-go/internal/domain/lifecycle"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetEmployeeByID(ctx context.Context, tenantID, employeeID string) (*identitydomain.Employee, error) {
	var employee identitydomain.Employee
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, employeeID).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

func (r *PostgresRepository) GetEmployeeByCode(ctx context.Context, tenantID, code string) (*identitydomain.Employee, error) {
	var employee identitydomain.Employee
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_code = ?", tenantID, code).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

func (r *PostgresRepository) GetEmployeeSnapshots(ctx context.Context, tenantID string, codes []string) (map[string]identitydomain.EmployeeSnapshot, error) {
	type snapshotRow struct {
		identitydomain.Employee
		SubjectID   *string `gorm:"column:subject_id"`
		EvaluatorID *string `gorm:"column:evaluator_id"`
	}

	var rows []snapshotRow
	if err := r.db.WithContext(ctx).
		Table("employees").
		Select("employees.*, subjects.id AS subject_id, evaluators.id AS evaluator_id").
		Joins("left join subjects on subjects.employee_id = employees.id and subjects.tenant_id = employees.tenant_id and subjects.state = ?", lifecycle.Active).
		Joins("left join evaluators on evaluators.employee_id = employees.id and evaluators.tenant_id = employees.tenant_id and evaluators.state = ?", lifecycle.Active).
		Where("employees.tenant_id = ? AND employees.employee_code IN ?", tenantID, codes).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	snapshots := make(map[string]identitydomain.EmployeeSnapshot, len(rows))
	for _, row := range rows {
		snapshots[row.EmployeeCode] = identitydomain.EmployeeSnapshot{
			Employee:    row.Employee,
			SubjectID:   row.SubjectID,
			EvaluatorID: row.EvaluatorID,
		}
	}
	return snapshots, nil
}

func (r *PostgresRepository) ListEmployees(ctx context.Context, tenantID string) ([]identitydomain.Employee, error) {
	var employees []identitydomain.Employee
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND state = ?", tenantID, lifecycle.Active).
		Order("name asc").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *PostgresRepository) CreateEmployee(ctx context.Context, employee *identitydomain.Employee) error {
	err := r.db.WithContext(ctx).Create(employee).Error
	if isUniqueViolation(err) {
		return identitydomain.ErrEmployeeCodeTaken
	}
	return err
}

func (r *PostgresRepository) UpdateEmployeeState(ctx context.Context, tenantID, employeeID string, state lifecycle.State) error {
	result := r.db.WithContext(ctx).
		Model(&identitydomain.Employee{}).
		Where("tenant_id = ? AND id = ?", tenantID, employeeID).
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return identitydomain.ErrEmployeeNotFound
	}
	return nil
}

// GetSubject returns an active subject whose employee is active too.
func (r *PostgresRepository) GetSubject(ctx context.Context, tenantID, subjectID string) (*identitydomain.Subject, error) {
	var subject identitydomain.Subject
	err := r.db.WithContext(ctx).
		Joins("join employees on employees.id = subjects.employee_id").
		Where("subjects.tenant_id = ? AND subjects.id = ?", tenantID, subjectID).
		Where("subjects.state = ? AND employees.state = ?", lifecycle.Active, lifecycle.Active).
		First(&subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identitydomain.ErrSubjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *PostgresRepository) GetEvaluator(ctx context.Context, tenantID, evaluatorID string) (*identitydomain.Evaluator, error) {
	var evaluator identitydomain.Evaluator
	err := r.db.WithContext(ctx).
		Joins("join employees on employees.id = evaluators.employee_id").
		Where("evaluators.tenant_id = ? AND evaluators.id = ?", tenantID, evaluatorID).
		Where("evaluators.state = ? AND employees.state = ?", lifecycle.Active, lifecycle.Active).
		First(&evaluator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identitydomain.ErrEvaluatorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &evaluator, nil
}

func (r *PostgresRepository) GetSubjectByEmployee(ctx context.Context, tenantID, employeeID string) (*identitydomain.Subject, error) {
	var subject identitydomain.Subject
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID).
		First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrSubjectNotFound
		}
		return nil, err
	}
	return &subject, nil
}

func (r *PostgresRepository) GetEvaluatorByEmployee(ctx context.Context, tenantID, employeeID string) (*identitydomain.Evaluator, error) {
	var evaluator identitydomain.Evaluator
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID).
		First(&evaluator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrEvaluatorNotFound
		}
		return nil, err
	}
	return &evaluator, nil
}

func (r *PostgresRepository) CreateSubject(ctx context.Context, subject *identitydomain.Subject) error {
	err := r.db.WithContext(ctx).Create(subject).Error
	if isUniqueViolation(err) {
		return identitydomain.ErrAlreadyExists
	}
	return err
}

func (r *PostgresRepository) CreateEvaluator(ctx context.Context, evaluator *identitydomain.Evaluator) error {
	err := r.db.WithContext(ctx).Create(evaluator).Error
	if isUniqueViolation(err) {
		return identitydomain.ErrAlreadyExists
	}
	return err
}

func (r *PostgresRepository) UpdateSubjectState(ctx context.Context, tenantID, subjectID string, state lifecycle.State) error {
	return r.db.WithContext(ctx).
		Model(&identitydomain.Subject{}).
		Where("tenant_id = ? AND id = ?", tenantID, subjectID).
		Update("state", state).Error
}

func (r *PostgresRepository) UpdateEvaluatorState(ctx context.Context, tenantID, evaluatorID string, state lifecycle.State) error {
	return r.db.WithContext(ctx).
		Model(&identitydomain.Evaluator{}).
		Where("tenant_id = ? AND id = ?", tenantID, evaluatorID).
		Update("state", state).Error
}

func (r *PostgresRepository) LocateSubject(ctx context.Context, subjectID string) (string, bool, error) {
	return r.locate(ctx, "subjects", subjectID)
}

func (r *PostgresRepository) LocateEvaluator(ctx context.Context, evaluatorID string) (string, bool, error) {
	return r.locate(ctx, "evaluators", evaluatorID)
}

func (r *PostgresRepository) locate(ctx context.Context, table, id string) (string, bool, error) {
	type row struct {
		TenantID string `gorm:"column:tenant_id"`
	}

	var result row
	if err := r.db.WithContext(ctx).
		Table(table).
		Select("tenant_id").
		Where("id = ?", id).
		Limit(1).
		Scan(&result).Error; err != nil {
		return "", false, err
	}
	if result.TenantID == "" {
		return "", false, nil
	}
	return result.TenantID, true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
