package scoring

import (
	"context"
	"errors"
	"time"

	"feedback360-go/internal/domain/lifecycle"
	scoringdomain "feedback360-go/internal/domain/scoring"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetSurveySchema(ctx context.Context, tenantID, surveyID string) ([]byte, error) {
	type schemaRow struct {
		Schema datatypes.JSON
	}

	var row schemaRow
	err := r.db.WithContext(ctx).
		Table("surveys").
		Select("schema").
		Where("tenant_id = ? AND id = ? AND state = ?", tenantID, surveyID, lifecycle.Active).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scoringdomain.ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Schema, nil
}

// ListCompletedSubmissions keeps completed work even after its relationship
// or assignment was deactivated.
func (r *PostgresRepository) ListCompletedSubmissions(ctx context.Context, tenantID, surveyID, subjectID string) ([]scoringdomain.CompletedSubmission, error) {
	type submissionRow struct {
		SubmissionID        string
		AssignmentID        string
		SubjectID           string
		SubjectEmployeeID   string
		EvaluatorID         string
		EvaluatorEmployeeID string
		EvaluatorName       string
		Relationship        string
		ResponseData        datatypes.JSON
		CompletedAt         *time.Time
	}

	query := r.db.WithContext(ctx).
		Table("survey_submissions sub").
		Select(`sub.id AS submission_id, sub.assignment_id, sub.subject_id,
			subjects.employee_id AS subject_employee_id, sub.evaluator_id,
			evaluators.employee_id AS evaluator_employee_id, evaluator_employees.name AS evaluator_name,
			subject_evaluators.relationship, sub.response_data, sub.completed_at`).
		Joins("join subject_evaluator_surveys ses on ses.id = sub.assignment_id").
		Joins("join subject_evaluators on subject_evaluators.id = ses.relationship_id").
		Joins("join subjects on subjects.id = sub.subject_id").
		Joins("join evaluators on evaluators.id = sub.evaluator_id").
		Joins("join employees evaluator_employees on evaluator_employees.id = evaluators.employee_id").
		Where("sub.tenant_id = ? AND sub.survey_id = ? AND sub.status = ?", tenantID, surveyID, "completed")
	if subjectID != "" {
		query = query.Where("sub.subject_id = ?", subjectID)
	}

	var rows []submissionRow
	if err := query.Order("sub.completed_at asc, sub.id asc").Scan(&rows).Error; err != nil {
		return nil, err
	}

	submissions := make([]scoringdomain.CompletedSubmission, 0, len(rows))
	for _, row := range rows {
		submissions = append(submissions, scoringdomain.CompletedSubmission{
			SubmissionID:        row.SubmissionID,
			AssignmentID:        row.AssignmentID,
			SubjectID:           row.SubjectID,
			SubjectEmployeeID:   row.SubjectEmployeeID,
			EvaluatorID:         row.EvaluatorID,
			EvaluatorEmployeeID: row.EvaluatorEmployeeID,
			EvaluatorName:       row.EvaluatorName,
			Relationship:        row.Relationship,
			ResponseData:        row.ResponseData,
			CompletedAt:         row.CompletedAt,
		})
	}
	return submissions, nil
}
