package emailing

import (
	"context"
	"time"

	emailingdomain "feedback360-go/internal/domain/emailing"
	"feedback360-go/internal/domain/lifecycle"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListAssignmentRows(ctx context.Context, tenantID string) ([]emailingdomain.AssignmentRow, error) {
	type assignmentRow struct {
		AssignmentID          string
		SurveyID              string
		SurveyTitle           string
		EvaluatorID           string
		EvaluatorName         string
		EvaluatorEmail        string
		SubjectName           string
		Completed             bool
		AssignmentEmailSentAt *time.Time
		LastReminderSentAt    *time.Time
		AssignedAt            time.Time
	}

	var rows []assignmentRow
	if err := r.db.WithContext(ctx).
		Table("subject_evaluator_surveys ses").
		Select(`ses.id AS assignment_id, surveys.id AS survey_id, surveys.title AS survey_title,
			evaluators.id AS evaluator_id, evaluator_employees.name AS evaluator_name,
			evaluator_employees.email AS evaluator_email, subject_employees.name AS subject_name,
			COALESCE(sub.status = 'completed', false) AS completed,
			ses.assignment_email_sent_at, ses.last_reminder_sent_at, ses.created_at AS assigned_at`).
		Joins("join surveys on surveys.id = ses.survey_id and surveys.state = ?", lifecycle.Active).
		Joins("join subject_evaluators se on se.id = ses.relationship_id and se.state = ?", lifecycle.Active).
		Joins("join subjects on subjects.id = se.subject_id and subjects.state = ?", lifecycle.Active).
		Joins("join employees subject_employees on subject_employees.id = subjects.employee_id and subject_employees.state = ?", lifecycle.Active).
		Joins("join evaluators on evaluators.id = se.evaluator_id and evaluators.state = ?", lifecycle.Active).
		Joins("join employees evaluator_employees on evaluator_employees.id = evaluators.employee_id and evaluator_employees.state = ?", lifecycle.Active).
		Joins("left join survey_submissions sub on sub.assignment_id = ses.id and sub.evaluator_id = se.evaluator_id").
		Where("ses.tenant_id = ? AND ses.state = ?", tenantID, lifecycle.Active).
		Order("subject_employees.name asc, ses.id asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]emailingdomain.AssignmentRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, emailingdomain.AssignmentRow(row))
	}
	return result, nil
}
