package assignments

import (
	"context"
	"errors"
	"time"

	assignmentsdomain "feedback360-go/internal/domain/assignments"
	"feedback360-go/internal/domain/lifecycle"
	relationshipsdomain "feedback360-go/internal/domain/relationships"
	relationshipsrepo "feedback360-go/internal/repository/postgres/relationships"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(assignmentsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateSurvey(ctx context.Context, survey *assignmentsdomain.Survey) error {
	return r.db.WithContext(ctx).Create(survey).Error
}

func (r *PostgresRepository) GetSurvey(ctx context.Context, tenantID, surveyID string) (*assignmentsdomain.Survey, error) {
	var survey assignmentsdomain.Survey
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND state = ?", tenantID, surveyID, lifecycle.Active).
		First(&survey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, assignmentsdomain.ErrSurveyNotFound
		}
		return nil, err
	}
	return &survey, nil
}

func (r *PostgresRepository) ListSurveys(ctx context.Context, tenantID string) ([]assignmentsdomain.Survey, error) {
	var surveys []assignmentsdomain.Survey
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND state = ?", tenantID, lifecycle.Active).
		Order("created_at desc").
		Find(&surveys).Error; err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *PostgresRepository) UpdateSurveyState(ctx context.Context, tenantID, surveyID string, state lifecycle.State) error {
	result := r.db.WithContext(ctx).
		Model(&assignmentsdomain.Survey{}).
		Where("tenant_id = ? AND id = ?", tenantID, surveyID).
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return assignmentsdomain.ErrSurveyNotFound
	}
	return nil
}

func (r *PostgresRepository) ListUnassigned(ctx context.Context, tenantID, surveyID string, filter assignmentsdomain.RelationshipFilter) ([]relationshipsdomain.RelationshipView, error) {
	query := relationshipsrepo.ViewQuery(r.db.WithContext(ctx), tenantID).
		Where(`NOT EXISTS (
			SELECT 1 FROM subject_evaluator_surveys ses
			WHERE ses.relationship_id = subject_evaluators.id
			AND ses.survey_id = ? AND ses.state = ?
		)`, surveyID, lifecycle.Active)
	if filter.SubjectID != "" {
		query = query.Where("subject_evaluators.subject_id = ?", filter.SubjectID)
	}
	if filter.EvaluatorID != "" {
		query = query.Where("subject_evaluators.evaluator_id = ?", filter.EvaluatorID)
	}
	if filter.Label != "" {
		query = query.Where("LOWER(subject_evaluators.relationship) = LOWER(?)", filter.Label)
	}

	var rows []relationshipsrepo.ViewRow
	if err := query.
		Order("subject_employees.name asc, evaluator_employees.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]relationshipsdomain.RelationshipView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.View())
	}
	return views, nil
}

func (r *PostgresRepository) ListAssigned(ctx context.Context, tenantID, surveyID string) ([]assignmentsdomain.AssignedRelationship, error) {
	type assignedRow struct {
		relationshipsrepo.ViewRow
		AssignmentID     string
		SubmissionStatus assignmentsdomain.SubmissionStatus
	}

	var rows []assignedRow
	if err := relationshipsrepo.ViewQuery(r.db.WithContext(ctx), tenantID,
		"ses.id AS assignment_id",
		"COALESCE(sub.status, 'not_started') AS submission_status").
		Joins("join subject_evaluator_surveys ses on ses.relationship_id = subject_evaluators.id and ses.survey_id = ? and ses.state = ?", surveyID, lifecycle.Active).
		Joins("left join survey_submissions sub on sub.assignment_id = ses.id and sub.evaluator_id = subject_evaluators.evaluator_id").
		Order("subject_employees.name asc, evaluator_employees.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	assigned := make([]assignmentsdomain.AssignedRelationship, 0, len(rows))
	for _, row := range rows {
		assigned = append(assigned, assignmentsdomain.AssignedRelationship{
			RelationshipView: row.View(),
			AssignmentID:     row.AssignmentID,
			SubmissionStatus: row.SubmissionStatus,
		})
	}
	return assigned, nil
}

func (r *PostgresRepository) CreateAssignment(ctx context.Context, assignment *assignmentsdomain.Assignment) (bool, *assignmentsdomain.Assignment, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "relationship_id"}, {Name: "survey_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Eq{Column: "state", Value: lifecycle.Active}}},
			DoNothing:   true,
		}).
		Create(assignment)
	if result.Error != nil {
		return false, nil, result.Error
	}
	if result.RowsAffected == 1 {
		return true, assignment, nil
	}

	var existing assignmentsdomain.Assignment
	if err := r.db.WithContext(ctx).
		Where("relationship_id = ? AND survey_id = ? AND state = ?", assignment.RelationshipID, assignment.SurveyID, lifecycle.Active).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return false, &existing, nil
}

func (r *PostgresRepository) GetAssignment(ctx context.Context, tenantID, assignmentID string) (*assignmentsdomain.Assignment, error) {
	var assignment assignmentsdomain.Assignment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND state = ?", tenantID, assignmentID, lifecycle.Active).
		First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, assignmentsdomain.ErrAssignmentNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *PostgresRepository) DeactivateAssignment(ctx context.Context, tenantID, relationshipID, surveyID string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&assignmentsdomain.Assignment{}).
		Where("tenant_id = ? AND relationship_id = ? AND survey_id = ? AND state = ?", tenantID, relationshipID, surveyID, lifecycle.Active).
		Updates(map[string]any{"state": lifecycle.Deactivated, "deactivated_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) MarkNotified(ctx context.Context, tenantID string, assignmentIDs []string, kind assignmentsdomain.NotificationKind, at time.Time) (int64, error) {
	if len(assignmentIDs) == 0 {
		return 0, nil
	}

	updates := map[string]any{"assignment_email_sent_at": at}
	if kind == assignmentsdomain.NotificationReminder {
		updates = map[string]any{
			"last_reminder_sent_at": at,
			"reminder_count":        gorm.Expr("reminder_count + 1"),
		}
	}

	result := r.db.WithContext(ctx).
		Model(&assignmentsdomain.Assignment{}).
		Where("tenant_id = ? AND id IN ? AND state = ?", tenantID, assignmentIDs, lifecycle.Active).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) GetSubmission(ctx context.Context, tenantID, assignmentID, evaluatorID string) (*assignmentsdomain.Submission, error) {
	var submission assignmentsdomain.Submission
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND assignment_id = ? AND evaluator_id = ?", tenantID, assignmentID, evaluatorID).
		First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, assignmentsdomain.ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *PostgresRepository) CreateSubmission(ctx context.Context, submission *assignmentsdomain.Submission) (bool, *assignmentsdomain.Submission, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assignment_id"}, {Name: "evaluator_id"}},
			DoNothing: true,
		}).
		Create(submission)
	if result.Error != nil {
		return false, nil, result.Error
	}
	if result.RowsAffected == 1 {
		return true, submission, nil
	}

	existing, err := r.GetSubmission(ctx, submission.TenantID, submission.AssignmentID, submission.EvaluatorID)
	if errors.Is(err, assignmentsdomain.ErrSubmissionNotFound) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return false, existing, nil
}

func (r *PostgresRepository) UpdateSubmission(ctx context.Context, submission *assignmentsdomain.Submission, expected assignmentsdomain.SubmissionStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&assignmentsdomain.Submission{}).
		Where("tenant_id = ? AND id = ? AND status = ?", submission.TenantID, submission.ID, expected).
		Updates(map[string]any{
			"subject_id":    submission.SubjectID,
			"response_data": submission.ResponseData,
			"status":        submission.Status,
			"started_at":    submission.StartedAt,
			"completed_at":  submission.CompletedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
