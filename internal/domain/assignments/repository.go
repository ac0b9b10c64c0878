package assignments

import (
	"context"
	"time"

	"feedback360-go/internal/domain/lifecycle"
	relationshipsdomain "feedback360-go/internal/domain/relationships"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateSurvey(ctx context.Context, survey *Survey) error
	GetSurvey(ctx context.Context, tenantID, surveyID string) (*Survey, error)
	ListSurveys(ctx context.Context, tenantID string) ([]Survey, error)
	UpdateSurveyState(ctx context.Context, tenantID, surveyID string, state lifecycle.State) error

	// ListUnassigned returns active relationships without an active assignment to the survey.
	ListUnassigned(ctx context.Context, tenantID, surveyID string, filter RelationshipFilter) ([]relationshipsdomain.RelationshipView, error)
	ListAssigned(ctx context.Context, tenantID, surveyID string) ([]AssignedRelationship, error)

	// CreateAssignment inserts unless an active assignment for the same
	// (relationship, survey) exists, which is then returned with created false.
	CreateAssignment(ctx context.Context, assignment *Assignment) (bool, *Assignment, error)
	GetAssignment(ctx context.Context, tenantID, assignmentID string) (*Assignment, error)
	DeactivateAssignment(ctx context.Context, tenantID, relationshipID, surveyID string, at time.Time) (bool, error)
	MarkNotified(ctx context.Context, tenantID string, assignmentIDs []string, kind NotificationKind, at time.Time) (int64, error)

	GetSubmission(ctx context.Context, tenantID, assignmentID, evaluatorID string) (*Submission, error)
	CreateSubmission(ctx context.Context, submission *Submission) (bool, *Submission, error)
	// UpdateSubmission writes submission only while the stored status still equals expected.
	UpdateSubmission(ctx context.Context, submission *Submission, expected SubmissionStatus) (bool, error)
}
