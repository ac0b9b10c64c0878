package scoring

import "context"

type Repository interface {
	GetSurveySchema(ctx context.Context, tenantID, surveyID string) ([]byte, error)
	// ListCompletedSubmissions returns completed submissions for the survey,
	// limited to one subject unless subjectID is empty.
	ListCompletedSubmissions(ctx context.Context, tenantID, surveyID, subjectID string) ([]CompletedSubmission, error)
}
