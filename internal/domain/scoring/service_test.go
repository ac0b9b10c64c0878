package scoring

import (
	"context"
	"fmt"
	"testing"
	"time"

	identitydomain "feedback360-go/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTenant = "a0000000-0000-4000-8000-000000000001"
	testSurvey = "a0000000-0000-4000-8000-0000000000f1"
	subjectOne = "a0000000-0000-4000-8000-0000000000d1"
	subjectTwo = "a0000000-0000-4000-8000-0000000000d2"
)

const testSchema = `{"questions":[
	{"id":"q1","text":"Communicates clearly","options":["1","2","3","4","5"]},
	{"id":"q2","text":"Meets deadlines","options":["1","2","3","4","5"]}
]}`

type fakeScoringRepo struct {
	submissions []CompletedSubmission
	listCalls   int
}

func (r *fakeScoringRepo) GetSurveySchema(ctx context.Context, tenantID, surveyID string) ([]byte, error) {
	if surveyID != testSurvey {
		return nil, ErrSurveyNotFound
	}
	return []byte(testSchema), nil
}

func (r *fakeScoringRepo) ListCompletedSubmissions(ctx context.Context, tenantID, surveyID, subjectID string) ([]CompletedSubmission, error) {
	r.listCalls++
	var out []CompletedSubmission
	for _, submission := range r.submissions {
		if subjectID == "" || submission.SubjectID == subjectID {
			out = append(out, submission)
		}
	}
	return out, nil
}

type fakeSubjects struct{}

func (fakeSubjects) GetSubject(ctx context.Context, tenantID, subjectID string) (*identitydomain.Subject, error) {
	if subjectID != subjectOne && subjectID != subjectTwo {
		return nil, identitydomain.ErrSubjectNotFound
	}
	return &identitydomain.Subject{ID: subjectID, TenantID: tenantID}, nil
}

func submission(subjectID, subjectEmployee, evaluatorEmployee, answers string) CompletedSubmission {
	return CompletedSubmission{
		SubmissionID:        subjectID + "/" + evaluatorEmployee,
		SubjectID:           subjectID,
		SubjectEmployeeID:   subjectEmployee,
		EvaluatorID:         "evaluator-" + evaluatorEmployee,
		EvaluatorEmployeeID: evaluatorEmployee,
		ResponseData:        []byte(answers),
	}
}

func TestSelfVsEvaluatorWithoutEvaluators(t *testing.T) {
	repo := &fakeScoringRepo{submissions: []CompletedSubmission{
		submission(subjectOne, "emp-1", "emp-1", `{"answers":{"q1":4,"q2":4}}`),
	}}
	svc := NewService(repo, fakeSubjects{})

	result, err := svc.SelfVsEvaluatorComparison(context.Background(), testTenant, subjectOne, testSurvey)
	require.NoError(t, err)

	require.NotNil(t, result.SelfScore)
	assert.InDelta(t, 100.0, *result.SelfScore, 1e-9)
	assert.Equal(t, 0, result.EvaluatorCount)
	assert.Nil(t, result.EvaluatorAverageScore)
	assert.Nil(t, result.ScoreDifference)
	assert.Nil(t, result.PercentageDifference)
}

func TestSelfVsEvaluatorAveragesOtherEvaluators(t *testing.T) {
	repo := &fakeScoringRepo{submissions: []CompletedSubmission{
		submission(subjectOne, "emp-1", "emp-1", `{"answers":{"q1":4,"q2":2}}`),
		submission(subjectOne, "emp-1", "emp-2", `{"answers":{"q1":2,"q2":2}}`),
		submission(subjectOne, "emp-1", "emp-3", `{"answers":{"q1":0}}`),
		submission(subjectTwo, "emp-9", "emp-2", `{"answers":{"q1":4,"q2":4}}`),
	}}
	svc := NewService(repo, fakeSubjects{})

	result, err := svc.SelfVsEvaluatorComparison(context.Background(), testTenant, subjectOne, testSurvey)
	require.NoError(t, err)

	assert.Equal(t, 2, result.EvaluatorCount)
	assert.InDelta(t, 75.0, *result.SelfScore, 1e-9)
	assert.InDelta(t, 25.0, *result.EvaluatorAverageScore, 1e-9)
	assert.InDelta(t, 50.0, *result.ScoreDifference, 1e-9)
	assert.InDelta(t, 200.0, *result.PercentageDifference, 1e-9)

	require.Len(t, result.QuestionComparisons, 2)
	q1 := result.QuestionComparisons[0]
	assert.Equal(t, 2, q1.EvaluatorResponses)
	assert.InDelta(t, 100.0, *q1.SelfScore, 1e-9)
	assert.InDelta(t, 25.0, *q1.EvaluatorAverageScore, 1e-9)
	q2 := result.QuestionComparisons[1]
	assert.Equal(t, 1, q2.EvaluatorResponses)
}

func TestSelfVsEvaluatorZeroEvaluatorAverage(t *testing.T) {
	repo := &fakeScoringRepo{submissions: []CompletedSubmission{
		submission(subjectOne, "emp-1", "emp-1", `{"answers":{"q1":4}}`),
		submission(subjectOne, "emp-1", "emp-2", `{"answers":{}}`),
	}}
	svc := NewService(repo, fakeSubjects{})

	result, err := svc.SelfVsEvaluatorComparison(context.Background(), testTenant, subjectOne, testSurvey)
	require.NoError(t, err)

	assert.Equal(t, 1, result.EvaluatorCount)
	assert.InDelta(t, 0.0, *result.EvaluatorAverageScore, 1e-9)
	assert.InDelta(t, 100.0, *result.ScoreDifference, 1e-9)
	assert.Equal(t, 0.0, *result.PercentageDifference)
}

func TestOrganizationComparisonAtParBoundary(t *testing.T) {
	repo := &fakeScoringRepo{submissions: []CompletedSubmission{
		submission(subjectOne, "emp-1", "emp-2", `{"answers":{"q1":2,"q2":2}}`),
		submission(subjectTwo, "emp-9", "emp-2", `{"answers":{"q1":0,"q2":4}}`),
	}}
	svc := NewService(repo, fakeSubjects{})

	result, err := svc.OrganizationComparison(context.Background(), testTenant, subjectOne, testSurvey)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalSubjectsInOrg)
	assert.Equal(t, 0.0, *result.ScoreDifference)
	assert.Equal(t, PerformanceAtPar, result.PerformanceLevel)
}

func TestOrganizationComparisonIncludesSubject(t *testing.T) {
	repo := &fakeScoringRepo{submissions: []CompletedSubmission{
		submission(subjectOne, "emp-1", "emp-1", `{"answers":{"q1":4,"q2":4}}`),
		submission(subjectOne, "emp-1", "emp-2", `{"answers":{"q1":4,"q2":4}}`),
		submission(subjectTwo, "emp-9", "emp-2", `{"answers":{"q1":0,"q2":2}}`),
	}}
	svc := NewService(repo, fakeSubjects{})

	result, err := svc.OrganizationComparison(context.Background(), testTenant, subjectOne, testSurvey)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, *result.SubjectOverallScore, 1e-9)
	assert.InDelta(t, 62.5, *result.OrganizationAverageScore, 1e-9)
	assert.InDelta(t, 37.5, *result.ScoreDifference, 1e-9)
	assert.InDelta(t, 60.0, *result.PercentageDifference, 1e-9)
	assert.Equal(t, PerformanceAbovePar, result.PerformanceLevel)
}

func TestOrganizationComparisonWithoutSubjectData(t *testing.T) {
	repo := &fakeScoringRepo{submissions: []CompletedSubmission{
		submission(subjectTwo, "emp-9", "emp-2", `{"answers":{"q1":4}}`),
	}}
	svc := NewService(repo, fakeSubjects{})

	result, err := svc.OrganizationComparison(context.Background(), testTenant, subjectOne, testSurvey)
	require.NoError(t, err)

	assert.Equal(t, PerformanceNoData, result.PerformanceLevel)
	assert.Nil(t, result.SubjectOverallScore)
	assert.Equal(t, 1, result.TotalSubjectsInOrg)
}

func TestComprehensiveReportReadsOnce(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := &fakeScoringRepo{submissions: []CompletedSubmission{
		submission(subjectOne, "emp-1", "emp-1", `{"answers":{"q1":4,"q2":4}}`),
		submission(subjectOne, "emp-1", "emp-2", `{"answers":{"q1":2,"q2":2}}`),
		submission(subjectTwo, "emp-9", "emp-2", `{"answers":{"q1":0,"q2":0}}`),
	}}
	svc := NewService(repo, fakeSubjects{})
	svc.now = func() time.Time { return fixed }

	report, err := svc.ComprehensiveReport(context.Background(), testTenant, subjectOne, testSurvey)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
	assert.Len(t, report.Submissions, 2)
	assert.True(t, report.Submissions[0].IsSelf)
	assert.Equal(t, 1, report.SelfVsEvaluator.EvaluatorCount)
	assert.Equal(t, 2, report.Organization.TotalSubjectsInOrg)
	assert.Equal(t, fixed, report.GeneratedAt)
}

func TestReportsRejectUnknownSubjectAndSurvey(t *testing.T) {
	svc := NewService(&fakeScoringRepo{}, fakeSubjects{})

	_, err := svc.SelfVsEvaluatorComparison(context.Background(), testTenant, "a0000000-0000-4000-8000-0000000000d9", testSurvey)
	assert.ErrorIs(t, err, identitydomain.ErrSubjectNotFound)

	_, err = svc.OrganizationComparison(context.Background(), testTenant, subjectOne, "a0000000-0000-4000-8000-0000000000f9")
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestOrganizationComparisonEqualScoresAreAtPar(t *testing.T) {
	third, ok := ScoreQuestion(1, 4, true)
	require.True(t, ok)

	var scored []scoredSubmission
	for i := 0; i < 6; i++ {
		subjectID := fmt.Sprintf("s%d", i)
		scored = append(scored, scoredSubmission{
			CompletedSubmission: CompletedSubmission{SubmissionID: "sub-" + subjectID, SubjectID: subjectID},
			summary:             ScoreSummary{TotalQuestions: 1, AnsweredQuestions: 1, OverallScore: third},
		})
	}

	result := compareOrganization("s0", testSurvey, scored)

	assert.Equal(t, 6, result.TotalSubjectsInOrg)
	assert.Equal(t, *result.SubjectOverallScore, *result.OrganizationAverageScore)
	assert.Equal(t, 0.0, *result.ScoreDifference)
	assert.Equal(t, 0.0, *result.PercentageDifference)
	assert.Equal(t, PerformanceAtPar, result.PerformanceLevel)
}
