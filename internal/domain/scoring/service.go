package scoring

import (
	"context"
	"sort"
	"time"

	identitydomain "feedback360-go/internal/domain/identity"
	"github.com/google/uuid"
)

type IdentityService interface {
	GetSubject(ctx context.Context, tenantID, subjectID string) (*identitydomain.Subject, error)
}

// Service computes report scores on demand. Nothing is persisted; a report
// built while a submission is being completed may or may not include it.
type Service struct {
	repo     Repository
	identity IdentityService
	now      func() time.Time
}

func NewService(repo Repository, identity IdentityService) *Service {
	return &Service{repo: repo, identity: identity, now: time.Now}
}

type scoredSubmission struct {
	CompletedSubmission
	summary ScoreSummary
}

func (s *Service) SubmissionSummaries(ctx context.Context, tenantID, subjectID, surveyID string) ([]SubmissionSummary, error) {
	_, scored, err := s.load(ctx, tenantID, subjectID, surveyID, subjectID)
	if err != nil {
		return nil, err
	}
	return summaries(scored), nil
}

func (s *Service) SelfVsEvaluatorComparison(ctx context.Context, tenantID, subjectID, surveyID string) (SelfVsEvaluator, error) {
	schema, scored, err := s.load(ctx, tenantID, subjectID, surveyID, subjectID)
	if err != nil {
		return SelfVsEvaluator{}, err
	}
	return compareSelf(subjectID, surveyID, schema, scored), nil
}

func (s *Service) OrganizationComparison(ctx context.Context, tenantID, subjectID, surveyID string) (OrganizationComparison, error) {
	_, scored, err := s.load(ctx, tenantID, subjectID, surveyID, "")
	if err != nil {
		return OrganizationComparison{}, err
	}
	return compareOrganization(subjectID, surveyID, scored), nil
}

// ComprehensiveReport builds every section from a single read of the
// tenant's completed submissions for the survey.
func (s *Service) ComprehensiveReport(ctx context.Context, tenantID, subjectID, surveyID string) (ComprehensiveReport, error) {
	schema, all, err := s.load(ctx, tenantID, subjectID, surveyID, "")
	if err != nil {
		return ComprehensiveReport{}, err
	}

	own := make([]scoredSubmission, 0)
	for _, submission := range all {
		if submission.SubjectID == subjectID {
			own = append(own, submission)
		}
	}

	return ComprehensiveReport{
		SubjectID:       subjectID,
		SurveyID:        surveyID,
		Submissions:     summaries(own),
		SelfVsEvaluator: compareSelf(subjectID, surveyID, schema, own),
		Organization:    compareOrganization(subjectID, surveyID, all),
		GeneratedAt:     s.now().UTC(),
	}, nil
}

func (s *Service) load(ctx context.Context, tenantID, subjectID, surveyID, scope string) (Schema, []scoredSubmission, error) {
	if _, err := s.identity.GetSubject(ctx, tenantID, subjectID); err != nil {
		return Schema{}, nil, err
	}
	if _, err := uuid.Parse(surveyID); err != nil {
		return Schema{}, nil, ErrSurveyNotFound
	}

	rawSchema, err := s.repo.GetSurveySchema(ctx, tenantID, surveyID)
	if err != nil {
		return Schema{}, nil, err
	}
	schema, err := ParseSchema(rawSchema)
	if err != nil {
		return Schema{}, nil, err
	}

	submissions, err := s.repo.ListCompletedSubmissions(ctx, tenantID, surveyID, scope)
	if err != nil {
		return Schema{}, nil, err
	}

	scored := make([]scoredSubmission, 0, len(submissions))
	for _, submission := range submissions {
		summary, err := ScoreSubmission(schema, submission.ResponseData)
		if err != nil {
			// Unreadable answers score as an empty answer-set.
			summary = Summarize(schema, nil)
		}
		scored = append(scored, scoredSubmission{CompletedSubmission: submission, summary: summary})
	}
	return schema, scored, nil
}

func summaries(scored []scoredSubmission) []SubmissionSummary {
	out := make([]SubmissionSummary, 0, len(scored))
	for _, submission := range scored {
		out = append(out, SubmissionSummary{
			SubmissionID:  submission.SubmissionID,
			EvaluatorID:   submission.EvaluatorID,
			EvaluatorName: submission.EvaluatorName,
			Relationship:  submission.Relationship,
			IsSelf:        submission.IsSelf(),
			CompletedAt:   submission.CompletedAt,
			Summary:       submission.summary,
		})
	}
	return out
}

func compareSelf(subjectID, surveyID string, schema Schema, scored []scoredSubmission) SelfVsEvaluator {
	var self, others mean
	evaluators := make(map[string]struct{})
	selfByQuestion := make(map[string]*mean, len(schema.Questions))
	othersByQuestion := make(map[string]*mean, len(schema.Questions))
	for _, question := range schema.Questions {
		selfByQuestion[question.ID] = &mean{}
		othersByQuestion[question.ID] = &mean{}
	}

	for _, submission := range scored {
		if submission.SubjectID != subjectID {
			continue
		}

		byQuestion := othersByQuestion
		if submission.IsSelf() {
			self.add(submission.summary.OverallScore)
			byQuestion = selfByQuestion
		} else {
			others.add(submission.summary.OverallScore)
			evaluators[submission.EvaluatorEmployeeID] = struct{}{}
		}

		for _, question := range submission.summary.QuestionScores {
			if question.Score != nil {
				byQuestion[question.QuestionID].add(*question.Score)
			}
		}
	}

	result := SelfVsEvaluator{
		SubjectID:             subjectID,
		SurveyID:              surveyID,
		SelfScore:             self.ptr(),
		EvaluatorAverageScore: others.ptr(),
		EvaluatorCount:        len(evaluators),
		QuestionComparisons:   make([]QuestionComparison, 0, len(schema.Questions)),
	}
	if result.SelfScore != nil && result.EvaluatorAverageScore != nil {
		diff := difference(*result.SelfScore, *result.EvaluatorAverageScore)
		percentage := percentOf(diff, *result.EvaluatorAverageScore)
		result.ScoreDifference = &diff
		result.PercentageDifference = &percentage
	}

	for _, question := range schema.Questions {
		comparison := QuestionComparison{
			QuestionID:            question.ID,
			Text:                  question.Text,
			SelfScore:             selfByQuestion[question.ID].ptr(),
			EvaluatorAverageScore: othersByQuestion[question.ID].ptr(),
			EvaluatorResponses:    othersByQuestion[question.ID].count,
		}
		if comparison.SelfScore != nil && comparison.EvaluatorAverageScore != nil {
			diff := difference(*comparison.SelfScore, *comparison.EvaluatorAverageScore)
			comparison.ScoreDifference = &diff
		}
		result.QuestionComparisons = append(result.QuestionComparisons, comparison)
	}

	return result
}

// compareOrganization ranks the subject against the mean of every subject in
// the tenant with at least one completed submission, the subject included.
func compareOrganization(subjectID, surveyID string, scored []scoredSubmission) OrganizationComparison {
	bySubject := make(map[string]*mean)
	for _, submission := range scored {
		m, ok := bySubject[submission.SubjectID]
		if !ok {
			m = &mean{}
			bySubject[submission.SubjectID] = m
		}
		m.add(submission.summary.OverallScore)
	}

	subjects := make([]string, 0, len(bySubject))
	for id := range bySubject {
		subjects = append(subjects, id)
	}
	sort.Strings(subjects)

	var organization mean
	for _, id := range subjects {
		if v, ok := bySubject[id].value(); ok {
			organization.add(v)
		}
	}

	result := OrganizationComparison{
		SubjectID:                subjectID,
		SurveyID:                 surveyID,
		OrganizationAverageScore: organization.ptr(),
		PerformanceLevel:         PerformanceNoData,
		TotalSubjectsInOrg:       len(bySubject),
	}

	own, ok := bySubject[subjectID]
	if !ok {
		return result
	}
	result.SubjectOverallScore = own.ptr()
	if result.SubjectOverallScore == nil || result.OrganizationAverageScore == nil {
		return result
	}

	diff := difference(*result.SubjectOverallScore, *result.OrganizationAverageScore)
	percentage := percentOf(diff, *result.OrganizationAverageScore)
	result.ScoreDifference = &diff
	result.PercentageDifference = &percentage
	result.PerformanceLevel = classify(diff)
	return result
}
