package reports

import (
	"time"

	"feedback360-go/internal/domain/scoring"
	"feedback360-go/internal/transport/httpserver/handler/common"
)

type questionScoreResponse struct {
	QuestionID string   `json:"question_id"`
	Text       string   `json:"text"`
	Answered   bool     `json:"answered"`
	Position   *int     `json:"position"`
	Score      *float64 `json:"score"`
}

type scoreSummaryResponse struct {
	OverallScore      float64                 `json:"overall_score"`
	TotalQuestions    int                     `json:"total_questions"`
	AnsweredQuestions int                     `json:"answered_questions"`
	QuestionScores    []questionScoreResponse `json:"question_scores"`
}

type submissionResponse struct {
	SubmissionID  string               `json:"submission_id"`
	EvaluatorID   string               `json:"evaluator_id"`
	EvaluatorName string               `json:"evaluator_name"`
	Relationship  string               `json:"relationship"`
	IsSelf        bool                 `json:"is_self"`
	CompletedAt   *time.Time           `json:"completed_at"`
	Summary       scoreSummaryResponse `json:"summary"`
}

type submissionListResponse struct {
	Items []submissionResponse `json:"items"`
	Total int                  `json:"total"`
}

type questionComparisonResponse struct {
	QuestionID            string   `json:"question_id"`
	Text                  string   `json:"text"`
	SelfScore             *float64 `json:"self_score"`
	EvaluatorAverageScore *float64 `json:"evaluator_average_score"`
	EvaluatorResponses    int      `json:"evaluator_responses"`
	ScoreDifference       *float64 `json:"score_difference"`
}

type selfVsEvaluatorResponse struct {
	SubjectID             string                       `json:"subject_id"`
	SurveyID              string                       `json:"survey_id"`
	SelfScore             *float64                     `json:"self_score"`
	EvaluatorAverageScore *float64                     `json:"evaluator_average_score"`
	ScoreDifference       *float64                     `json:"score_difference"`
	PercentageDifference  *float64                     `json:"percentage_difference"`
	EvaluatorCount        int                          `json:"evaluator_count"`
	QuestionComparisons   []questionComparisonResponse `json:"question_comparisons"`
}

type organizationResponse struct {
	SubjectID                string   `json:"subject_id"`
	SurveyID                 string   `json:"survey_id"`
	SubjectOverallScore      *float64 `json:"subject_overall_score"`
	OrganizationAverageScore *float64 `json:"organization_average_score"`
	ScoreDifference          *float64 `json:"score_difference"`
	PercentageDifference     *float64 `json:"percentage_difference"`
	PerformanceLevel         string   `json:"performance_level"`
	TotalSubjectsInOrg       int      `json:"total_subjects_in_org"`
}

type comprehensiveResponse struct {
	SubjectID       string                  `json:"subject_id"`
	SurveyID        string                  `json:"survey_id"`
	Submissions     []submissionResponse    `json:"submissions"`
	SelfVsEvaluator selfVsEvaluatorResponse `json:"self_vs_evaluator"`
	Organization    organizationResponse    `json:"organization"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

func toSubmissionResponses(summaries []scoring.SubmissionSummary) []submissionResponse {
	out := make([]submissionResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, submissionResponse{
			SubmissionID:  summary.SubmissionID,
			EvaluatorID:   summary.EvaluatorID,
			EvaluatorName: summary.EvaluatorName,
			Relationship:  summary.Relationship,
			IsSelf:        summary.IsSelf,
			CompletedAt:   summary.CompletedAt,
			Summary:       toScoreSummaryResponse(summary.Summary),
		})
	}
	return out
}

func toScoreSummaryResponse(summary scoring.ScoreSummary) scoreSummaryResponse {
	questions := make([]questionScoreResponse, 0, len(summary.QuestionScores))
	for _, question := range summary.QuestionScores {
		questions = append(questions, questionScoreResponse{
			QuestionID: question.QuestionID,
			Text:       question.Text,
			Answered:   question.Answered,
			Position:   question.Position,
			Score:      common.Round1Ptr(question.Score),
		})
	}
	return scoreSummaryResponse{
		OverallScore:      common.Round1(summary.OverallScore),
		TotalQuestions:    summary.TotalQuestions,
		AnsweredQuestions: summary.AnsweredQuestions,
		QuestionScores:    questions,
	}
}

func toSelfVsEvaluatorResponse(comparison scoring.SelfVsEvaluator) selfVsEvaluatorResponse {
	questions := make([]questionComparisonResponse, 0, len(comparison.QuestionComparisons))
	for _, question := range comparison.QuestionComparisons {
		questions = append(questions, questionComparisonResponse{
			QuestionID:            question.QuestionID,
			Text:                  question.Text,
			SelfScore:             common.Round1Ptr(question.SelfScore),
			EvaluatorAverageScore: common.Round1Ptr(question.EvaluatorAverageScore),
			EvaluatorResponses:    question.EvaluatorResponses,
			ScoreDifference:       common.Round1Ptr(question.ScoreDifference),
		})
	}
	return selfVsEvaluatorResponse{
		SubjectID:             comparison.SubjectID,
		SurveyID:              comparison.SurveyID,
		SelfScore:             common.Round1Ptr(comparison.SelfScore),
		EvaluatorAverageScore: common.Round1Ptr(comparison.EvaluatorAverageScore),
		ScoreDifference:       common.Round1Ptr(comparison.ScoreDifference),
		PercentageDifference:  common.Round1Ptr(comparison.PercentageDifference),
		EvaluatorCount:        comparison.EvaluatorCount,
		QuestionComparisons:   questions,
	}
}

func toOrganizationResponse(comparison scoring.OrganizationComparison) organizationResponse {
	return organizationResponse{
		SubjectID:                comparison.SubjectID,
		SurveyID:                 comparison.SurveyID,
		SubjectOverallScore:      common.Round1Ptr(comparison.SubjectOverallScore),
		OrganizationAverageScore: common.Round1Ptr(comparison.OrganizationAverageScore),
		ScoreDifference:          common.Round1Ptr(comparison.ScoreDifference),
		PercentageDifference:     common.Round1Ptr(comparison.PercentageDifference),
		PerformanceLevel:         string(comparison.PerformanceLevel),
		TotalSubjectsInOrg:       comparison.TotalSubjectsInOrg,
	}
}
