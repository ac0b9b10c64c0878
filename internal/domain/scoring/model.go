package scoring

import "time"

type PerformanceLevel string

const (
	PerformanceAbovePar PerformanceLevel = "above_par"
	PerformanceBelowPar PerformanceLevel = "below_par"
	PerformanceAtPar    PerformanceLevel = "at_par"
	PerformanceNoData   PerformanceLevel = "no_data"
)

// CompletedSubmission is a completed answer-set together with the identity of
// both sides of the relationship it was given for.
type CompletedSubmission struct {
	SubmissionID        string
	AssignmentID        string
	SubjectID           string
	SubjectEmployeeID   string
	EvaluatorID         string
	EvaluatorEmployeeID string
	EvaluatorName       string
	Relationship        string
	ResponseData        []byte
	CompletedAt         *time.Time
}

// IsSelf reports whether the subject rated themself.
func (s CompletedSubmission) IsSelf() bool {
	return s.SubjectEmployeeID != "" && s.SubjectEmployeeID == s.EvaluatorEmployeeID
}

type QuestionScore struct {
	QuestionID string
	Text       string
	Answered   bool
	Position   *int
	Score      *float64
}

// ScoreSummary is the score of one submission. OverallScore is 0 when
// AnsweredQuestions is 0.
type ScoreSummary struct {
	OverallScore      float64
	TotalQuestions    int
	AnsweredQuestions int
	QuestionScores    []QuestionScore
}

type SubmissionSummary struct {
	SubmissionID  string
	EvaluatorID   string
	EvaluatorName string
	Relationship  string
	IsSelf        bool
	CompletedAt   *time.Time
	Summary       ScoreSummary
}

type QuestionComparison struct {
	QuestionID            string
	Text                  string
	SelfScore             *float64
	EvaluatorAverageScore *float64
	EvaluatorResponses    int
	ScoreDifference       *float64
}

// SelfVsEvaluator compares the subject's own rating with the average of the
// other evaluators. EvaluatorCount of 0 means no evaluator data yet.
type SelfVsEvaluator struct {
	SubjectID             string
	SurveyID              string
	SelfScore             *float64
	EvaluatorAverageScore *float64
	ScoreDifference       *float64
	PercentageDifference  *float64
	EvaluatorCount        int
	QuestionComparisons   []QuestionComparison
}

type OrganizationComparison struct {
	SubjectID                string
	SurveyID                 string
	SubjectOverallScore      *float64
	OrganizationAverageScore *float64
	ScoreDifference          *float64
	PercentageDifference     *float64
	PerformanceLevel         PerformanceLevel
	TotalSubjectsInOrg       int
}

type ComprehensiveReport struct {
	SubjectID       string
	SurveyID        string
	Submissions     []SubmissionSummary
	SelfVsEvaluator SelfVsEvaluator
	Organization    OrganizationComparison
	GeneratedAt     time.Time
}
