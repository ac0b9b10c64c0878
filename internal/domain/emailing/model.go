package emailing

import "time"

// Item is one evaluator's outstanding work for one survey.
type Item struct {
	SurveyID                  string     `json:"survey_id"`
	SurveyTitle               string     `json:"survey_title"`
	EvaluatorID               string     `json:"evaluator_id"`
	EvaluatorName             string     `json:"evaluator_name"`
	EvaluatorEmail            string     `json:"evaluator_email"`
	OutstandingSubjects       []string   `json:"outstanding_subjects"`
	AssignmentIDs             []string   `json:"assignment_ids"`
	OutstandingCount          int        `json:"outstanding_count"`
	CompletedCount            int        `json:"completed_count"`
	TotalAssigned             int        `json:"total_assigned"`
	LastAssignmentEmailSentAt *time.Time `json:"last_assignment_email_sent_at,omitempty"`
	LastReminderSentAt        *time.Time `json:"last_reminder_sent_at,omitempty"`
	LastAssignedAt            *time.Time `json:"last_assigned_at,omitempty"`
}

// AssignmentRow is one active assignment with the state of its submission.
type AssignmentRow struct {
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
