package assignments

import (
	"time"

	"feedback360-go/internal/domain/batch"
	"feedback360-go/internal/domain/lifecycle"
	relationshipsdomain "feedback360-go/internal/domain/relationships"
	"gorm.io/datatypes"
)

const MaxBatchItems = 500

type Survey struct {
	ID               string `gorm:"type:uuid;primaryKey"`
	TenantID         string `gorm:"type:uuid;not null"`
	Title            string `gorm:"not null"`
	Description      *string
	Schema           datatypes.JSON  `gorm:"type:jsonb;not null"`
	IsSelfEvaluation bool            `gorm:"not null;default:false"`
	State            lifecycle.State `gorm:"type:varchar(16);not null;default:active"`
	CreatedAt        time.Time       `gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime"`
}

// Accepts reports whether a relationship of the given shape can carry this survey.
func (s Survey) Accepts(isSelf bool) bool {
	return s.IsSelfEvaluation == isSelf
}

// Assignment links one relationship to one survey.
type Assignment struct {
	ID                    string          `gorm:"type:uuid;primaryKey"`
	TenantID              string          `gorm:"type:uuid;not null"`
	RelationshipID        string          `gorm:"type:uuid;not null"`
	SurveyID              string          `gorm:"type:uuid;not null"`
	State                 lifecycle.State `gorm:"type:varchar(16);not null;default:active"`
	AssignmentEmailSentAt *time.Time
	LastReminderSentAt    *time.Time
	ReminderCount         int `gorm:"not null;default:0"`
	DeactivatedAt         *time.Time
	CreatedAt             time.Time `gorm:"autoCreateTime"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime"`
}

func (Assignment) TableName() string {
	return "subject_evaluator_surveys"
}

type SubmissionStatus string

const (
	SubmissionNotStarted SubmissionStatus = "not_started"
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionCompleted  SubmissionStatus = "completed"
)

func (s SubmissionStatus) rank() int {
	switch s {
	case SubmissionInProgress:
		return 1
	case SubmissionCompleted:
		return 2
	default:
		return 0
	}
}

type Submission struct {
	ID           string           `gorm:"type:uuid;primaryKey"`
	TenantID     string           `gorm:"type:uuid;not null"`
	AssignmentID string           `gorm:"type:uuid;not null"`
	EvaluatorID  string           `gorm:"type:uuid;not null"`
	SubjectID    string           `gorm:"type:uuid;not null"`
	SurveyID     string           `gorm:"type:uuid;not null"`
	ResponseData datatypes.JSON   `gorm:"type:jsonb"`
	Status       SubmissionStatus `gorm:"type:varchar(16);not null"`
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Submission) TableName() string {
	return "survey_submissions"
}

type CreateSurveyInput struct {
	TenantID         string
	Title            string
	Description      *string
	Schema           []byte
	IsSelfEvaluation bool
}

type RelationshipFilter struct {
	SubjectID   string
	EvaluatorID string
	Label       string
}

// AssignedRelationship is a relationship carrying an active assignment for a
// survey, with the progress of its submission.
type AssignedRelationship struct {
	relationshipsdomain.RelationshipView
	AssignmentID     string
	SubmissionStatus SubmissionStatus
}

type SurveyOutcome struct {
	RelationshipID string           `json:"relationship_id"`
	AssignmentID   *string          `json:"assignment_id,omitempty"`
	Status         batch.ItemStatus `json:"status"`
	Error          *batch.ItemError `json:"error,omitempty"`
}

type SurveyAssignResult struct {
	batch.Envelope[SurveyOutcome]
	AssignedCount int `json:"assigned_count"`
}

type UnassignResult struct {
	UnassignedCount int `json:"unassigned_count"`
}

type ImportRow struct {
	EvaluatorCode string
	SubjectCode   string
	Label         string
}

type ImportInput struct {
	Rows     []ImportRow
	SurveyID *string
}

type RowOutcome struct {
	Row            int              `json:"row"`
	EvaluatorCode  string           `json:"evaluator_code"`
	SubjectCode    string           `json:"subject_code"`
	Label          string           `json:"relationship"`
	RelationshipID *string          `json:"relationship_id,omitempty"`
	AssignmentID   *string          `json:"assignment_id,omitempty"`
	Status         batch.ItemStatus `json:"status"`
	Error          *batch.ItemError `json:"error,omitempty"`
}

type ImportResult = batch.Envelope[RowOutcome]

type SaveSubmissionInput struct {
	TenantID     string
	AssignmentID string
	ResponseData []byte
	Complete     bool
}

type NotificationKind string

const (
	NotificationAssignment NotificationKind = "assignment"
	NotificationReminder   NotificationKind = "reminder"
)

func (k NotificationKind) Valid() bool {
	return k == NotificationAssignment || k == NotificationReminder
}
