package assignments

import "errors"

var (
	ErrSurveyNotFound       = errors.New("survey not found")
	ErrSurveyTitleRequired  = errors.New("survey title is required")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrSubmissionCompleted  = errors.New("submission is already completed")
	ErrSubmissionConflict   = errors.New("submission was changed concurrently")
	ErrInvalidNotification  = errors.New("notification kind must be assignment or reminder")
	ErrNoTargets            = errors.New("at least one id is required")
	ErrBatchTooLarge        = errors.New("too many items in one request")
	ErrShapeMismatch        = errors.New("relationship does not match survey type")
	ErrRelationshipNotFound = errors.New("relationship not found")
)
