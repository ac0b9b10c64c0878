package relationships

import "errors"

var (
	ErrRelationshipNotFound = errors.New("relationship not found")
	ErrLabelRequired        = errors.New("relationship label is required")
	ErrLabelTooLong         = errors.New("relationship label is too long")
	ErrNoTargets            = errors.New("at least one id is required")
	ErrBatchTooLarge        = errors.New("too many ids in one request")
	ErrIsolationViolation   = errors.New("operation crosses tenant boundary")
)
