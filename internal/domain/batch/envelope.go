package batch

type Status string

const (
	StatusSuccess        Status = "success"
	StatusPartialSuccess Status = "partial_success"
	StatusFailed         Status = "failed"
)

type ItemStatus string

const (
	ItemCreated   ItemStatus = "created"
	ItemUpdated   ItemStatus = "updated"
	ItemUnchanged ItemStatus = "unchanged"
	ItemSkipped   ItemStatus = "skipped"
	ItemFailed    ItemStatus = "failed"
)

type ErrorCode string

const (
	ErrorCodeInvalidRequest     ErrorCode = "invalid_request"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeInactive           ErrorCode = "inactive"
	ErrorCodeDuplicate          ErrorCode = "duplicate"
	ErrorCodeShapeMismatch      ErrorCode = "survey_shape_mismatch"
	ErrorCodeIsolationViolation ErrorCode = "isolation_violation"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

type ItemError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Envelope is the partial-success result shared by every batch operation.
// Items keep input order so callers can zip them back to their source rows.
type Envelope[T any] struct {
	Status       Status   `json:"status"`
	SuccessCount int      `json:"success_count"`
	FailureCount int      `json:"failure_count"`
	Errors       []string `json:"errors"`
	Items        []T      `json:"items"`
}

func NewEnvelope[T any](capacity int) Envelope[T] {
	return Envelope[T]{
		Errors: make([]string, 0),
		Items:  make([]T, 0, capacity),
	}
}

func (e *Envelope[T]) Succeed(item T) {
	e.Items = append(e.Items, item)
	e.SuccessCount++
}

func (e *Envelope[T]) Fail(item T, message string) {
	e.Items = append(e.Items, item)
	e.Errors = append(e.Errors, message)
	e.FailureCount++
}

// Finish derives the overall status and records item outcomes under operation.
func (e *Envelope[T]) Finish(operation string) {
	e.Status = deriveStatus(e.SuccessCount, e.FailureCount)
	recordOutcome(operation, e.SuccessCount, e.FailureCount)
}

func deriveStatus(succeeded, failed int) Status {
	if failed == 0 {
		return StatusSuccess
	}
	if succeeded > 0 {
		return StatusPartialSuccess
	}
	return StatusFailed
}
