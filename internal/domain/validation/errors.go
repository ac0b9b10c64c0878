package validation

import "errors"

var (
	ErrNoCodes      = errors.New("at least one employee code is required")
	ErrTooManyCodes = errors.New("too many employee codes in one request")
	ErrInvalidRole  = errors.New("role must be subject or evaluator")
)
