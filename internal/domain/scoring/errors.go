package scoring

import "errors"

var (
	ErrInvalidSchema   = errors.New("invalid survey schema")
	ErrInvalidResponse = errors.New("invalid response data")
	ErrSurveyNotFound  = errors.New("survey not found")
)
