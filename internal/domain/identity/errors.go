package identity

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmployeeInactive     = errors.New("employee is inactive")
	ErrEmployeeCodeTaken    = errors.New("employee code already exists")
	ErrEmployeeCodeRequired = errors.New("employee code is required")
	ErrInvalidEmployee      = errors.New("employee name and email are required")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrEvaluatorNotFound    = errors.New("evaluator not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrTooManyEmployees     = errors.New("too many employees in one batch")
)
