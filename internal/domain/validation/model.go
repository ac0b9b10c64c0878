package validation

import identitydomain "feedback360-go/internal/domain/identity"

const MaxCodes = 1000

type Identity struct {
	EmployeeID   string
	EmployeeCode string
	Name         string
	Email        string
	Department   *string
	// RoleID is the existing subject or evaluator wrapper for the requested
	// role. It is nil when the wrapper will be created on first assignment.
	RoleID *string
}

type Result struct {
	Code     string
	Valid    bool
	Reason   string
	Identity *Identity
}

// Response keeps results in request order. With exactly one requested code
// callers may unwrap it through Single; otherwise it is a partial-success batch.
type Response struct {
	Role           identitydomain.Role
	Results        []Result
	TotalRequested int
	ValidCount     int
	InvalidCount   int
}

func (r Response) Single() (Result, bool) {
	if r.TotalRequested != 1 || len(r.Results) != 1 {
		return Result{}, false
	}
	return r.Results[0], true
}
