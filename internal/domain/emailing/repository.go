package emailing

import "context"

type Repository interface {
	// ListAssignmentRows returns active assignments of active surveys whose
	// relationship and both employees are active, ordered by subject name.
	// It must not write.
	ListAssignmentRows(ctx context.Context, tenantID string) ([]AssignmentRow, error)
}
