package relationships

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// Upsert inserts rel unless an active edge for the same pair exists, in
	// which case it returns that edge and created is false.
	Upsert(ctx context.Context, rel *Relationship) (bool, *Relationship, error)
	UpdateLabel(ctx context.Context, tenantID, relationshipID, label string) error
	GetActive(ctx context.Context, tenantID, subjectID, evaluatorID string) (*Relationship, error)
	Deactivate(ctx context.Context, tenantID, relationshipID string, at time.Time) error
	DeactivateAssignments(ctx context.Context, tenantID, relationshipID string, at time.Time) (int64, error)

	ListViewsForSubject(ctx context.Context, tenantID, subjectID string) ([]RelationshipView, error)
	ListViewsForEvaluator(ctx context.Context, tenantID, evaluatorID string) ([]RelationshipView, error)
	GetViews(ctx context.Context, tenantID string, relationshipIDs []string) ([]RelationshipView, error)
}
