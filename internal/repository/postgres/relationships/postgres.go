package relationships

import (
	"context"
	"errors"
	"time"

	"feedback360-go/internal/domain/lifecycle"
	relationshipsdomain "feedback360-go/internal/domain/relationships"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(relationshipsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Upsert(ctx context.Context, rel *relationshipsdomain.Relationship) (bool, *relationshipsdomain.Relationship, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "tenant_id"}, {Name: "subject_id"}, {Name: "evaluator_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Eq{Column: "state", Value: lifecycle.Active}}},
			DoNothing:   true,
		}).
		Create(rel)
	if result.Error != nil {
		return false, nil, result.Error
	}
	if result.RowsAffected == 1 {
		return true, rel, nil
	}

	existing, err := r.GetActive(ctx, rel.TenantID, rel.SubjectID, rel.EvaluatorID)
	if err != nil {
		return false, nil, err
	}
	return false, existing, nil
}

func (r *PostgresRepository) UpdateLabel(ctx context.Context, tenantID, relationshipID, label string) error {
	result := r.db.WithContext(ctx).
		Model(&relationshipsdomain.Relationship{}).
		Where("tenant_id = ? AND id = ? AND state = ?", tenantID, relationshipID, lifecycle.Active).
		Update("relationship", label)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return relationshipsdomain.ErrRelationshipNotFound
	}
	return nil
}

func (r *PostgresRepository) GetActive(ctx context.Context, tenantID, subjectID, evaluatorID string) (*relationshipsdomain.Relationship, error) {
	var rel relationshipsdomain.Relationship
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND subject_id = ? AND evaluator_id = ? AND state = ?", tenantID, subjectID, evaluatorID, lifecycle.Active).
		First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, relationshipsdomain.ErrRelationshipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, tenantID, relationshipID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&relationshipsdomain.Relationship{}).
		Where("tenant_id = ? AND id = ? AND state = ?", tenantID, relationshipID, lifecycle.Active).
		Updates(map[string]any{"state": lifecycle.Deactivated, "deactivated_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return relationshipsdomain.ErrRelationshipNotFound
	}
	return nil
}

func (r *PostgresRepository) DeactivateAssignments(ctx context.Context, tenantID, relationshipID string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Table("subject_evaluator_surveys").
		Where("tenant_id = ? AND relationship_id = ? AND state = ?", tenantID, relationshipID, lifecycle.Active).
		Updates(map[string]any{"state": lifecycle.Deactivated, "deactivated_at": at, "updated_at": at})
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) ListViewsForSubject(ctx context.Context, tenantID, subjectID string) ([]relationshipsdomain.RelationshipView, error) {
	return r.listViews(r.views(ctx, tenantID).
		Where("subject_evaluators.subject_id = ?", subjectID).
		Order("evaluator_employees.name asc"))
}

func (r *PostgresRepository) ListViewsForEvaluator(ctx context.Context, tenantID, evaluatorID string) ([]relationshipsdomain.RelationshipView, error) {
	return r.listViews(r.views(ctx, tenantID).
		Where("subject_evaluators.evaluator_id = ?", evaluatorID).
		Order("subject_employees.name asc"))
}

func (r *PostgresRepository) GetViews(ctx context.Context, tenantID string, relationshipIDs []string) ([]relationshipsdomain.RelationshipView, error) {
	if len(relationshipIDs) == 0 {
		return nil, nil
	}
	return r.listViews(r.views(ctx, tenantID).
		Where("subject_evaluators.id IN ?", relationshipIDs))
}

// views selects active edges whose both sides are still active.
func (r *PostgresRepository) views(ctx context.Context, tenantID string) *gorm.DB {
	return ViewQuery(r.db.WithContext(ctx), tenantID)
}

func (r *PostgresRepository) listViews(query *gorm.DB) ([]relationshipsdomain.RelationshipView, error) {
	var rows []ViewRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]relationshipsdomain.RelationshipView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.View())
	}
	return views, nil
}
