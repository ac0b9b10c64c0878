package relationships

import (
	"context"
	"errors"
	"testing"
	"time"

	"feedback360-go/internal/domain/batch"
	emailingdomain "feedback360-go/internal/domain/emailing"
	identitydomain "feedback360-go/internal/domain/identity"
	"feedback360-go/internal/domain/lifecycle"
	"feedback360-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tenantA = "a0000000-0000-4000-8000-000000000001"
	tenantB = "b0000000-0000-4000-8000-000000000001"

	subjectA    = "a0000000-0000-4000-8000-0000000000d1"
	evaluatorA1 = "a0000000-0000-4000-8000-0000000000e1"
	evaluatorA2 = "a0000000-0000-4000-8000-0000000000e2"
	evaluatorB  = "b0000000-0000-4000-8000-0000000000e1"
	missingID   = "c0000000-0000-4000-8000-000000000000"
)

type fakeIdentity struct {
	subjects   map[string]string
	evaluators map[string]string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		subjects: map[string]string{
			subjectA: tenantA,
		},
		evaluators: map[string]string{
			evaluatorA1: tenantA,
			evaluatorA2: tenantA,
			evaluatorB:  tenantB,
		},
	}
}

func (f *fakeIdentity) GetSubject(ctx context.Context, tenantID, subjectID string) (*identitydomain.Subject, error) {
	if f.subjects[subjectID] != tenantID {
		return nil, identitydomain.ErrSubjectNotFound
	}
	return &identitydomain.Subject{ID: subjectID, TenantID: tenantID, State: lifecycle.Active}, nil
}

func (f *fakeIdentity) GetEvaluator(ctx context.Context, tenantID, evaluatorID string) (*identitydomain.Evaluator, error) {
	if f.evaluators[evaluatorID] != tenantID {
		return nil, identitydomain.ErrEvaluatorNotFound
	}
	return &identitydomain.Evaluator{ID: evaluatorID, TenantID: tenantID, State: lifecycle.Active}, nil
}

func (f *fakeIdentity) LocateSubject(ctx context.Context, subjectID string) (string, bool, error) {
	tenantID, ok := f.subjects[subjectID]
	return tenantID, ok, nil
}

func (f *fakeIdentity) LocateEvaluator(ctx context.Context, evaluatorID string) (string, bool, error) {
	tenantID, ok := f.evaluators[evaluatorID]
	return tenantID, ok, nil
}

type fakeRelationshipRepo struct {
	rows                  []*Relationship
	deactivatedAssignment []string
}

func (r *fakeRelationshipRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRelationshipRepo) Upsert(ctx context.Context, rel *Relationship) (bool, *Relationship, error) {
	for _, row := range r.rows {
		if row.TenantID == rel.TenantID && row.SubjectID == rel.SubjectID && row.EvaluatorID == rel.EvaluatorID && row.State.IsActive() {
			copied := *row
			return false, &copied, nil
		}
	}
	copied := *rel
	r.rows = append(r.rows, &copied)
	return true, nil, nil
}

func (r *fakeRelationshipRepo) UpdateLabel(ctx context.Context, tenantID, relationshipID, label string) error {
	for _, row := range r.rows {
		if row.ID == relationshipID && row.TenantID == tenantID {
			row.Label = label
			return nil
		}
	}
	return ErrRelationshipNotFound
}

func (r *fakeRelationshipRepo) GetActive(ctx context.Context, tenantID, subjectID, evaluatorID string) (*Relationship, error) {
	for _, row := range r.rows {
		if row.TenantID == tenantID && row.SubjectID == subjectID && row.EvaluatorID == evaluatorID && row.State.IsActive() {
			copied := *row
			return &copied, nil
		}
	}
	return nil, ErrRelationshipNotFound
}

func (r *fakeRelationshipRepo) Deactivate(ctx context.Context, tenantID, relationshipID string, at time.Time) error {
	for _, row := range r.rows {
		if row.ID == relationshipID && row.TenantID == tenantID {
			row.State = lifecycle.Deactivated
			row.DeactivatedAt = &at
			return nil
		}
	}
	return ErrRelationshipNotFound
}

func (r *fakeRelationshipRepo) DeactivateAssignments(ctx context.Context, tenantID, relationshipID string, at time.Time) (int64, error) {
	r.deactivatedAssignment = append(r.deactivatedAssignment, relationshipID)
	return 1, nil
}

func (r *fakeRelationshipRepo) ListViewsForSubject(ctx context.Context, tenantID, subjectID string) ([]RelationshipView, error) {
	var out []RelationshipView
	for _, row := range r.rows {
		if row.TenantID == tenantID && row.SubjectID == subjectID && row.State.IsActive() {
			out = append(out, RelationshipView{Relationship: *row})
		}
	}
	return out, nil
}

func (r *fakeRelationshipRepo) ListViewsForEvaluator(ctx context.Context, tenantID, evaluatorID string) ([]RelationshipView, error) {
	var out []RelationshipView
	for _, row := range r.rows {
		if row.TenantID == tenantID && row.EvaluatorID == evaluatorID && row.State.IsActive() {
			out = append(out, RelationshipView{Relationship: *row})
		}
	}
	return out, nil
}

func (r *fakeRelationshipRepo) GetViews(ctx context.Context, tenantID string, relationshipIDs []string) ([]RelationshipView, error) {
	var out []RelationshipView
	for _, id := range relationshipIDs {
		for _, row := range r.rows {
			if row.ID == id && row.TenantID == tenantID && row.State.IsActive() {
				out = append(out, RelationshipView{Relationship: *row})
			}
		}
	}
	return out, nil
}

func (r *fakeRelationshipRepo) activeCount(tenantID, subjectID, evaluatorID string) int {
	count := 0
	for _, row := range r.rows {
		if row.TenantID == tenantID && row.SubjectID == subjectID && row.EvaluatorID == evaluatorID && row.State.IsActive() {
			count++
		}
	}
	return count
}

type recordingInvalidator struct {
	tenants []string
	err     error
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, tenantID string) error {
	r.tenants = append(r.tenants, tenantID)
	return r.err
}

func newTestService() (*Service, *fakeRelationshipRepo, *recordingInvalidator) {
	repo := &fakeRelationshipRepo{}
	invalidator := &recordingInvalidator{}
	return NewService(repo, newFakeIdentity(), invalidator), repo, invalidator
}

func TestAssignTwiceKeepsSingleEdge(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1}, "Manager")
	require.NoError(t, err)
	second, err := svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1}, "Manager")
	require.NoError(t, err)

	assert.Equal(t, batch.ItemCreated, first.Items[0].Status)
	assert.Equal(t, batch.ItemUnchanged, second.Items[0].Status)
	assert.Equal(t, batch.StatusSuccess, second.Status)
	assert.Len(t, repo.rows, 1)
	assert.Equal(t, "Manager", repo.rows[0].Label)
}

func TestAssignWithNewLabelUpdatesInPlace(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1}, "Peer")
	require.NoError(t, err)
	result, err := svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1}, " Manager ")
	require.NoError(t, err)

	assert.Equal(t, batch.ItemUpdated, result.Items[0].Status)
	assert.Equal(t, 1, repo.activeCount(tenantA, subjectA, evaluatorA1))
	assert.Equal(t, "Manager", repo.rows[0].Label)
}

func TestAssignReciprocalReusesExistingEdge(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1}, "Peer")
	require.NoError(t, err)
	result, err := svc.AssignReciprocal(ctx, tenantA, evaluatorA1, []string{subjectA}, "Peer")
	require.NoError(t, err)

	assert.Equal(t, batch.ItemUnchanged, result.Items[0].Status)
	assert.Equal(t, 1, repo.activeCount(tenantA, subjectA, evaluatorA1))
}

func TestAssignUnknownEvaluatorFailsPerItem(t *testing.T) {
	svc, repo, _ := newTestService()

	result, err := svc.Assign(context.Background(), tenantA, subjectA, []string{evaluatorA1, missingID, evaluatorA2}, "Peer")
	require.NoError(t, err)

	assert.Equal(t, batch.StatusPartialSuccess, result.Status)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	require.Len(t, result.Items, 3)
	assert.Equal(t, batch.ErrorCodeNotFound, result.Items[1].Error.Code)
	assert.Len(t, repo.rows, 2)
}

func TestAssignAcrossTenantsIsRejected(t *testing.T) {
	svc, repo, invalidator := newTestService()

	_, err := svc.Assign(context.Background(), tenantA, subjectA, []string{evaluatorA1, evaluatorB}, "Peer")
	assert.ErrorIs(t, err, ErrIsolationViolation)
	assert.Empty(t, repo.rows)
	assert.Empty(t, invalidator.tenants)

	_, err = svc.Assign(context.Background(), tenantB, subjectA, []string{evaluatorB}, "Peer")
	assert.ErrorIs(t, err, ErrIsolationViolation)
	assert.Empty(t, repo.rows)
}

func TestAssignRequiresLabel(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Assign(context.Background(), tenantA, subjectA, []string{evaluatorA1}, "  ")
	assert.ErrorIs(t, err, ErrLabelRequired)
}

func TestRemoveDeactivatesEdgeAndAssignments(t *testing.T) {
	svc, repo, invalidator := newTestService()
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1}, "Peer")
	require.NoError(t, err)
	invalidator.tenants = nil

	removed, err := svc.Remove(ctx, tenantA, subjectA, evaluatorA1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, lifecycle.Deactivated, repo.rows[0].State)
	assert.Equal(t, fixed, *repo.rows[0].DeactivatedAt)
	assert.Equal(t, []string{repo.rows[0].ID}, repo.deactivatedAssignment)
	assert.Equal(t, []string{tenantA}, invalidator.tenants)

	removed, err = svc.Remove(ctx, tenantA, subjectA, evaluatorA1)
	require.NoError(t, err)
	assert.False(t, removed)
}

// unreachableCache stands in for a shared cache whose server is down.
type unreachableCache struct{}

var errCacheDown = errors.New("dial tcp: connection refused")

func (unreachableCache) Generation(context.Context, string) (int64, error) {
	return 0, errCacheDown
}

func (unreachableCache) Get(context.Context, string) ([]emailingdomain.Item, bool, error) {
	return nil, false, errCacheDown
}

func (unreachableCache) Set(context.Context, string, int64, []emailingdomain.Item) error {
	return errCacheDown
}

func (unreachableCache) Invalidate(context.Context, string) error {
	return errCacheDown
}

func (unreachableCache) Clear(context.Context) error {
	return errCacheDown
}

func TestRemoveReportsFailedSharedCacheInvalidation(t *testing.T) {
	repo := &fakeRelationshipRepo{}
	emailing := emailingdomain.NewService(nil, unreachableCache{}, logger.Nop())
	svc := NewService(repo, newFakeIdentity(), emailing)
	ctx := context.Background()

	_, err := svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1}, "Peer")
	require.ErrorIs(t, err, emailingdomain.ErrInvalidationFailed)
	require.Equal(t, 1, repo.activeCount(tenantA, subjectA, evaluatorA1))

	removed, err := svc.Remove(ctx, tenantA, subjectA, evaluatorA1)
	require.ErrorIs(t, err, emailingdomain.ErrInvalidationFailed)
	assert.ErrorIs(t, err, errCacheDown)
	assert.True(t, removed)
	assert.Equal(t, lifecycle.Deactivated, repo.rows[0].State)
}

func TestUpdateLabelReportsInvalidationError(t *testing.T) {
	svc, _, invalidator := newTestService()
	ctx := context.Background()

	_, err := svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1}, "Peer")
	require.NoError(t, err)

	invalidator.err = errCacheDown
	_, err = svc.UpdateLabel(ctx, tenantA, subjectA, evaluatorA1, "Manager")
	assert.ErrorIs(t, err, errCacheDown)
}

func TestAssignAfterRemoveCreatesFreshEdge(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1}, "Peer")
	require.NoError(t, err)
	_, err = svc.Remove(ctx, tenantA, subjectA, evaluatorA1)
	require.NoError(t, err)
	_, err = svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1}, "Manager")
	require.NoError(t, err)

	assert.Len(t, repo.rows, 2)
	assert.Equal(t, 1, repo.activeCount(tenantA, subjectA, evaluatorA1))
}

func TestUpdateLabel(t *testing.T) {
	svc, _, invalidator := newTestService()
	ctx := context.Background()

	_, err := svc.UpdateLabel(ctx, tenantA, subjectA, evaluatorA1, "Manager")
	assert.ErrorIs(t, err, ErrRelationshipNotFound)

	_, err = svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1}, "Peer")
	require.NoError(t, err)
	invalidator.tenants = nil

	rel, err := svc.UpdateLabel(ctx, tenantA, subjectA, evaluatorA1, "Manager")
	require.NoError(t, err)
	assert.Equal(t, "Manager", rel.Label)
	assert.Equal(t, []string{tenantA}, invalidator.tenants)

	_, err = svc.UpdateLabel(ctx, tenantB, subjectA, evaluatorA1, "Peer")
	assert.ErrorIs(t, err, ErrRelationshipNotFound)
}

func TestListForSubjectHidesForeignTenant(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Assign(ctx, tenantA, subjectA, []string{evaluatorA1, evaluatorA2}, "Peer")
	require.NoError(t, err)

	views, err := svc.ListForSubject(ctx, tenantA, subjectA)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	_, err = svc.ListForSubject(ctx, tenantB, subjectA)
	assert.ErrorIs(t, err, identitydomain.ErrSubjectNotFound)
}

func TestRelationshipViewIsSelf(t *testing.T) {
	view := RelationshipView{
		Subject:   Party{EmployeeID: "emp-1"},
		Evaluator: Party{EmployeeID: "emp-1"},
	}
	assert.True(t, view.IsSelf())

	view.Evaluator.EmployeeID = "emp-2"
	assert.False(t, view.IsSelf())
}
