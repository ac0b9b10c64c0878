package relationships

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"feedback360-go/internal/domain/batch"
	identitydomain "feedback360-go/internal/domain/identity"
	"feedback360-go/internal/domain/lifecycle"
	"github.com/google/uuid"
)

type IdentityService interface {
	GetSubject(ctx context.Context, tenantID, subjectID string) (*identitydomain.Subject, error)
	GetEvaluator(ctx context.Context, tenantID, evaluatorID string) (*identitydomain.Evaluator, error)
	LocateSubject(ctx context.Context, subjectID string) (string, bool, error)
	LocateEvaluator(ctx context.Context, evaluatorID string) (string, bool, error)
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}

type Service struct {
	repo        Repository
	identity    IdentityService
	invalidator CacheInvalidator
	now         func() time.Time
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, string) error { return nil }

func NewService(repo Repository, identity IdentityService, invalidator CacheInvalidator) *Service {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &Service{
		repo:        repo,
		identity:    identity,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// Assign links every evaluator to the subject under label. Re-assigning an
// existing pair updates its label. Unknown evaluators fail per item; a
// reference into another tenant rejects the whole call before anything is written.
func (s *Service) Assign(ctx context.Context, tenantID, subjectID string, evaluatorIDs []string, label string) (AssignResult, error) {
	label, err := normalizeLabel(label)
	if err != nil {
		return AssignResult{}, err
	}
	if err := checkBatchSize(len(evaluatorIDs)); err != nil {
		return AssignResult{}, err
	}
	if err := s.requireSubject(ctx, tenantID, subjectID); err != nil {
		return AssignResult{}, err
	}
	for _, evaluatorID := range evaluatorIDs {
		if err := s.checkTenancy(ctx, tenantID, evaluatorID, s.identity.LocateEvaluator); err != nil {
			return AssignResult{}, err
		}
	}

	pairs := make([]pair, 0, len(evaluatorIDs))
	for _, evaluatorID := range evaluatorIDs {
		pairs = append(pairs, pair{subjectID: subjectID, evaluatorID: evaluatorID, check: evaluatorID})
	}
	return s.linkAll(ctx, tenantID, "relationships.assign", pairs, label, func(ctx context.Context, id string) error {
		_, err := s.identity.GetEvaluator(ctx, tenantID, id)
		return err
	})
}

// AssignReciprocal is Assign driven from the evaluator side. Both paths share
// the same upsert so the initiating side never produces a second edge.
func (s *Service) AssignReciprocal(ctx context.Context, tenantID, evaluatorID string, subjectIDs []string, label string) (AssignResult, error) {
	label, err := normalizeLabel(label)
	if err != nil {
		return AssignResult{}, err
	}
	if err := checkBatchSize(len(subjectIDs)); err != nil {
		return AssignResult{}, err
	}
	if err := s.requireEvaluator(ctx, tenantID, evaluatorID); err != nil {
		return AssignResult{}, err
	}
	for _, subjectID := range subjectIDs {
		if err := s.checkTenancy(ctx, tenantID, subjectID, s.identity.LocateSubject); err != nil {
			return AssignResult{}, err
		}
	}

	pairs := make([]pair, 0, len(subjectIDs))
	for _, subjectID := range subjectIDs {
		pairs = append(pairs, pair{subjectID: subjectID, evaluatorID: evaluatorID, check: subjectID})
	}
	return s.linkAll(ctx, tenantID, "relationships.assign_reciprocal", pairs, label, func(ctx context.Context, id string) error {
		_, err := s.identity.GetSubject(ctx, tenantID, id)
		return err
	})
}

// Link upserts a single edge between already-resolved endpoints without
// invalidating caches. Callers batching several links invalidate once.
func (s *Service) Link(ctx context.Context, tenantID, subjectID, evaluatorID, label string) (*Relationship, batch.ItemStatus, error) {
	label, err := normalizeLabel(label)
	if err != nil {
		return nil, batch.ItemFailed, err
	}

	rel := Relationship{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		SubjectID:   subjectID,
		EvaluatorID: evaluatorID,
		Label:       label,
		State:       lifecycle.Active,
	}

	created, existing, err := s.repo.Upsert(ctx, &rel)
	if err != nil {
		return nil, batch.ItemFailed, err
	}
	if created {
		return &rel, batch.ItemCreated, nil
	}
	if existing == nil {
		return nil, batch.ItemFailed, fmt.Errorf("relationship upsert: conflicting row vanished")
	}
	if existing.Label == label {
		return existing, batch.ItemUnchanged, nil
	}

	if err := s.repo.UpdateLabel(ctx, tenantID, existing.ID, label); err != nil {
		return nil, batch.ItemFailed, err
	}
	existing.Label = label
	return existing, batch.ItemUpdated, nil
}

func (s *Service) UpdateLabel(ctx context.Context, tenantID, subjectID, evaluatorID, label string) (*Relationship, error) {
	label, err := normalizeLabel(label)
	if err != nil {
		return nil, err
	}

	rel, err := s.getActive(ctx, tenantID, subjectID, evaluatorID)
	if err != nil {
		return nil, err
	}
	if rel.Label == label {
		return rel, nil
	}

	if err := s.repo.UpdateLabel(ctx, tenantID, rel.ID, label); err != nil {
		return nil, err
	}
	if err := s.invalidator.Invalidate(ctx, tenantID); err != nil {
		return nil, err
	}

	rel.Label = label
	return rel, nil
}

// Remove deactivates the active edge between the pair together with its
// survey assignments. It reports false when there was no active edge.
func (s *Service) Remove(ctx context.Context, tenantID, subjectID, evaluatorID string) (bool, error) {
	rel, err := s.getActive(ctx, tenantID, subjectID, evaluatorID)
	if errors.Is(err, ErrRelationshipNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	at := s.now().UTC()
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Deactivate(ctx, tenantID, rel.ID, at); err != nil {
			return err
		}
		_, err := tx.DeactivateAssignments(ctx, tenantID, rel.ID, at)
		return err
	})
	if err != nil {
		return false, err
	}

	if err := s.invalidator.Invalidate(ctx, tenantID); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Service) ListForSubject(ctx context.Context, tenantID, subjectID string) ([]RelationshipView, error) {
	if err := s.requireSubject(ctx, tenantID, subjectID); err != nil {
		if errors.Is(err, ErrIsolationViolation) {
			return nil, identitydomain.ErrSubjectNotFound
		}
		return nil, err
	}
	return s.repo.ListViewsForSubject(ctx, tenantID, subjectID)
}

func (s *Service) ListForEvaluator(ctx context.Context, tenantID, evaluatorID string) ([]RelationshipView, error) {
	if err := s.requireEvaluator(ctx, tenantID, evaluatorID); err != nil {
		if errors.Is(err, ErrIsolationViolation) {
			return nil, identitydomain.ErrEvaluatorNotFound
		}
		return nil, err
	}
	return s.repo.ListViewsForEvaluator(ctx, tenantID, evaluatorID)
}

// GetViews returns the active edges among relationshipIDs that belong to the
// tenant, keyed by id. Ids that are unknown, inactive or foreign are absent.
func (s *Service) GetViews(ctx context.Context, tenantID string, relationshipIDs []string) (map[string]RelationshipView, error) {
	ids := make([]string, 0, len(relationshipIDs))
	for _, id := range relationshipIDs {
		if _, err := uuid.Parse(id); err == nil {
			ids = append(ids, id)
		}
	}

	views := make(map[string]RelationshipView, len(ids))
	if len(ids) == 0 {
		return views, nil
	}

	found, err := s.repo.GetViews(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	for _, view := range found {
		views[view.ID] = view
	}
	return views, nil
}

type pair struct {
	subjectID   string
	evaluatorID string
	check       string
}

func (s *Service) linkAll(ctx context.Context, tenantID, operation string, pairs []pair, label string, resolve func(context.Context, string) error) (AssignResult, error) {
	result := batch.NewEnvelope[Outcome](len(pairs))
	changed := false

	for _, p := range pairs {
		outcome := Outcome{SubjectID: p.subjectID, EvaluatorID: p.evaluatorID, Label: label}

		if err := resolve(ctx, p.check); err != nil {
			code, message := itemError(err)
			message = fmt.Sprintf("%s: %s", p.check, message)
			outcome.Status = batch.ItemFailed
			outcome.Error = &batch.ItemError{Code: code, Message: message}
			result.Fail(outcome, message)
			continue
		}

		rel, status, err := s.Link(ctx, tenantID, p.subjectID, p.evaluatorID, label)
		if err != nil {
			code, message := itemError(err)
			message = fmt.Sprintf("%s: %s", p.check, message)
			outcome.Status = batch.ItemFailed
			outcome.Error = &batch.ItemError{Code: code, Message: message}
			result.Fail(outcome, message)
			continue
		}

		if status != batch.ItemUnchanged {
			changed = true
		}
		outcome.RelationshipID = &rel.ID
		outcome.Status = status
		result.Succeed(outcome)
	}

	result.Finish(operation)
	if changed {
		if err := s.invalidator.Invalidate(ctx, tenantID); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *Service) getActive(ctx context.Context, tenantID, subjectID, evaluatorID string) (*Relationship, error) {
	if _, err := uuid.Parse(subjectID); err != nil {
		return nil, ErrRelationshipNotFound
	}
	if _, err := uuid.Parse(evaluatorID); err != nil {
		return nil, ErrRelationshipNotFound
	}
	return s.repo.GetActive(ctx, tenantID, subjectID, evaluatorID)
}

func (s *Service) requireSubject(ctx context.Context, tenantID, subjectID string) error {
	_, err := s.identity.GetSubject(ctx, tenantID, subjectID)
	if !errors.Is(err, identitydomain.ErrSubjectNotFound) {
		return err
	}
	if isolationErr := s.checkTenancy(ctx, tenantID, subjectID, s.identity.LocateSubject); isolationErr != nil {
		return isolationErr
	}
	return err
}

func (s *Service) requireEvaluator(ctx context.Context, tenantID, evaluatorID string) error {
	_, err := s.identity.GetEvaluator(ctx, tenantID, evaluatorID)
	if !errors.Is(err, identitydomain.ErrEvaluatorNotFound) {
		return err
	}
	if isolationErr := s.checkTenancy(ctx, tenantID, evaluatorID, s.identity.LocateEvaluator); isolationErr != nil {
		return isolationErr
	}
	return err
}

func (s *Service) checkTenancy(ctx context.Context, tenantID, id string, locate func(context.Context, string) (string, bool, error)) error {
	owner, found, err := locate(ctx, id)
	if err != nil {
		return err
	}
	if found && owner != tenantID {
		return ErrIsolationViolation
	}
	return nil
}

func itemError(err error) (batch.ErrorCode, string) {
	switch {
	case errors.Is(err, identitydomain.ErrSubjectNotFound),
		errors.Is(err, identitydomain.ErrEvaluatorNotFound):
		return batch.ErrorCodeNotFound, err.Error()
	case errors.Is(err, identitydomain.ErrEmployeeInactive):
		return batch.ErrorCodeInactive, err.Error()
	default:
		return batch.ErrorCodeInternalError, "internal error"
	}
}

func normalizeLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ErrLabelRequired
	}
	if len([]rune(label)) > MaxLabelLength {
		return "", ErrLabelTooLong
	}
	return label, nil
}

func checkBatchSize(n int) error {
	if n == 0 {
		return ErrNoTargets
	}
	if n > MaxBatchItems {
		return ErrBatchTooLarge
	}
	return nil
}
