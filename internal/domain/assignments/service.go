package assignments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"feedback360-go/internal/domain/batch"
	identitydomain "feedback360-go/internal/domain/identity"
	"feedback360-go/internal/domain/lifecycle"
	relationshipsdomain "feedback360-go/internal/domain/relationships"
	"feedback360-go/internal/domain/scoring"
	"github.com/google/uuid"
)

type IdentityService interface {
	ResolveEmployeeCode(ctx context.Context, tenantID, code string) (*identitydomain.Employee, error)
	EnsureSubject(ctx context.Context, tenantID, employeeID string) (*identitydomain.Subject, error)
	EnsureEvaluator(ctx context.Context, tenantID, employeeID string) (*identitydomain.Evaluator, error)
}

type RelationshipsService interface {
	GetViews(ctx context.Context, tenantID string, relationshipIDs []string) (map[string]relationshipsdomain.RelationshipView, error)
	Link(ctx context.Context, tenantID, subjectID, evaluatorID, label string) (*relationshipsdomain.Relationship, batch.ItemStatus, error)
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}

type Config struct {
	AllowEditAfterCompletion bool
}

type Service struct {
	repo          Repository
	identity      IdentityService
	relationships RelationshipsService
	invalidator   CacheInvalidator
	cfg           Config
	now           func() time.Time
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, string) error { return nil }

func NewService(repo Repository, identity IdentityService, relationships RelationshipsService, invalidator CacheInvalidator, cfg Config) *Service {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &Service{
		repo:          repo,
		identity:      identity,
		relationships: relationships,
		invalidator:   invalidator,
		cfg:           cfg,
		now:           time.Now,
	}
}

func (s *Service) CreateSurvey(ctx context.Context, input CreateSurveyInput) (*Survey, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrSurveyTitleRequired
	}
	if _, err := scoring.ParseSchema(input.Schema); err != nil {
		return nil, err
	}

	survey := Survey{
		ID:               uuid.NewString(),
		TenantID:         input.TenantID,
		Title:            title,
		Description:      trimmedOrNil(input.Description),
		Schema:           append([]byte(nil), input.Schema...),
		IsSelfEvaluation: input.IsSelfEvaluation,
		State:            lifecycle.Active,
	}
	if err := s.repo.CreateSurvey(ctx, &survey); err != nil {
		return nil, err
	}
	return &survey, nil
}

func (s *Service) GetSurvey(ctx context.Context, tenantID, surveyID string) (*Survey, error) {
	if _, err := uuid.Parse(surveyID); err != nil {
		return nil, ErrSurveyNotFound
	}
	return s.repo.GetSurvey(ctx, tenantID, surveyID)
}

func (s *Service) ListSurveys(ctx context.Context, tenantID string) ([]Survey, error) {
	return s.repo.ListSurveys(ctx, tenantID)
}

func (s *Service) DeactivateSurvey(ctx context.Context, tenantID, surveyID string) error {
	survey, err := s.GetSurvey(ctx, tenantID, surveyID)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateSurveyState(ctx, tenantID, survey.ID, lifecycle.Deactivated); err != nil {
		return err
	}
	return s.invalidator.Invalidate(ctx, tenantID)
}

// AvailableRelationships lists relationships of the survey's shape that are
// not yet assigned to it.
func (s *Service) AvailableRelationships(ctx context.Context, tenantID, surveyID string, filter RelationshipFilter) ([]relationshipsdomain.RelationshipView, error) {
	survey, err := s.GetSurvey(ctx, tenantID, surveyID)
	if err != nil {
		return nil, err
	}

	filter.Label = strings.TrimSpace(filter.Label)
	candidates, err := s.repo.ListUnassigned(ctx, tenantID, survey.ID, filter)
	if err != nil {
		return nil, err
	}

	available := make([]relationshipsdomain.RelationshipView, 0, len(candidates))
	for _, view := range candidates {
		if survey.Accepts(view.IsSelf()) {
			available = append(available, view)
		}
	}
	return available, nil
}

func (s *Service) AssignedRelationships(ctx context.Context, tenantID, surveyID string) ([]AssignedRelationship, error) {
	survey, err := s.GetSurvey(ctx, tenantID, surveyID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAssigned(ctx, tenantID, survey.ID)
}

// AssignSurveyToRelationships attaches the survey to each relationship.
// Already assigned relationships are skipped; every other failure is
// reported per item.
func (s *Service) AssignSurveyToRelationships(ctx context.Context, tenantID, surveyID string, relationshipIDs []string) (SurveyAssignResult, error) {
	if err := checkBatchSize(len(relationshipIDs)); err != nil {
		return SurveyAssignResult{}, err
	}
	survey, err := s.GetSurvey(ctx, tenantID, surveyID)
	if err != nil {
		return SurveyAssignResult{}, err
	}

	views, err := s.relationships.GetViews(ctx, tenantID, relationshipIDs)
	if err != nil {
		return SurveyAssignResult{}, err
	}

	result := SurveyAssignResult{Envelope: batch.NewEnvelope[SurveyOutcome](len(relationshipIDs))}
	for _, relationshipID := range relationshipIDs {
		outcome := SurveyOutcome{RelationshipID: relationshipID}

		view, ok := views[relationshipID]
		if !ok {
			failSurveyOutcome(&result, outcome, batch.ErrorCodeNotFound, ErrRelationshipNotFound)
			continue
		}
		if !survey.Accepts(view.IsSelf()) {
			failSurveyOutcome(&result, outcome, batch.ErrorCodeShapeMismatch, ErrShapeMismatch)
			continue
		}

		assignment, created, err := s.attach(ctx, tenantID, view.ID, survey.ID)
		if err != nil {
			failSurveyOutcome(&result, outcome, batch.ErrorCodeInternalError, errors.New("internal error"))
			continue
		}

		outcome.AssignmentID = &assignment.ID
		outcome.Status = batch.ItemSkipped
		if created {
			outcome.Status = batch.ItemCreated
			result.AssignedCount++
		}
		result.Succeed(outcome)
	}

	result.Finish("assignments.assign_survey")
	if result.AssignedCount > 0 {
		if err := s.invalidator.Invalidate(ctx, tenantID); err != nil {
			return result, err
		}
	}
	return result, nil
}

// UnassignSurveyFromRelationships deactivates the matching assignments. A
// relationship without an active assignment is ignored.
func (s *Service) UnassignSurveyFromRelationships(ctx context.Context, tenantID, surveyID string, relationshipIDs []string) (UnassignResult, error) {
	if err := checkBatchSize(len(relationshipIDs)); err != nil {
		return UnassignResult{}, err
	}
	survey, err := s.GetSurvey(ctx, tenantID, surveyID)
	if err != nil {
		return UnassignResult{}, err
	}

	at := s.now().UTC()
	var result UnassignResult
	for _, relationshipID := range relationshipIDs {
		if _, err := uuid.Parse(relationshipID); err != nil {
			continue
		}
		removed, err := s.repo.DeactivateAssignment(ctx, tenantID, relationshipID, survey.ID, at)
		if err != nil {
			if result.UnassignedCount > 0 {
				err = errors.Join(err, s.invalidator.Invalidate(ctx, tenantID))
			}
			return result, err
		}
		if removed {
			result.UnassignedCount++
		}
	}

	if result.UnassignedCount > 0 {
		if err := s.invalidator.Invalidate(ctx, tenantID); err != nil {
			return result, err
		}
	}
	return result, nil
}

// AssignFromCSVRows resolves each row's employee codes, upserts the
// relationship and, when a survey is given, assigns it. Rows are independent:
// a failing row never stops the rows after it.
func (s *Service) AssignFromCSVRows(ctx context.Context, tenantID string, input ImportInput) (ImportResult, error) {
	if err := checkBatchSize(len(input.Rows)); err != nil {
		return ImportResult{}, err
	}

	var survey *Survey
	if input.SurveyID != nil && strings.TrimSpace(*input.SurveyID) != "" {
		found, err := s.GetSurvey(ctx, tenantID, strings.TrimSpace(*input.SurveyID))
		if err != nil {
			return ImportResult{}, err
		}
		survey = found
	}

	result := batch.NewEnvelope[RowOutcome](len(input.Rows))
	changed := false

	for i, row := range input.Rows {
		outcome := RowOutcome{
			Row:           i + 1,
			EvaluatorCode: strings.TrimSpace(row.EvaluatorCode),
			SubjectCode:   strings.TrimSpace(row.SubjectCode),
			Label:         strings.TrimSpace(row.Label),
		}

		rowChanged, err := s.importRow(ctx, tenantID, survey, &outcome)
		if rowChanged {
			changed = true
		}
		if err != nil {
			code, reason := importErrorCode(err)
			message := fmt.Sprintf("row %d: %s", outcome.Row, reason)
			outcome.Status = batch.ItemFailed
			outcome.Error = &batch.ItemError{Code: code, Message: message}
			result.Fail(outcome, message)
			continue
		}
		result.Succeed(outcome)
	}

	result.Finish("relationships.import")
	if changed {
		if err := s.invalidator.Invalidate(ctx, tenantID); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *Service) importRow(ctx context.Context, tenantID string, survey *Survey, outcome *RowOutcome) (bool, error) {
	if outcome.Label == "" {
		return false, relationshipsdomain.ErrLabelRequired
	}

	evaluatorEmployee, err := s.identity.ResolveEmployeeCode(ctx, tenantID, outcome.EvaluatorCode)
	if err != nil {
		return false, fmt.Errorf("evaluator code %q: %w", outcome.EvaluatorCode, err)
	}
	subjectEmployee, err := s.identity.ResolveEmployeeCode(ctx, tenantID, outcome.SubjectCode)
	if err != nil {
		return false, fmt.Errorf("subject code %q: %w", outcome.SubjectCode, err)
	}

	isSelf := subjectEmployee.ID == evaluatorEmployee.ID
	if survey != nil && !survey.Accepts(isSelf) {
		return false, ErrShapeMismatch
	}

	subject, err := s.identity.EnsureSubject(ctx, tenantID, subjectEmployee.ID)
	if err != nil {
		return false, err
	}
	evaluator, err := s.identity.EnsureEvaluator(ctx, tenantID, evaluatorEmployee.ID)
	if err != nil {
		return false, err
	}

	rel, status, err := s.relationships.Link(ctx, tenantID, subject.ID, evaluator.ID, outcome.Label)
	if err != nil {
		return false, err
	}
	outcome.RelationshipID = &rel.ID
	outcome.Status = status
	changed := status != batch.ItemUnchanged

	if survey == nil {
		return changed, nil
	}

	assignment, created, err := s.attach(ctx, tenantID, rel.ID, survey.ID)
	if err != nil {
		return changed, err
	}
	outcome.AssignmentID = &assignment.ID
	if created {
		changed = true
		if outcome.Status == batch.ItemUnchanged {
			outcome.Status = batch.ItemUpdated
		}
	}
	return changed, nil
}

func (s *Service) attach(ctx context.Context, tenantID, relationshipID, surveyID string) (*Assignment, bool, error) {
	assignment := Assignment{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		RelationshipID: relationshipID,
		SurveyID:       surveyID,
		State:          lifecycle.Active,
	}

	created, existing, err := s.repo.CreateAssignment(ctx, &assignment)
	if err != nil {
		return nil, false, err
	}
	if created {
		return &assignment, true, nil
	}
	if existing == nil {
		return nil, false, fmt.Errorf("assignment insert: conflicting row vanished")
	}
	return existing, false, nil
}

// MarkNotified records that assignment or reminder emails went out for the
// given assignments.
func (s *Service) MarkNotified(ctx context.Context, tenantID string, assignmentIDs []string, kind NotificationKind) (int64, error) {
	if !kind.Valid() {
		return 0, ErrInvalidNotification
	}
	if err := checkBatchSize(len(assignmentIDs)); err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(assignmentIDs))
	for _, id := range assignmentIDs {
		if _, err := uuid.Parse(id); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	updated, err := s.repo.MarkNotified(ctx, tenantID, ids, kind, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		if err := s.invalidator.Invalidate(ctx, tenantID); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

func failSurveyOutcome(result *SurveyAssignResult, outcome SurveyOutcome, code batch.ErrorCode, err error) {
	message := fmt.Sprintf("%s: %s", outcome.RelationshipID, err.Error())
	outcome.Status = batch.ItemFailed
	outcome.Error = &batch.ItemError{Code: code, Message: message}
	result.Fail(outcome, message)
}

func importErrorCode(err error) (batch.ErrorCode, string) {
	switch {
	case errors.Is(err, identitydomain.ErrEmployeeNotFound):
		return batch.ErrorCodeNotFound, err.Error()
	case errors.Is(err, identitydomain.ErrEmployeeInactive):
		return batch.ErrorCodeInactive, err.Error()
	case errors.Is(err, identitydomain.ErrEmployeeCodeRequired),
		errors.Is(err, relationshipsdomain.ErrLabelRequired),
		errors.Is(err, relationshipsdomain.ErrLabelTooLong):
		return batch.ErrorCodeInvalidRequest, err.Error()
	case errors.Is(err, ErrShapeMismatch):
		return batch.ErrorCodeShapeMismatch, err.Error()
	default:
		return batch.ErrorCodeInternalError, "internal error"
	}
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

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
