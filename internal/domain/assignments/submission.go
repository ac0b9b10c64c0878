package assignments

import (
	"context"
	"errors"

	relationshipsdomain "feedback360-go/internal/domain/relationships"
	"feedback360-go/internal/domain/scoring"
	"github.com/google/uuid"
)

// nextStatus applies the submission state machine. Status never moves back;
// a completed submission stays completed even when edits are allowed.
func nextStatus(current SubmissionStatus, complete, allowEditAfterCompletion bool) (SubmissionStatus, error) {
	if current == SubmissionCompleted {
		if !allowEditAfterCompletion {
			return current, ErrSubmissionCompleted
		}
		return SubmissionCompleted, nil
	}

	next := SubmissionInProgress
	if complete {
		next = SubmissionCompleted
	}
	if next.rank() < current.rank() {
		return current, nil
	}
	return next, nil
}

// Progress reports how far the evaluator got with the assignment. A missing
// submission is reported as not started.
func (s *Service) Progress(ctx context.Context, tenantID, assignmentID string) (SubmissionStatus, error) {
	assignment, view, err := s.loadAssignment(ctx, tenantID, assignmentID)
	if err != nil {
		return "", err
	}

	submission, err := s.repo.GetSubmission(ctx, tenantID, assignment.ID, view.EvaluatorID)
	if errors.Is(err, ErrSubmissionNotFound) {
		return SubmissionNotStarted, nil
	}
	if err != nil {
		return "", err
	}
	return submission.Status, nil
}

// StartSubmission moves the assignment's submission to in progress, creating
// it on first use. Starting an already started submission is a no-op.
func (s *Service) StartSubmission(ctx context.Context, tenantID, assignmentID string) (*Submission, error) {
	assignment, view, err := s.loadAssignment(ctx, tenantID, assignmentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetSubmission(ctx, tenantID, assignment.ID, view.EvaluatorID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrSubmissionNotFound) {
		return nil, err
	}

	startedAt := s.now().UTC()
	submission := Submission{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		AssignmentID: assignment.ID,
		EvaluatorID:  view.EvaluatorID,
		SubjectID:    view.SubjectID,
		SurveyID:     assignment.SurveyID,
		Status:       SubmissionInProgress,
		StartedAt:    &startedAt,
	}

	created, winner, err := s.repo.CreateSubmission(ctx, &submission)
	if err != nil {
		return nil, err
	}
	if !created {
		if winner == nil {
			return nil, ErrSubmissionConflict
		}
		return winner, nil
	}
	return &submission, nil
}

// SaveSubmission stores answers and optionally completes the submission.
// startedAt and completedAt are each set once.
func (s *Service) SaveSubmission(ctx context.Context, input SaveSubmissionInput) (*Submission, error) {
	if _, err := scoring.ParseAnswers(input.ResponseData); err != nil {
		return nil, err
	}

	assignment, view, err := s.loadAssignment(ctx, input.TenantID, input.AssignmentID)
	if err != nil {
		return nil, err
	}

	submission, err := s.StartSubmission(ctx, input.TenantID, assignment.ID)
	if err != nil {
		return nil, err
	}

	current := submission.Status
	next, err := nextStatus(current, input.Complete, s.cfg.AllowEditAfterCompletion)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	updated := *submission
	updated.SubjectID = view.SubjectID
	updated.ResponseData = append([]byte(nil), input.ResponseData...)
	updated.Status = next
	if updated.StartedAt == nil {
		updated.StartedAt = &now
	}
	if next == SubmissionCompleted && updated.CompletedAt == nil {
		updated.CompletedAt = &now
	}

	ok, err := s.repo.UpdateSubmission(ctx, &updated, current)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubmissionConflict
	}

	if next == SubmissionCompleted {
		if err := s.invalidator.Invalidate(ctx, input.TenantID); err != nil {
			return &updated, err
		}
	}
	return &updated, nil
}

func (s *Service) loadAssignment(ctx context.Context, tenantID, assignmentID string) (*Assignment, relationshipsdomain.RelationshipView, error) {
	if _, err := uuid.Parse(assignmentID); err != nil {
		return nil, relationshipsdomain.RelationshipView{}, ErrAssignmentNotFound
	}

	assignment, err := s.repo.GetAssignment(ctx, tenantID, assignmentID)
	if err != nil {
		return nil, relationshipsdomain.RelationshipView{}, err
	}

	views, err := s.relationships.GetViews(ctx, tenantID, []string{assignment.RelationshipID})
	if err != nil {
		return nil, relationshipsdomain.RelationshipView{}, err
	}
	view, ok := views[assignment.RelationshipID]
	if !ok {
		return nil, relationshipsdomain.RelationshipView{}, ErrAssignmentNotFound
	}
	return assignment, view, nil
}
