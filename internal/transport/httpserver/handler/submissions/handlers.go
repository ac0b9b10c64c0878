package submissions

import (
	"encoding/json"
	"net/http"
	"time"

	assignmentsdomain "feedback360-go/internal/domain/assignments"
	"feedback360-go/internal/domain/scoring"
	"feedback360-go/internal/transport/httpserver/handler/common"
	"feedback360-go/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	Assignments *assignmentsdomain.Service
	log         logger.Logger
}

func New(assignments *assignmentsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Assignments: assignments, log: log}
}

var errorMappings = []common.ErrorMapping{
	{Err: assignmentsdomain.ErrAssignmentNotFound, Status: http.StatusNotFound, Code: "assignment_not_found"},
	{Err: assignmentsdomain.ErrSubmissionCompleted, Status: http.StatusConflict, Code: "submission_completed"},
	{Err: assignmentsdomain.ErrSubmissionConflict, Status: http.StatusConflict, Code: "submission_conflict"},
	{Err: assignmentsdomain.ErrInvalidNotification, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: assignmentsdomain.ErrNoTargets, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: assignmentsdomain.ErrBatchTooLarge, Status: http.StatusBadRequest, Code: "batch_too_large"},
	{Err: scoring.ErrInvalidResponse, Status: http.StatusBadRequest, Code: "invalid_response"},
}

type saveSubmissionRequest struct {
	ResponseData json.RawMessage `json:"response_data" validate:"required"`
	Complete     bool            `json:"complete"`
}

type markNotifiedRequest struct {
	AssignmentIDs []string `json:"assignment_ids" validate:"required,min=1"`
	Kind          string   `json:"kind" validate:"required,oneof=assignment reminder"`
}

type submissionResponse struct {
	ID           string          `json:"id"`
	AssignmentID string          `json:"assignment_id"`
	SubjectID    string          `json:"subject_id"`
	EvaluatorID  string          `json:"evaluator_id"`
	SurveyID     string          `json:"survey_id"`
	Status       string          `json:"status"`
	ResponseData json.RawMessage `json:"response_data,omitempty"`
	StartedAt    *time.Time      `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
}

type progressResponse struct {
	AssignmentID string `json:"assignment_id"`
	Status       string `json:"status"`
}

type markNotifiedResponse struct {
	Updated int64 `json:"updated"`
}

func toSubmissionResponse(submission assignmentsdomain.Submission) submissionResponse {
	response := submissionResponse{
		ID:           submission.ID,
		AssignmentID: submission.AssignmentID,
		SubjectID:    submission.SubjectID,
		EvaluatorID:  submission.EvaluatorID,
		SurveyID:     submission.SurveyID,
		Status:       string(submission.Status),
		StartedAt:    submission.StartedAt,
		CompletedAt:  submission.CompletedAt,
	}
	if len(submission.ResponseData) > 0 {
		response.ResponseData = json.RawMessage(submission.ResponseData)
	}
	return response
}

func (h *Handlers) Progress(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	assignmentID := chi.URLParam(r, "assignment_id")

	status, err := h.Assignments.Progress(r.Context(), tenant.ID, assignmentID)
	if err != nil {
		common.RespondError(w, h.log, "submissions.progress", err, errorMappings, "tenant_id", tenant.ID, "assignment_id", assignmentID)
		return
	}
	common.WriteJSON(w, http.StatusOK, progressResponse{AssignmentID: assignmentID, Status: string(status)})
}

func (h *Handlers) Start(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	assignmentID := chi.URLParam(r, "assignment_id")

	submission, err := h.Assignments.StartSubmission(r.Context(), tenant.ID, assignmentID)
	if err != nil {
		common.RespondError(w, h.log, "submissions.start", err, errorMappings, "tenant_id", tenant.ID, "assignment_id", assignmentID)
		return
	}
	common.WriteJSON(w, http.StatusOK, toSubmissionResponse(*submission))
}

func (h *Handlers) Save(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	assignmentID := chi.URLParam(r, "assignment_id")

	var req saveSubmissionRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	submission, err := h.Assignments.SaveSubmission(r.Context(), assignmentsdomain.SaveSubmissionInput{
		TenantID:     tenant.ID,
		AssignmentID: assignmentID,
		ResponseData: req.ResponseData,
		Complete:     req.Complete,
	})
	if err != nil {
		common.RespondError(w, h.log, "submissions.save", err, errorMappings, "tenant_id", tenant.ID, "assignment_id", assignmentID)
		return
	}
	common.WriteJSON(w, http.StatusOK, toSubmissionResponse(*submission))
}

func (h *Handlers) MarkNotified(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	var req markNotifiedRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := h.Assignments.MarkNotified(r.Context(), tenant.ID, req.AssignmentIDs, assignmentsdomain.NotificationKind(req.Kind))
	if err != nil {
		common.RespondError(w, h.log, "submissions.mark_notified", err, errorMappings, "tenant_id", tenant.ID)
		return
	}
	common.WriteJSON(w, http.StatusOK, markNotifiedResponse{Updated: updated})
}
