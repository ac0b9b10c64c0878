package surveys

import (
	"net/http"
	"strings"

	assignmentsdomain "feedback360-go/internal/domain/assignments"
	"feedback360-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

type relationshipIDsRequest struct {
	RelationshipIDs []string `json:"relationship_ids" validate:"required,min=1"`
}

type availableResponse struct {
	Items []common.RelationshipResponse `json:"items"`
	Total int                           `json:"total"`
}

type assignedRelationshipResponse struct {
	common.RelationshipResponse
	AssignmentID     string `json:"assignment_id"`
	SubmissionStatus string `json:"submission_status"`
}

type assignedResponse struct {
	Items []assignedRelationshipResponse `json:"items"`
	Total int                            `json:"total"`
}

func (h *Handlers) AvailableRelationships(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	surveyID := chi.URLParam(r, "survey_id")

	query := r.URL.Query()
	filter := assignmentsdomain.RelationshipFilter{
		SubjectID:   strings.TrimSpace(query.Get("subject_id")),
		EvaluatorID: strings.TrimSpace(query.Get("evaluator_id")),
		Label:       strings.TrimSpace(query.Get("relationship")),
	}

	views, err := h.Assignments.AvailableRelationships(r.Context(), tenant.ID, surveyID, filter)
	if err != nil {
		common.RespondError(w, h.log, "surveys.available_relationships", err, errorMappings, "tenant_id", tenant.ID, "survey_id", surveyID)
		return
	}

	items := make([]common.RelationshipResponse, 0, len(views))
	for _, view := range views {
		items = append(items, common.ToRelationshipResponse(view))
	}
	common.WriteJSON(w, http.StatusOK, availableResponse{Items: items, Total: len(items)})
}

func (h *Handlers) AssignedRelationships(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	surveyID := chi.URLParam(r, "survey_id")

	assigned, err := h.Assignments.AssignedRelationships(r.Context(), tenant.ID, surveyID)
	if err != nil {
		common.RespondError(w, h.log, "surveys.assigned_relationships", err, errorMappings, "tenant_id", tenant.ID, "survey_id", surveyID)
		return
	}

	items := make([]assignedRelationshipResponse, 0, len(assigned))
	for _, item := range assigned {
		items = append(items, assignedRelationshipResponse{
			RelationshipResponse: common.ToRelationshipResponse(item.RelationshipView),
			AssignmentID:         item.AssignmentID,
			SubmissionStatus:     string(item.SubmissionStatus),
		})
	}
	common.WriteJSON(w, http.StatusOK, assignedResponse{Items: items, Total: len(items)})
}

func (h *Handlers) AssignRelationships(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	surveyID := chi.URLParam(r, "survey_id")

	var req relationshipIDsRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Assignments.AssignSurveyToRelationships(r.Context(), tenant.ID, surveyID, req.RelationshipIDs)
	if err != nil {
		common.RespondError(w, h.log, "surveys.assign_relationships", err, errorMappings, "tenant_id", tenant.ID, "survey_id", surveyID)
		return
	}
	common.WriteJSON(w, common.EnvelopeStatus(result.Status), result)
}

func (h *Handlers) UnassignRelationships(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	surveyID := chi.URLParam(r, "survey_id")

	var req relationshipIDsRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Assignments.UnassignSurveyFromRelationships(r.Context(), tenant.ID, surveyID, req.RelationshipIDs)
	if err != nil {
		common.RespondError(w, h.log, "surveys.unassign_relationships", err, errorMappings, "tenant_id", tenant.ID, "survey_id", surveyID)
		return
	}
	common.WriteJSON(w, http.StatusOK, result)
}
