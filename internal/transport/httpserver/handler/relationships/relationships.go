package relationships

import (
	"net/http"

	relationshipsdomain "feedback360-go/internal/domain/relationships"
	"feedback360-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

type assignEvaluatorsRequest struct {
	EvaluatorIDs []string `json:"evaluator_ids" validate:"required,min=1"`
	Relationship string   `json:"relationship" validate:"required"`
}

type assignSubjectsRequest struct {
	SubjectIDs   []string `json:"subject_ids" validate:"required,min=1"`
	Relationship string   `json:"relationship" validate:"required"`
}

type updateLabelRequest struct {
	Relationship string `json:"relationship" validate:"required"`
}

type edgeResponse struct {
	ID           string `json:"id"`
	SubjectID    string `json:"subject_id"`
	EvaluatorID  string `json:"evaluator_id"`
	Relationship string `json:"relationship"`
}

type removeResponse struct {
	Removed bool `json:"removed"`
}

type relationshipListResponse struct {
	Items []common.RelationshipResponse `json:"items"`
	Total int                           `json:"total"`
}

func (h *Handlers) AssignEvaluators(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	subjectID := chi.URLParam(r, "subject_id")

	var req assignEvaluatorsRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Relationships.Assign(r.Context(), tenant.ID, subjectID, req.EvaluatorIDs, req.Relationship)
	if err != nil {
		common.RespondError(w, h.log, "relationships.assign", err, errorMappings, "tenant_id", tenant.ID, "subject_id", subjectID)
		return
	}
	common.WriteJSON(w, common.EnvelopeStatus(result.Status), result)
}

func (h *Handlers) AssignSubjects(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	evaluatorID := chi.URLParam(r, "evaluator_id")

	var req assignSubjectsRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Relationships.AssignReciprocal(r.Context(), tenant.ID, evaluatorID, req.SubjectIDs, req.Relationship)
	if err != nil {
		common.RespondError(w, h.log, "relationships.assign_reciprocal", err, errorMappings, "tenant_id", tenant.ID, "evaluator_id", evaluatorID)
		return
	}
	common.WriteJSON(w, common.EnvelopeStatus(result.Status), result)
}

func (h *Handlers) UpdateLabel(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	subjectID := chi.URLParam(r, "subject_id")
	evaluatorID := chi.URLParam(r, "evaluator_id")

	var req updateLabelRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rel, err := h.Relationships.UpdateLabel(r.Context(), tenant.ID, subjectID, evaluatorID, req.Relationship)
	if err != nil {
		common.RespondError(w, h.log, "relationships.update_label", err, errorMappings, "tenant_id", tenant.ID, "subject_id", subjectID, "evaluator_id", evaluatorID)
		return
	}
	common.WriteJSON(w, http.StatusOK, edgeResponse{
		ID:           rel.ID,
		SubjectID:    rel.SubjectID,
		EvaluatorID:  rel.EvaluatorID,
		Relationship: rel.Label,
	})
}

func (h *Handlers) Remove(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	subjectID := chi.URLParam(r, "subject_id")
	evaluatorID := chi.URLParam(r, "evaluator_id")

	removed, err := h.Relationships.Remove(r.Context(), tenant.ID, subjectID, evaluatorID)
	if err != nil {
		common.RespondError(w, h.log, "relationships.remove", err, errorMappings, "tenant_id", tenant.ID, "subject_id", subjectID, "evaluator_id", evaluatorID)
		return
	}
	common.WriteJSON(w, http.StatusOK, removeResponse{Removed: removed})
}

func (h *Handlers) ListForSubject(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	subjectID := chi.URLParam(r, "subject_id")

	views, err := h.Relationships.ListForSubject(r.Context(), tenant.ID, subjectID)
	if err != nil {
		common.RespondError(w, h.log, "relationships.list_for_subject", err, errorMappings, "tenant_id", tenant.ID, "subject_id", subjectID)
		return
	}
	common.WriteJSON(w, http.StatusOK, toListResponse(views))
}

func (h *Handlers) ListForEvaluator(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	evaluatorID := chi.URLParam(r, "evaluator_id")

	views, err := h.Relationships.ListForEvaluator(r.Context(), tenant.ID, evaluatorID)
	if err != nil {
		common.RespondError(w, h.log, "relationships.list_for_evaluator", err, errorMappings, "tenant_id", tenant.ID, "evaluator_id", evaluatorID)
		return
	}
	common.WriteJSON(w, http.StatusOK, toListResponse(views))
}

func toListResponse(views []relationshipsdomain.RelationshipView) relationshipListResponse {
	items := make([]common.RelationshipResponse, 0, len(views))
	for _, view := range views {
		items = append(items, common.ToRelationshipResponse(view))
	}
	return relationshipListResponse{Items: items, Total: len(items)}
}
