package surveys

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	assignmentsdomain "feedback360-go/internal/domain/assignments"
	"feedback360-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

type createSurveyRequest struct {
	Title            string          `json:"title" validate:"required"`
	Description      *string         `json:"description"`
	Schema           json.RawMessage `json:"schema" validate:"required"`
	IsSelfEvaluation bool            `json:"is_self_evaluation"`
}

type surveyResponse struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      *string         `json:"description"`
	Schema           json.RawMessage `json:"schema"`
	IsSelfEvaluation bool            `json:"is_self_evaluation"`
	CreatedAt        time.Time       `json:"created_at"`
}

type surveyListResponse struct {
	Items []surveyResponse `json:"items"`
	Total int              `json:"total"`
}

func toSurveyResponse(survey assignmentsdomain.Survey) surveyResponse {
	return surveyResponse{
		ID:               survey.ID,
		Title:            survey.Title,
		Description:      survey.Description,
		Schema:           json.RawMessage(survey.Schema),
		IsSelfEvaluation: survey.IsSelfEvaluation,
		CreatedAt:        survey.CreatedAt,
	}
}

func (h *Handlers) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	var req createSurveyRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	survey, err := h.Assignments.CreateSurvey(r.Context(), assignmentsdomain.CreateSurveyInput{
		TenantID:         tenant.ID,
		Title:            req.Title,
		Description:      req.Description,
		Schema:           req.Schema,
		IsSelfEvaluation: req.IsSelfEvaluation,
	})
	if err != nil {
		common.RespondError(w, h.log, "surveys.create", err, errorMappings, "tenant_id", tenant.ID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, toSurveyResponse(*survey))
}

func (h *Handlers) ListSurveys(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	surveys, err := h.Assignments.ListSurveys(r.Context(), tenant.ID)
	if err != nil {
		common.RespondError(w, h.log, "surveys.list", err, errorMappings, "tenant_id", tenant.ID)
		return
	}

	items := make([]surveyResponse, 0, len(surveys))
	for _, survey := range surveys {
		items = append(items, toSurveyResponse(survey))
	}
	common.WriteJSON(w, http.StatusOK, surveyListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) GetSurvey(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	surveyID := chi.URLParam(r, "survey_id")

	survey, err := h.Assignments.GetSurvey(r.Context(), tenant.ID, surveyID)
	if err != nil {
		common.RespondError(w, h.log, "surveys.get", err, errorMappings, "tenant_id", tenant.ID, "survey_id", surveyID)
		return
	}
	common.WriteJSON(w, http.StatusOK, toSurveyResponse(*survey))
}

func (h *Handlers) DeactivateSurvey(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	surveyID := chi.URLParam(r, "survey_id")

	if err := h.Assignments.DeactivateSurvey(r.Context(), tenant.ID, surveyID); err != nil {
		common.RespondError(w, h.log, "surveys.deactivate", err, errorMappings, "tenant_id", tenant.ID, "survey_id", surveyID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
