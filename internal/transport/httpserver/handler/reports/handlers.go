package reports

import (
	"net/http"

	identitydomain "feedback360-go/internal/domain/identity"
	"feedback360-go/internal/domain/scoring"
	"feedback360-go/internal/transport/httpserver/handler/common"
	"feedback360-go/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	Scoring *scoring.Service
	log     logger.Logger
}

func New(scoringService *scoring.Service, log logger.Logger) *Handlers {
	return &Handlers{Scoring: scoringService, log: log}
}

var errorMappings = []common.ErrorMapping{
	{Err: identitydomain.ErrSubjectNotFound, Status: http.StatusNotFound, Code: "subject_not_found"},
	{Err: scoring.ErrSurveyNotFound, Status: http.StatusNotFound, Code: "survey_not_found"},
	{Err: scoring.ErrInvalidSchema, Status: http.StatusUnprocessableEntity, Code: "invalid_schema"},
}

type reportParams struct {
	tenantID  string
	subjectID string
	surveyID  string
}

func params(w http.ResponseWriter, r *http.Request) (reportParams, bool) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return reportParams{}, false
	}
	return reportParams{
		tenantID:  tenant.ID,
		subjectID: chi.URLParam(r, "subject_id"),
		surveyID:  chi.URLParam(r, "survey_id"),
	}, true
}

func (h *Handlers) fail(w http.ResponseWriter, action string, p reportParams, err error) {
	common.RespondError(w, h.log, action, err, errorMappings,
		"tenant_id", p.tenantID, "subject_id", p.subjectID, "survey_id", p.surveyID)
}

func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	p, ok := params(w, r)
	if !ok {
		return
	}

	summaries, err := h.Scoring.SubmissionSummaries(r.Context(), p.tenantID, p.subjectID, p.surveyID)
	if err != nil {
		h.fail(w, "reports.summary", p, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, submissionListResponse{
		Items: toSubmissionResponses(summaries),
		Total: len(summaries),
	})
}

func (h *Handlers) SelfVsEvaluators(w http.ResponseWriter, r *http.Request) {
	p, ok := params(w, r)
	if !ok {
		return
	}

	comparison, err := h.Scoring.SelfVsEvaluatorComparison(r.Context(), p.tenantID, p.subjectID, p.surveyID)
	if err != nil {
		h.fail(w, "reports.self_vs_evaluators", p, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, toSelfVsEvaluatorResponse(comparison))
}

func (h *Handlers) Organization(w http.ResponseWriter, r *http.Request) {
	p, ok := params(w, r)
	if !ok {
		return
	}

	comparison, err := h.Scoring.OrganizationComparison(r.Context(), p.tenantID, p.subjectID, p.surveyID)
	if err != nil {
		h.fail(w, "reports.organization", p, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, toOrganizationResponse(comparison))
}

func (h *Handlers) Comprehensive(w http.ResponseWriter, r *http.Request) {
	p, ok := params(w, r)
	if !ok {
		return
	}

	report, err := h.Scoring.ComprehensiveReport(r.Context(), p.tenantID, p.subjectID, p.surveyID)
	if err != nil {
		h.fail(w, "reports.comprehensive", p, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, comprehensiveResponse{
		SubjectID:       report.SubjectID,
		SurveyID:        report.SurveyID,
		Submissions:     toSubmissionResponses(report.Submissions),
		SelfVsEvaluator: toSelfVsEvaluatorResponse(report.SelfVsEvaluator),
		Organization:    toOrganizationResponse(report.Organization),
		GeneratedAt:     report.GeneratedAt,
	})
}
