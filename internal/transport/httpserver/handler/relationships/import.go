package relationships

import (
	"net/http"

	assignmentsdomain "feedback360-go/internal/domain/assignments"
	"feedback360-go/internal/transport/httpserver/handler/common"
)

type importRowRequest struct {
	EvaluatorCode string `json:"evaluator_code"`
	SubjectCode   string `json:"subject_code"`
	Relationship  string `json:"relationship"`
}

type importRequest struct {
	Rows     []importRowRequest `json:"rows" validate:"required,min=1"`
	SurveyID *string            `json:"survey_id" validate:"omitempty,uuid"`
}

// Import takes rows already parsed from a spreadsheet. Each row is resolved
// and linked on its own; the response keeps row order.
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	var req importRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rows := make([]assignmentsdomain.ImportRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, assignmentsdomain.ImportRow{
			EvaluatorCode: row.EvaluatorCode,
			SubjectCode:   row.SubjectCode,
			Label:         row.Relationship,
		})
	}

	result, err := h.Assignments.AssignFromCSVRows(r.Context(), tenant.ID, assignmentsdomain.ImportInput{
		Rows:     rows,
		SurveyID: req.SurveyID,
	})
	if err != nil {
		common.RespondError(w, h.log, "relationships.import", err, errorMappings, "tenant_id", tenant.ID)
		return
	}
	common.WriteJSON(w, common.EnvelopeStatus(result.Status), result)
}
