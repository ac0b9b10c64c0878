package employees

import (
	"net/http"

	identitydomain "feedback360-go/internal/domain/identity"
	validationdomain "feedback360-go/internal/domain/validation"
	"feedback360-go/internal/transport/httpserver/handler/common"
)

type validateCodesRequest struct {
	Codes []string `json:"codes" validate:"required,min=1"`
	Role  string   `json:"role" validate:"required,oneof=subject evaluator"`
}

type identityResponse struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Department   *string `json:"department"`
	RoleID       *string `json:"role_id"`
}

type validationResultResponse struct {
	Code     string            `json:"code"`
	Valid    bool              `json:"valid"`
	Reason   string            `json:"reason,omitempty"`
	Identity *identityResponse `json:"identity,omitempty"`
}

type validationResponse struct {
	Role           string                     `json:"role"`
	Results        []validationResultResponse `json:"results"`
	TotalRequested int                        `json:"total_requested"`
	ValidCount     int                        `json:"valid_count"`
	InvalidCount   int                        `json:"invalid_count"`
}

func toValidationResult(result validationdomain.Result) validationResultResponse {
	response := validationResultResponse{
		Code:   result.Code,
		Valid:  result.Valid,
		Reason: result.Reason,
	}
	if result.Identity != nil {
		response.Identity = &identityResponse{
			EmployeeID:   result.Identity.EmployeeID,
			EmployeeCode: result.Identity.EmployeeCode,
			Name:         result.Identity.Name,
			Email:        result.Identity.Email,
			Department:   result.Identity.Department,
			RoleID:       result.Identity.RoleID,
		}
	}
	return response
}

// ValidateEmployeeCodes answers a single code with a single result and
// several codes with the batch shape.
func (h *Handlers) ValidateEmployeeCodes(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	var req validateCodesRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	response, err := h.Validation.ValidateEmployeeCodes(r.Context(), tenant.ID, req.Codes, identitydomain.Role(req.Role))
	if err != nil {
		common.RespondError(w, h.log, "employees.validate", err, errorMappings, "tenant_id", tenant.ID)
		return
	}

	if single, ok := response.Single(); ok {
		common.WriteJSON(w, http.StatusOK, toValidationResult(single))
		return
	}

	results := make([]validationResultResponse, 0, len(response.Results))
	for _, result := range response.Results {
		results = append(results, toValidationResult(result))
	}
	common.WriteJSON(w, http.StatusOK, validationResponse{
		Role:           string(response.Role),
		Results:        results,
		TotalRequested: response.TotalRequested,
		ValidCount:     response.ValidCount,
		InvalidCount:   response.InvalidCount,
	})
}
