package employees

import (
	"net/http"
	"time"

	identitydomain "feedback360-go/internal/domain/identity"
	"feedback360-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

type createEmployeeRequest struct {
	EmployeeCode string  `json:"employee_code"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Department   *string `json:"department"`
}

type bulkCreateEmployeesRequest struct {
	Employees []createEmployeeRequest `json:"employees" validate:"required,min=1,max=1000"`
}

type employeeResponse struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Department   *string   `json:"department"`
	CreatedAt    time.Time `json:"created_at"`
}

type employeeListResponse struct {
	Items []employeeResponse `json:"items"`
	Total int                `json:"total"`
}

func toEmployeeResponse(employee identitydomain.Employee) employeeResponse {
	return employeeResponse{
		ID:           employee.ID,
		EmployeeCode: employee.EmployeeCode,
		Name:         employee.Name,
		Email:        employee.Email,
		Department:   employee.Department,
		CreatedAt:    employee.CreatedAt,
	}
}

func (req createEmployeeRequest) input(tenantID string) identitydomain.CreateEmployeeInput {
	return identitydomain.CreateEmployeeInput{
		TenantID:     tenantID,
		EmployeeCode: req.EmployeeCode,
		Name:         req.Name,
		Email:        req.Email,
		Department:   req.Department,
	}
}

func (h *Handlers) ListEmployees(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	employees, err := h.Identity.ListEmployees(r.Context(), tenant.ID)
	if err != nil {
		common.RespondError(w, h.log, "employees.list", err, errorMappings, "tenant_id", tenant.ID)
		return
	}

	items := make([]employeeResponse, 0, len(employees))
	for _, employee := range employees {
		items = append(items, toEmployeeResponse(employee))
	}
	common.WriteJSON(w, http.StatusOK, employeeListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	var req createEmployeeRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	employee, err := h.Identity.CreateEmployee(r.Context(), req.input(tenant.ID))
	if err != nil {
		common.RespondError(w, h.log, "employees.create", err, errorMappings, "tenant_id", tenant.ID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, toEmployeeResponse(*employee))
}

func (h *Handlers) BulkCreateEmployees(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	var req bulkCreateEmployeesRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	inputs := make([]identitydomain.CreateEmployeeInput, 0, len(req.Employees))
	for _, employee := range req.Employees {
		inputs = append(inputs, employee.input(tenant.ID))
	}

	result, err := h.Identity.BulkCreateEmployees(r.Context(), tenant.ID, inputs)
	if err != nil {
		common.RespondError(w, h.log, "employees.bulk_create", err, errorMappings, "tenant_id", tenant.ID)
		return
	}
	common.WriteJSON(w, common.EnvelopeStatus(result.Status), result)
}

func (h *Handlers) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	employeeID := chi.URLParam(r, "id")
	if err := h.Identity.DeactivateEmployee(r.Context(), tenant.ID, employeeID); err != nil {
		common.RespondError(w, h.log, "employees.deactivate", err, errorMappings, "tenant_id", tenant.ID, "employee_id", employeeID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
