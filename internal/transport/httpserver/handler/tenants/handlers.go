package tenants

import (
	"net/http"
	"strings"
	"time"

	tenantsdomain "feedback360-go/internal/domain/tenants"
	"feedback360-go/internal/transport/httpserver/handler/common"
	"feedback360-go/pkg/logger"
)

type Handlers struct {
	Tenants *tenantsdomain.Service
	log     logger.Logger
}

func New(tenants *tenantsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Tenants: tenants, log: log}
}

var errorMappings = []common.ErrorMapping{
	{Err: tenantsdomain.ErrTenantNotFound, Status: http.StatusNotFound, Code: "tenant_not_found"},
	{Err: tenantsdomain.ErrNameRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
}

type tenantRequest struct {
	Name string `json:"name" validate:"required"`
}

type tenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

func toTenantResponse(tenant tenantsdomain.Tenant) tenantResponse {
	return tenantResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Code:      tenant.Code,
		CreatedAt: tenant.CreatedAt,
	}
}

func (h *Handlers) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	tenant, err := h.Tenants.CreateTenant(r.Context(), req.Name)
	if err != nil {
		common.RespondError(w, h.log, "tenants.create", err, errorMappings)
		return
	}
	common.WriteJSON(w, http.StatusCreated, toTenantResponse(*tenant))
}

func (h *Handlers) GetTenantMe(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}
	common.WriteJSON(w, http.StatusOK, toTenantResponse(tenant))
}

func (h *Handlers) RenameTenant(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	var req tenantRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := common.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	renamed, err := h.Tenants.RenameTenant(r.Context(), tenant.ID, req.Name)
	if err != nil {
		common.RespondError(w, h.log, "tenants.rename", err, errorMappings, "tenant_id", tenant.ID)
		return
	}
	common.WriteJSON(w, http.StatusOK, toTenantResponse(*renamed))
}

func (h *Handlers) DeactivateTenant(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	if err := h.Tenants.DeactivateTenant(r.Context(), tenant.ID); err != nil {
		common.RespondError(w, h.log, "tenants.deactivate", err, errorMappings, "tenant_id", tenant.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
