package common

import (
	"net/http"

	tenantsdomain "feedback360-go/internal/domain/tenants"
	"feedback360-go/internal/transport/httpserver/middleware"
)

// Tenant returns the tenant resolved by the tenant middleware, writing a
// not-found response when it is missing.
func Tenant(w http.ResponseWriter, r *http.Request) (tenantsdomain.Tenant, bool) {
	tenant, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusNotFound, "tenant_not_found", "tenant not found")
		return tenantsdomain.Tenant{}, false
	}
	return tenant, true
}
