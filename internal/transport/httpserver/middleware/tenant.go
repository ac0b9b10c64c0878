package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	tenantsdomain "feedback360-go/internal/domain/tenants"
	"feedback360-go/pkg/logger"
	"github.com/google/uuid"
)

type contextKey int

const (
	tenantKey contextKey = iota
)

type TenantResolver interface {
	GetTenant(ctx context.Context, id string) (*tenantsdomain.Tenant, error)
}

// Tenant resolves the calling tenant from a request header. Requests naming
// an unknown or deactivated tenant never reach the handler.
type Tenant struct {
	header  string
	tenants TenantResolver
	log     logger.Logger
}

func NewTenant(header string, tenants TenantResolver, log logger.Logger) *Tenant {
	if strings.TrimSpace(header) == "" {
		header = "X-Tenant-ID"
	}
	return &Tenant{header: header, tenants: tenants, log: log}
}

func (t *Tenant) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := strings.TrimSpace(r.Header.Get(t.header))
		if tenantID == "" {
			writeError(w, http.StatusBadRequest, "tenant_required", t.header+" header is required")
			return
		}
		if _, err := uuid.Parse(tenantID); err != nil {
			tenantNotFound(w)
			return
		}

		tenant, err := t.tenants.GetTenant(r.Context(), tenantID)
		if err != nil {
			if errors.Is(err, tenantsdomain.ErrTenantNotFound) {
				tenantNotFound(w)
				return
			}
			t.log.InternalError("tenant: resolve tenant failed", err, "tenant_id", tenantID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), *tenant)))
	})
}

func tenantNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "tenant_not_found", "tenant not found")
}

func WithTenant(ctx context.Context, tenant tenantsdomain.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, tenant)
}

func TenantFromContext(ctx context.Context) (tenantsdomain.Tenant, bool) {
	tenant, ok := ctx.Value(tenantKey).(tenantsdomain.Tenant)
	if !ok || tenant.ID == "" {
		return tenantsdomain.Tenant{}, false
	}
	return tenant, true
}
