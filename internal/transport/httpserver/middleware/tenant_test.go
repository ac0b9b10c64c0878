package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedback360-go/internal/config"
	tenantsdomain "feedback360-go/internal/domain/tenants"
	"feedback360-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knownTenant = "0b7f6a8e-4f0c-4b3e-9a55-7f1f4b0f2a11"

type fakeResolver struct {
	tenants map[string]tenantsdomain.Tenant
	err     error
}

func (f fakeResolver) GetTenant(ctx context.Context, id string) (*tenantsdomain.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	tenant, ok := f.tenants[id]
	if !ok {
		return nil, tenantsdomain.ErrTenantNotFound
	}
	return &tenant, nil
}

func tenantProbe(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := TenantFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(tenant.Name))
	})
}

func TestTenantMiddleware(t *testing.T) {
	resolver := fakeResolver{tenants: map[string]tenantsdomain.Tenant{
		knownTenant: {ID: knownTenant, Name: "Acme"},
	}}

	tests := []struct {
		name     string
		header   string
		resolver fakeResolver
		status   int
		body     string
	}{
		{name: "known tenant", header: knownTenant, resolver: resolver, status: http.StatusOK, body: "Acme"},
		{name: "missing header", header: "", resolver: resolver, status: http.StatusBadRequest, body: "tenant_required"},
		{name: "malformed id", header: "not-a-uuid", resolver: resolver, status: http.StatusNotFound, body: "tenant_not_found"},
		{name: "unknown tenant", header: "1c7f6a8e-4f0c-4b3e-9a55-7f1f4b0f2a11", resolver: resolver, status: http.StatusNotFound, body: "tenant_not_found"},
		{name: "store failure", header: knownTenant, resolver: fakeResolver{err: errors.New("db down")}, status: http.StatusInternalServerError, body: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTenant("X-Tenant-ID", tt.resolver, logger.Nop()).Middleware(tenantProbe(t))

			req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
			if tt.header != "" {
				req.Header.Set("X-Tenant-ID", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestRateLimitPerTenant(t *testing.T) {
	mw, err := NewRateLimit(config.RateLimitConfig{Enabled: true, Rate: "2-M", Storage: "memory"}, "X-Tenant-ID", nil, logger.Nop())
	require.NoError(t, err)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(tenantID string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
		req.Header.Set("X-Tenant-ID", tenantID)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("a"))
	assert.Equal(t, http.StatusNoContent, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusNoContent, call("b"))
}

func TestRateLimitRejectsBadRate(t *testing.T) {
	_, err := NewRateLimit(config.RateLimitConfig{Rate: "lots"}, "X-Tenant-ID", nil, logger.Nop())
	assert.Error(t, err)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:3000", " "}, "X-Tenant-ID")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
