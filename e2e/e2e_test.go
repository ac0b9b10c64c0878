//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"feedback360-go/internal/app"
	"feedback360-go/internal/config"
	"feedback360-go/internal/db"
	"feedback360-go/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const tenantHeader = "X-Tenant-ID"

type testEnv struct {
	server *httptest.Server
	app    *app.App
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	cfg := config.Config{
		DB:      config.DBConfig{DSN: dsn, MaxOpenConns: 5, MaxIdleConns: 2, ConnMaxLifetime: time.Minute},
		Cache:   config.CacheConfig{Backend: "memory", SlidingTTL: time.Minute, AbsoluteTTL: 5 * time.Minute},
		Tenancy: config.TenancyConfig{Header: tenantHeader, CacheTTL: time.Minute},
	}

	dbConn, err := db.NewPostgres(cfg.DB, logger.Nop())
	require.NoError(t, err, "db connect")
	_, err = db.Migrate(context.Background(), dbConn)
	require.NoError(t, err, "migrate")
	require.NoError(t, cleanDB(dbConn), "clean db")

	application, err := app.New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err, "app init")

	server := httptest.NewServer(application.HTTPServer().Handler)
	return &testEnv{server: server, app: application, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	_ = e.app.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE survey_submissions, subject_evaluator_surveys, surveys, subject_evaluators, evaluators, subjects, employees, tenants CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, tenantID string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err, "marshal payload")
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "new request")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tenantID != "" {
		req.Header.Set(tenantHeader, tenantID)
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "do request")
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "read response")
	return resp, respBody
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type tenantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type batchResponse struct {
	Status       string            `json:"status"`
	SuccessCount int               `json:"success_count"`
	FailureCount int               `json:"failure_count"`
	Items        []json.RawMessage `json:"items"`
}

type importOutcome struct {
	Row          int     `json:"row"`
	Status       string  `json:"status"`
	AssignmentID *string `json:"assignment_id"`
	Error        *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type surveyResponse struct {
	ID string `json:"id"`
}

type assignedResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Subject struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"subject"`
		AssignmentID     string `json:"assignment_id"`
		SubmissionStatus string `json:"submission_status"`
	} `json:"items"`
	Total int `json:"total"`
}

type emailingResponse struct {
	Items []struct {
		EvaluatorName       string   `json:"evaluator_name"`
		OutstandingSubjects []string `json:"outstanding_subjects"`
		AssignmentIDs       []string `json:"assignment_ids"`
		OutstandingCount    int      `json:"outstanding_count"`
	} `json:"items"`
	Total int `json:"total"`
}

type summaryResponse struct {
	Items []struct {
		EvaluatorName string `json:"evaluator_name"`
		Relationship  string `json:"relationship"`
		Summary       struct {
			OverallScore      float64 `json:"overall_score"`
			AnsweredQuestions int     `json:"answered_questions"`
		} `json:"summary"`
	} `json:"items"`
	Total int `json:"total"`
}

func createTenant(t *testing.T, client *http.Client, baseURL, name string) tenantResponse {
	t.Helper()
	resp, body := requestJSON(t, client, http.MethodPost, baseURL+"/api/tenants", "", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decode[tenantResponse](t, body)
}

func TestE2EHealthAndTenancy(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/employees", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "tenant_required", decode[errorEnvelope](t, body).Error.Code)

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/employees", "5b0c8f8e-8d7e-4b9a-9d5a-0c1f2e3d4a5b", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "tenant_not_found", decode[errorEnvelope](t, body).Error.Code)

	tenant := createTenant(t, client, env.server.URL, "Acme")
	require.Len(t, tenant.Code, 6)

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/tenants/me", tenant.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.Equal(t, "Acme", decode[tenantResponse](t, body).Name)
}

func TestE2EFeedbackFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"
	tenant := createTenant(t, client, env.server.URL, "Acme")

	resp, body := requestJSON(t, client, http.MethodPost, base+"/employees/bulk", tenant.ID, map[string]interface{}{
		"employees": []map[string]string{
			{"employee_code": "E1", "name": "Alice", "email": "alice@example.com"},
			{"employee_code": "E2", "name": "Bob", "email": "bob@example.com"},
			{"employee_code": "E3", "name": "Broken", "email": "not-an-email"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	employees := decode[batchResponse](t, body)
	require.Equal(t, "partial_success", employees.Status)
	require.Equal(t, 2, employees.SuccessCount)
	require.Equal(t, 1, employees.FailureCount)

	resp, body = requestJSON(t, client, http.MethodPost, base+"/surveys", tenant.ID, map[string]interface{}{
		"title": "Q1 Peer Review",
		"schema": map[string]interface{}{
			"questions": []map[string]interface{}{
				{"id": "q1", "text": "Communication", "options": []string{"1", "2", "3", "4", "5"}},
				{"id": "q2", "text": "Ownership", "options": []string{"1", "2", "3", "4", "5"}},
			},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	survey := decode[surveyResponse](t, body)

	resp, body = requestJSON(t, client, http.MethodPost, base+"/relationships/import", tenant.ID, map[string]interface{}{
		"survey_id": survey.ID,
		"rows": []map[string]string{
			{"evaluator_code": "E2", "subject_code": "E1", "relationship": "Peer"},
			{"evaluator_code": "E1", "subject_code": "E1", "relationship": "Self"},
			{"evaluator_code": "E9", "subject_code": "E1", "relationship": "Peer"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	imported := decode[batchResponse](t, body)
	require.Equal(t, "partial_success", imported.Status)
	require.Len(t, imported.Items, 3)

	first := decode[importOutcome](t, imported.Items[0])
	require.NotNil(t, first.AssignmentID)
	mismatch := decode[importOutcome](t, imported.Items[1])
	require.NotNil(t, mismatch.Error)
	require.Equal(t, "survey_shape_mismatch", mismatch.Error.Code)
	missing := decode[importOutcome](t, imported.Items[2])
	require.NotNil(t, missing.Error)
	require.Equal(t, "not_found", missing.Error.Code)

	resp, body = requestJSON(t, client, http.MethodGet, base+"/surveys/"+survey.ID+"/relationships/assigned", tenant.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assigned := decode[assignedResponse](t, body)
	require.Equal(t, 1, assigned.Total)
	require.Equal(t, *first.AssignmentID, assigned.Items[0].AssignmentID)
	require.Equal(t, "not_started", assigned.Items[0].SubmissionStatus)
	subjectID := assigned.Items[0].Subject.ID

	resp, body = requestJSON(t, client, http.MethodGet, base+"/emailing-list", tenant.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	list := decode[emailingResponse](t, body)
	require.Equal(t, 1, list.Total)
	require.Equal(t, "Bob", list.Items[0].EvaluatorName)
	require.Equal(t, []string{"Alice"}, list.Items[0].OutstandingSubjects)

	resp, body = requestJSON(t, client, http.MethodPut, base+"/assignments/"+*first.AssignmentID+"/submission", tenant.ID, map[string]interface{}{
		"response_data": map[string]interface{}{"answers": map[string]interface{}{"q1": 4, "q2": 2}},
		"complete":      true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = requestJSON(t, client, http.MethodPut, base+"/assignments/"+*first.AssignmentID+"/submission", tenant.ID, map[string]interface{}{
		"response_data": map[string]interface{}{"answers": map[string]interface{}{"q1": 0}},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

	resp, body = requestJSON(t, client, http.MethodGet, base+"/emailing-list", tenant.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.Equal(t, 0, decode[emailingResponse](t, body).Total)

	resp, body = requestJSON(t, client, http.MethodGet, base+"/reports/subjects/"+subjectID+"/surveys/"+survey.ID+"/summary", tenant.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	summary := decode[summaryResponse](t, body)
	require.Equal(t, 1, summary.Total)
	require.Equal(t, "Bob", summary.Items[0].EvaluatorName)
	require.Equal(t, 2, summary.Items[0].Summary.AnsweredQuestions)
	require.InDelta(t, 75.0, summary.Items[0].Summary.OverallScore, 0.001)

	other := createTenant(t, client, env.server.URL, "Globex")
	resp, body = requestJSON(t, client, http.MethodGet, base+"/subjects/"+subjectID+"/evaluators", other.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode, string(body))
	require.Equal(t, "subject_not_found", decode[errorEnvelope](t, body).Error.Code)
}
