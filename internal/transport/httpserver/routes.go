package httpserver

import (
	"net/http"
	"time"

	"feedback360-go/internal/config"
	"feedback360-go/internal/transport/httpserver/handler"
	"feedback360-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the middleware built outside the router. RateLimit
// may be nil when rate limiting is disabled.
type RouterOptions struct {
	Tenant    *middleware.Tenant
	RateLimit func(http.Handler) http.Handler
}

func NewRouter(cfg config.Config, handlers *handler.Handlers, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(cfg.CORS.AllowedOrigins, cfg.Tenancy.Header))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics)
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}

		r.Get("/health", handlers.Common.Health)
		r.Post("/tenants", handlers.Tenants.CreateTenant)

		r.Group(func(r chi.Router) {
			r.Use(opts.Tenant.Middleware)

			r.Get("/tenants/me", handlers.Tenants.GetTenantMe)
			r.Patch("/tenants/me", handlers.Tenants.RenameTenant)
			r.Delete("/tenants/me", handlers.Tenants.DeactivateTenant)

			r.Get("/employees", handlers.Employees.ListEmployees)
			r.Post("/employees", handlers.Employees.CreateEmployee)
			r.Post("/employees/bulk", handlers.Employees.BulkCreateEmployees)
			r.Post("/employees/validate", handlers.Employees.ValidateEmployeeCodes)
			r.Delete("/employees/{id}", handlers.Employees.DeactivateEmployee)

			r.Get("/subjects/{subject_id}/evaluators", handlers.Relationships.ListForSubject)
			r.Post("/subjects/{subject_id}/evaluators", handlers.Relationships.AssignEvaluators)
			r.Patch("/subjects/{subject_id}/evaluators/{evaluator_id}", handlers.Relationships.UpdateLabel)
			r.Delete("/subjects/{subject_id}/evaluators/{evaluator_id}", handlers.Relationships.Remove)
			r.Get("/evaluators/{evaluator_id}/subjects", handlers.Relationships.ListForEvaluator)
			r.Post("/evaluators/{evaluator_id}/subjects", handlers.Relationships.AssignSubjects)
			r.Post("/relationships/import", handlers.Relationships.Import)

			r.Get("/surveys", handlers.Surveys.ListSurveys)
			r.Post("/surveys", handlers.Surveys.CreateSurvey)
			r.Get("/surveys/{survey_id}", handlers.Surveys.GetSurvey)
			r.Delete("/surveys/{survey_id}", handlers.Surveys.DeactivateSurvey)
			r.Get("/surveys/{survey_id}/relationships/available", handlers.Surveys.AvailableRelationships)
			r.Get("/surveys/{survey_id}/relationships/assigned", handlers.Surveys.AssignedRelationships)
			r.Post("/surveys/{survey_id}/relationships", handlers.Surveys.AssignRelationships)
			r.Delete("/surveys/{survey_id}/relationships", handlers.Surveys.UnassignRelationships)

			r.Get("/assignments/{assignment_id}/submission", handlers.Submissions.Progress)
			r.Post("/assignments/{assignment_id}/submission/start", handlers.Submissions.Start)
			r.Put("/assignments/{assignment_id}/submission", handlers.Submissions.Save)
			r.Post("/assignments/notified", handlers.Submissions.MarkNotified)

			r.Route("/reports/subjects/{subject_id}/surveys/{survey_id}", func(r chi.Router) {
				r.Get("/summary", handlers.Reports.Summary)
				r.Get("/self-vs-evaluators", handlers.Reports.SelfVsEvaluators)
				r.Get("/organization", handlers.Reports.Organization)
				r.Get("/comprehensive", handlers.Reports.Comprehensive)
			})

			r.Get("/emailing-list", handlers.Emailing.List)
		})
	})

	return r
}
