package handler

import (
	"feedback360-go/internal/transport/httpserver/handler/common"
	"feedback360-go/internal/transport/httpserver/handler/emailing"
	"feedback360-go/internal/transport/httpserver/handler/employees"
	"feedback360-go/internal/transport/httpserver/handler/relationships"
	"feedback360-go/internal/transport/httpserver/handler/reports"
	"feedback360-go/internal/transport/httpserver/handler/submissions"
	"feedback360-go/internal/transport/httpserver/handler/surveys"
	"feedback360-go/internal/transport/httpserver/handler/tenants"
)

type Handlers struct {
	Common        *common.Handlers
	Tenants       *tenants.Handlers
	Employees     *employees.Handlers
	Relationships *relationships.Handlers
	Surveys       *surveys.Handlers
	Submissions   *submissions.Handlers
	Reports       *reports.Handlers
	Emailing      *emailing.Handlers
}
