package surveys

import (
	"net/http"

	assignmentsdomain "feedback360-go/internal/domain/assignments"
	"feedback360-go/internal/domain/scoring"
	"feedback360-go/internal/transport/httpserver/handler/common"
	"feedback360-go/pkg/logger"
)

type Handlers struct {
	Assignments *assignmentsdomain.Service
	log         logger.Logger
}

func New(assignments *assignmentsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Assignments: assignments, log: log}
}

var errorMappings = []common.ErrorMapping{
	{Err: assignmentsdomain.ErrSurveyNotFound, Status: http.StatusNotFound, Code: "survey_not_found"},
	{Err: assignmentsdomain.ErrSurveyTitleRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: assignmentsdomain.ErrNoTargets, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: assignmentsdomain.ErrBatchTooLarge, Status: http.StatusBadRequest, Code: "batch_too_large"},
	{Err: scoring.ErrInvalidSchema, Status: http.StatusBadRequest, Code: "invalid_schema"},
}
