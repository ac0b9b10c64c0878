package relationships

import (
	"net/http"

	assignmentsdomain "feedback360-go/internal/domain/assignments"
	identitydomain "feedback360-go/internal/domain/identity"
	relationshipsdomain "feedback360-go/internal/domain/relationships"
	"feedback360-go/internal/transport/httpserver/handler/common"
	"feedback360-go/pkg/logger"
)

type Handlers struct {
	Relationships *relationshipsdomain.Service
	Assignments   *assignmentsdomain.Service
	log           logger.Logger
}

func New(relationships *relationshipsdomain.Service, assignments *assignmentsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Relationships: relationships, Assignments: assignments, log: log}
}

var errorMappings = []common.ErrorMapping{
	{Err: relationshipsdomain.ErrIsolationViolation, Status: http.StatusForbidden, Code: "isolation_violation"},
	{Err: relationshipsdomain.ErrRelationshipNotFound, Status: http.StatusNotFound, Code: "relationship_not_found"},
	{Err: relationshipsdomain.ErrLabelRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: relationshipsdomain.ErrLabelTooLong, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: relationshipsdomain.ErrNoTargets, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: relationshipsdomain.ErrBatchTooLarge, Status: http.StatusBadRequest, Code: "batch_too_large"},
	{Err: identitydomain.ErrSubjectNotFound, Status: http.StatusNotFound, Code: "subject_not_found"},
	{Err: identitydomain.ErrEvaluatorNotFound, Status: http.StatusNotFound, Code: "evaluator_not_found"},
	{Err: assignmentsdomain.ErrSurveyNotFound, Status: http.StatusNotFound, Code: "survey_not_found"},
	{Err: assignmentsdomain.ErrBatchTooLarge, Status: http.StatusBadRequest, Code: "batch_too_large"},
	{Err: assignmentsdomain.ErrNoTargets, Status: http.StatusBadRequest, Code: "invalid_request"},
}
