package employees

import (
	"net/http"

	identitydomain "feedback360-go/internal/domain/identity"
	validationdomain "feedback360-go/internal/domain/validation"
	"feedback360-go/internal/transport/httpserver/handler/common"
	"feedback360-go/pkg/logger"
)

type Handlers struct {
	Identity   *identitydomain.Service
	Validation *validationdomain.Service
	log        logger.Logger
}

func New(identity *identitydomain.Service, validation *validationdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Identity: identity, Validation: validation, log: log}
}

var errorMappings = []common.ErrorMapping{
	{Err: identitydomain.ErrEmployeeNotFound, Status: http.StatusNotFound, Code: "employee_not_found"},
	{Err: identitydomain.ErrEmployeeCodeTaken, Status: http.StatusConflict, Code: "employee_code_taken"},
	{Err: identitydomain.ErrEmployeeCodeRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: identitydomain.ErrInvalidEmployee, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: identitydomain.ErrTooManyEmployees, Status: http.StatusBadRequest, Code: "batch_too_large"},
	{Err: validationdomain.ErrNoCodes, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: validationdomain.ErrTooManyCodes, Status: http.StatusBadRequest, Code: "batch_too_large"},
	{Err: validationdomain.ErrInvalidRole, Status: http.StatusBadRequest, Code: "invalid_request"},
}
