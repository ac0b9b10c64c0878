package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"feedback360-go/internal/domain/batch"
	emailingdomain "feedback360-go/internal/domain/emailing"
	"feedback360-go/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorMapping binds an expected domain error to its HTTP status and code.
type ErrorMapping struct {
	Err    error
	Status int
	Code   string
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// sharedMappings apply to every handler after its own mappings. A failed
// cache invalidation means the change was stored but other instances may
// still serve the old emailing list, so the client should retry.
var sharedMappings = []ErrorMapping{
	{Err: emailingdomain.ErrInvalidationFailed, Status: http.StatusServiceUnavailable, Code: "cache_unavailable"},
}

// RespondError writes the first matching mapping as a business error and
// anything else as an internal error.
func RespondError(w http.ResponseWriter, log logger.Logger, action string, err error, mappings []ErrorMapping, args ...any) {
	for _, group := range [][]ErrorMapping{mappings, sharedMappings} {
		for _, mapping := range group {
			if errors.Is(err, mapping.Err) {
				log.BusinessError(action+": "+mapping.Code, err, args...)
				WriteError(w, mapping.Status, mapping.Code, mapping.Err.Error())
				return
			}
		}
	}
	log.InternalError(action+": failed", err, args...)
	WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// EnvelopeStatus keeps 200 for a batch that did any work and 422 when every
// item failed.
func EnvelopeStatus(status batch.Status) int {
	if status == batch.StatusFailed {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}
