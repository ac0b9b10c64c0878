package common

import (
	"context"
	"net/http"
	"time"

	"feedback360-go/pkg/logger"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	db  Pinger
	log logger.Logger
}

func New(db Pinger, log logger.Logger) *Handlers {
	return &Handlers{db: db, log: log}
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.log.InternalError("health: database ping failed", err)
			WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
