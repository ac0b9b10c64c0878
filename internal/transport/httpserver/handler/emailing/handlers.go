package emailing

import (
	"net/http"

	emailingdomain "feedback360-go/internal/domain/emailing"
	"feedback360-go/internal/transport/httpserver/handler/common"
	"feedback360-go/pkg/logger"
)

type Handlers struct {
	Emailing *emailingdomain.Service
	log      logger.Logger
}

func New(emailing *emailingdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Emailing: emailing, log: log}
}

type emailingListResponse struct {
	Items []emailingdomain.Item `json:"items"`
	Total int                   `json:"total"`
}

func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := common.Tenant(w, r)
	if !ok {
		return
	}

	items, err := h.Emailing.Get(r.Context(), tenant.ID)
	if err != nil {
		common.RespondError(w, h.log, "emailing.list", err, nil, "tenant_id", tenant.ID)
		return
	}
	if items == nil {
		items = []emailingdomain.Item{}
	}
	common.WriteJSON(w, http.StatusOK, emailingListResponse{Items: items, Total: len(items)})
}
