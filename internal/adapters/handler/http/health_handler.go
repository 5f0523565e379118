package http

import (
	"net/http"

	"github.com/vncsmyrnk/ballotbox/internal/core/ports"
)

type HealthHandler struct {
	service ports.VoteService
}

func NewHealthHandler(service ports.VoteService) *HealthHandler {
	return &HealthHandler{service: service}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
