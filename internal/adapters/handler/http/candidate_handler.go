package http

import (
	"net/http"

	"github.com/vncsmyrnk/ballotbox/internal/core/ports"
)

type CandidateHandler struct {
	service ports.VoteService
}

func NewCandidateHandler(service ports.VoteService) *CandidateHandler {
	return &CandidateHandler{
		service: service,
	}
}

type listCandidatesResponse struct {
	Candidates []candidateResponse `json:"candidates"`
	Degraded   bool                `json:"degraded"`
}

// ListCandidates always answers 200; a store outage shows up as an empty,
// degraded list.
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	listing := h.service.ListCandidates(r.Context())

	writeJSON(w, http.StatusOK, listCandidatesResponse{
		Candidates: toCandidateResponses(listing.Candidates),
		Degraded:   listing.Degraded,
	})
}
