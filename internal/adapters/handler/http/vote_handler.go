package http

import (
	"net/http"

	"github.com/vncsmyrnk/ballotbox/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteStatusRequest struct {
	VoterIdentifier string `json:"voterIdentifier"`
}

type voteStatusResponse struct {
	HasVoted bool `json:"hasVoted"`
	Degraded bool `json:"degraded"`
}

type castVoteRequest struct {
	CandidateID     int64  `json:"candidateId"`
	VoterIdentifier string `json:"voterIdentifier"`
}

type castVoteResponse struct {
	Success    bool                `json:"success"`
	Candidates []candidateResponse `json:"candidates"`
}

func (h *VoteHandler) VoteStatus(w http.ResponseWriter, r *http.Request) {
	var req voteStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	status, err := h.service.HasVoted(r.Context(), req.VoterIdentifier)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, voteStatusResponse{HasVoted: status.HasVoted, Degraded: status.Degraded})
}

func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	input := ports.CastVoteInput{
		CandidateID:     req.CandidateID,
		VoterIdentifier: req.VoterIdentifier,
	}

	candidates, err := h.service.CastVote(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, castVoteResponse{
		Success:    true,
		Candidates: toCandidateResponses(candidates),
	})
}
