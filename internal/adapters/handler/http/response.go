package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
)

const maxBodyBytes = 1 << 20

const (
	codeValidation        = "VALIDATION_ERROR"
	codeCandidateNotFound = "CANDIDATE_NOT_FOUND"
	codeDuplicateVote     = "DUPLICATE_VOTE"
	codeStoreUnavailable  = "STORE_UNAVAILABLE"
	codeInternal          = "INTERNAL"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type candidateResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Votes int64  `json:"votes"`
}

func toCandidateResponses(candidates []domain.Candidate) []candidateResponse {
	out := make([]candidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, candidateResponse{ID: c.ID, Name: c.Name, Votes: c.Votes})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// writeDomainError renders err with the status and code its sentinel maps to.
// Errors without a known sentinel are reported generically.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCandidate), errors.Is(err, domain.ErrInvalidVoter):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, domain.ErrCandidateNotFound):
		writeError(w, http.StatusNotFound, codeCandidateNotFound, domain.ErrCandidateNotFound.Error())
	case errors.Is(err, domain.ErrAlreadyVoted):
		writeError(w, http.StatusConflict, codeDuplicateVote, domain.ErrAlreadyVoted.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, codeStoreUnavailable, "vote could not be recorded, please retry")
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
