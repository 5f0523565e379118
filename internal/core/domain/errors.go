package domain

import "errors"

var (
	ErrInvalidCandidate  = errors.New("candidate id must be a positive integer")
	ErrInvalidVoter      = errors.New("voter identifier is required")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrAlreadyVoted      = errors.New("voter has already voted")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
