package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID              uuid.UUID `json:"id"`
	CandidateID     int64     `json:"candidate_id"`
	VoterIdentifier string    `json:"voter_identifier"`
	CreatedAt       time.Time `json:"created_at"`
}

type VoterStatus struct {
	HasVoted bool
	Degraded bool
}
