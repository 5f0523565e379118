package domain

import "time"

type Candidate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Votes     int64     `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

// CandidateListing is the result of a candidate read. Degraded is set when the
// store could not be reached and Candidates is empty because of it, not
// because nothing has been seeded.
type CandidateListing struct {
	Candidates []Candidate
	Degraded   bool
}

// TallyDrift describes a candidate whose stored counter disagreed with the
// number of vote rows referencing it.
type TallyDrift struct {
	CandidateID int64
	Name        string
	Stored      int64
	Counted     int64
}
