package ports

import (
	"context"

	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
)

type VoteRepository interface {
	HasVoted(ctx context.Context, voterIdentifier string) (bool, error)
	// CastVote inserts the vote and increments the candidate counter in one
	// transaction and returns the candidate list as seen by that transaction.
	CastVote(ctx context.Context, vote *domain.Vote) ([]domain.Candidate, error)
}

type CastVoteInput struct {
	CandidateID     int64
	VoterIdentifier string
}

type VoteService interface {
	ListCandidates(ctx context.Context) domain.CandidateListing
	HasVoted(ctx context.Context, voterIdentifier string) (domain.VoterStatus, error)
	CastVote(ctx context.Context, input CastVoteInput) ([]domain.Candidate, error)
	Ping(ctx context.Context) error
}
