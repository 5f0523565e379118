package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
	"github.com/vncsmyrnk/ballotbox/internal/core/ports"
	"go.uber.org/zap"
)

type voteService struct {
	candidateRepo ports.CandidateRepository
	voteRepo      ports.VoteRepository
	seed          []string
	timeout       time.Duration
	log           *zap.Logger
}

// NewVoteService builds the vote ledger. seed is written to the candidate
// table on the first read that finds it empty; timeout bounds every store
// call (zero disables it).
func NewVoteService(candidateRepo ports.CandidateRepository, voteRepo ports.VoteRepository, seed []string, timeout time.Duration, log *zap.Logger) ports.VoteService {
	return &voteService{
		candidateRepo: candidateRepo,
		voteRepo:      voteRepo,
		seed:          seed,
		timeout:       timeout,
		log:           log,
	}
}

func (s *voteService) ListCandidates(ctx context.Context) domain.CandidateListing {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	seeded, err := s.candidateRepo.SeedIfEmpty(ctx, s.seed)
	if err != nil {
		s.log.Warn("candidate seed failed, serving degraded list", zap.Error(err))
		return domain.CandidateListing{Candidates: []domain.Candidate{}, Degraded: true}
	}
	if seeded {
		s.log.Info("seeded candidates", zap.Int("count", len(s.seed)))
	}

	candidates, err := s.candidateRepo.List(ctx)
	if err != nil {
		s.log.Warn("candidate list failed, serving degraded list", zap.Error(err))
		return domain.CandidateListing{Candidates: []domain.Candidate{}, Degraded: true}
	}
	if candidates == nil {
		candidates = []domain.Candidate{}
	}

	return domain.CandidateListing{Candidates: candidates}
}

func (s *voteService) HasVoted(ctx context.Context, voterIdentifier string) (domain.VoterStatus, error) {
	voterIdentifier = strings.TrimSpace(voterIdentifier)
	if voterIdentifier == "" {
		return domain.VoterStatus{}, domain.ErrInvalidVoter
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	voted, err := s.voteRepo.HasVoted(ctx, voterIdentifier)
	if err != nil {
		s.log.Warn("vote lookup failed, reporting not voted", zap.Error(err))
		return domain.VoterStatus{Degraded: true}, nil
	}

	return domain.VoterStatus{HasVoted: voted}, nil
}

func (s *voteService) CastVote(ctx context.Context, input ports.CastVoteInput) ([]domain.Candidate, error) {
	if input.CandidateID <= 0 {
		return nil, domain.ErrInvalidCandidate
	}
	voterIdentifier := strings.TrimSpace(input.VoterIdentifier)
	if voterIdentifier == "" {
		return nil, domain.ErrInvalidVoter
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	vote := &domain.Vote{
		ID:              uuid.New(),
		CandidateID:     input.CandidateID,
		VoterIdentifier: voterIdentifier,
		CreatedAt:       time.Now().UTC(),
	}

	candidates, err := s.voteRepo.CastVote(ctx, vote)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyVoted):
			s.log.Info("duplicate vote rejected", zap.Int64("candidate_id", input.CandidateID))
			return nil, err
		case errors.Is(err, domain.ErrCandidateNotFound):
			s.log.Info("vote for unknown candidate rejected", zap.Int64("candidate_id", input.CandidateID))
			return nil, err
		case errors.Is(err, domain.ErrStoreUnavailable):
			s.log.Error("vote not recorded", zap.Error(err))
			return nil, err
		default:
			s.log.Error("vote not recorded", zap.Error(err))
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
	}

	s.log.Debug("vote recorded",
		zap.String("vote_id", vote.ID.String()),
		zap.Int64("candidate_id", vote.CandidateID))

	return candidates, nil
}

func (s *voteService) Ping(ctx context.Context) error {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.candidateRepo.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *voteService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
