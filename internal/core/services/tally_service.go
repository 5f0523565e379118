package services

import (
	"context"
	"fmt"

	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
	"github.com/vncsmyrnk/ballotbox/internal/core/ports"
	"go.uber.org/zap"
)

type tallyService struct {
	tallyRepo ports.TallyRepository
	log       *zap.Logger
}

func NewTallyService(tallyRepo ports.TallyRepository, log *zap.Logger) ports.TallyService {
	return &tallyService{
		tallyRepo: tallyRepo,
		log:       log,
	}
}

// ReconcileAll recounts every candidate from its vote rows. A non-empty drift
// list means the stored counters had diverged; they are corrected on return.
func (s *tallyService) ReconcileAll(ctx context.Context) ([]domain.TallyDrift, error) {
	drift, err := s.tallyRepo.Reconcile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile tallies: %w", err)
	}

	for _, d := range drift {
		s.log.Warn("tally drift corrected",
			zap.Int64("candidate_id", d.CandidateID),
			zap.String("name", d.Name),
			zap.Int64("stored", d.Stored),
			zap.Int64("counted", d.Counted))
	}

	return drift, nil
}
