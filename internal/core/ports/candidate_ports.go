package ports

import (
	"context"

	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
)

type CandidateRepository interface {
	// SeedIfEmpty inserts the given names only when no candidate exists yet.
	// It reports whether rows were written.
	SeedIfEmpty(ctx context.Context, names []string) (bool, error)
	List(ctx context.Context) ([]domain.Candidate, error)
	Ping(ctx context.Context) error
}
