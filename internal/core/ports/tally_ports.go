package ports

import (
	"context"

	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
)

type TallyRepository interface {
	// Reconcile rewrites every candidate counter from the vote rows and
	// returns the candidates whose counter was wrong.
	Reconcile(ctx context.Context) ([]domain.TallyDrift, error)
}

type TallyService interface {
	ReconcileAll(ctx context.Context) ([]domain.TallyDrift, error)
}
