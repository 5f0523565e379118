package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
	"github.com/vncsmyrnk/ballotbox/internal/core/ports"
	"go.uber.org/zap"
)

type candidateRepository struct {
	db  *sql.DB
	log *zap.Logger
}

func NewCandidateRepository(db *sql.DB, log *zap.Logger) ports.CandidateRepository {
	return &candidateRepository{db: db, log: log}
}

func (r *candidateRepository) SeedIfEmpty(ctx context.Context, names []string) (bool, error) {
	if len(names) == 0 {
		return false, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := anyCandidate(ctx, tx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO candidates (name, created_at) VALUES (?, ?)`)
	if err != nil {
		return false, fmt.Errorf("failed to prepare seed statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, name := range names {
		if _, err := stmt.ExecContext(ctx, name, now); err != nil {
			return false, fmt.Errorf("failed to seed candidate %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.Debug("candidate table seeded", zap.Strings("names", names))
	return true, nil
}

func (r *candidateRepository) List(ctx context.Context) ([]domain.Candidate, error) {
	return listCandidates(ctx, r.db)
}

func (r *candidateRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func anyCandidate(ctx context.Context, q rowQueryer) (bool, error) {
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM candidates)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check candidates: %w", err)
	}
	return exists, nil
}

func listCandidates(ctx context.Context, q queryer) ([]domain.Candidate, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, vote_count, created_at FROM candidates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []domain.Candidate{}
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Votes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}
