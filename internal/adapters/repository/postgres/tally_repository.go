package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
	"github.com/vncsmyrnk/ballotbox/internal/core/ports"
)

type tallyRepository struct {
	db *sql.DB
}

func NewTallyRepository(db *sql.DB) ports.TallyRepository {
	return &tallyRepository{
		db: db,
	}
}

func (r *tallyRepository) Reconcile(ctx context.Context) ([]domain.TallyDrift, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Blocks new votes until commit so the recount matches the counters it rewrites.
	if _, err := tx.ExecContext(ctx, `LOCK TABLE votes IN SHARE MODE`); err != nil {
		return nil, fmt.Errorf("failed to lock votes: %w", err)
	}

	query := `
		WITH counted AS (
			SELECT c.id, c.name, c.vote_count AS stored, COUNT(v.id) AS counted
			FROM candidates c
			LEFT JOIN votes v ON v.candidate_id = c.id
			GROUP BY c.id
		), fixed AS (
			UPDATE candidates c
			SET vote_count = counted.counted
			FROM counted
			WHERE c.id = counted.id AND c.vote_count <> counted.counted
			RETURNING c.id
		)
		SELECT counted.id, counted.name, counted.stored, counted.counted
		FROM counted
		JOIN fixed ON fixed.id = counted.id
		ORDER BY counted.id
	`
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile tallies: %w", err)
	}
	defer rows.Close()

	var drift []domain.TallyDrift
	for rows.Next() {
		var d domain.TallyDrift
		if err := rows.Scan(&d.CandidateID, &d.Name, &d.Stored, &d.Counted); err != nil {
			return nil, fmt.Errorf("failed to scan tally drift: %w", err)
		}
		drift = append(drift, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tally drift: %w", err)
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return drift, nil
}
