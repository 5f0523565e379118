package sqlite

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
	return &tallyRepository{db: db}
}

func (r *tallyRepository) Reconcile(ctx context.Context) ([]domain.TallyDrift, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT c.id, c.name, c.vote_count, COUNT(v.id)
		FROM candidates c
		LEFT JOIN votes v ON v.candidate_id = c.id
		GROUP BY c.id, c.name, c.vote_count
		HAVING c.vote_count <> COUNT(v.id)
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	var drift []domain.TallyDrift
	for rows.Next() {
		var d domain.TallyDrift
		if err := rows.Scan(&d.CandidateID, &d.Name, &d.Stored, &d.Counted); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan tally drift: %w", err)
		}
		drift = append(drift, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating tally drift: %w", err)
	}
	rows.Close()

	for _, d := range drift {
		if _, err := tx.ExecContext(ctx, `UPDATE candidates SET vote_count = ? WHERE id = ?`, d.Counted, d.CandidateID); err != nil {
			return nil, fmt.Errorf("failed to correct candidate %d: %w", d.CandidateID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return drift, nil
}
