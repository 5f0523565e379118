package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
	"github.com/vncsmyrnk/ballotbox/internal/core/ports"
	"go.uber.org/zap"
)

type voteRepository struct {
	db  *sql.DB
	log *zap.Logger
}

func NewVoteRepository(db *sql.DB, log *zap.Logger) ports.VoteRepository {
	return &voteRepository{db: db, log: log}
}

func (r *voteRepository) HasVoted(ctx context.Context, voterIdentifier string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM votes WHERE voter_identifier = ? LIMIT 1`, voterIdentifier).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func (r *voteRepository) CastVote(ctx context.Context, vote *domain.Vote) ([]domain.Candidate, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO votes (id, candidate_id, voter_identifier, created_at) VALUES (?, ?, ?, ?)`,
		vote.ID.String(), vote.CandidateID, vote.VoterIdentifier, vote.CreatedAt)
	if err != nil {
		return nil, translateError(err, "failed to save vote")
	}

	res, err := tx.ExecContext(ctx, `UPDATE candidates SET vote_count = vote_count + 1 WHERE id = ?`, vote.CandidateID)
	if err != nil {
		return nil, translateError(err, "failed to increment vote count")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected != 1 {
		return nil, domain.ErrCandidateNotFound
	}

	candidates, err := listCandidates(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.Debug("vote committed",
		zap.String("vote_id", vote.ID.String()),
		zap.Int64("candidate_id", vote.CandidateID))

	return candidates, nil
}
