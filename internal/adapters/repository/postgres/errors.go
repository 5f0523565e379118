package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
)

const (
	uniqueViolation     pq.ErrorCode = "23505"
	foreignKeyViolation pq.ErrorCode = "23503"

	voterIdentifierConstraint = "votes_voter_identifier_key"
)

// translateError maps constraint violations raised by the vote write path to
// domain errors and wraps everything else with msg.
func translateError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			if pqErr.Constraint == voterIdentifierConstraint {
				return domain.ErrAlreadyVoted
			}
		case foreignKeyViolation:
			return domain.ErrCandidateNotFound
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
