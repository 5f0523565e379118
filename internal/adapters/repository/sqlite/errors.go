package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	voterIdentifierColumn = "votes.voter_identifier"
	foreignKeyFailure     = "FOREIGN KEY constraint failed"
)

// translateError maps constraint violations raised by the vote write path to
// domain errors and wraps everything else with msg.
func translateError(err error, msg string) error {
	var sqlErr *msqlite.Error
	if errors.As(err, &sqlErr) && sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		switch {
		case sqlErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
			strings.Contains(sqlErr.Error(), foreignKeyFailure):
			return domain.ErrCandidateNotFound
		case strings.Contains(sqlErr.Error(), voterIdentifierColumn):
			return domain.ErrAlreadyVoted
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
