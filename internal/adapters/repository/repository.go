// Package repository opens the configured store and hands out the ledger
// repositories backed by it.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/ballotbox/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/ballotbox/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/ballotbox/internal/config"
	"github.com/vncsmyrnk/ballotbox/internal/core/ports"
	"go.uber.org/zap"
)

type Store struct {
	DB         *sql.DB
	Candidates ports.CandidateRepository
	Votes      ports.VoteRepository
	Tallies    ports.TallyRepository
}

func Open(ctx context.Context, cfg config.Database, log *zap.Logger) (*Store, error) {
	switch cfg.Type {
	case config.DatabasePostgres:
		db, err := postgres.Open(cfg.Postgres.ConnString())
		if err != nil {
			return nil, err
		}
		return &Store{
			DB:         db,
			Candidates: postgres.NewCandidateRepository(db, log),
			Votes:      postgres.NewVoteRepository(db, log),
			Tallies:    postgres.NewTallyRepository(db),
		}, nil
	case config.DatabaseSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			DB:         db,
			Candidates: sqlite.NewCandidateRepository(db, log),
			Votes:      sqlite.NewVoteRepository(db, log),
			Tallies:    sqlite.NewTallyRepository(db),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}
}

func (s *Store) Close() error {
	return s.DB.Close()
}
