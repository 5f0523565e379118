package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/vncsmyrnk/ballotbox/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/ballotbox/internal/config"
	"github.com/vncsmyrnk/ballotbox/internal/logger"
	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "Apply the down migration instead of the up one")
	dir := flag.String("dir", filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations"), "Migrations directory")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("a migration name is required.")
	}
	migrationName := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}
	if cfg.Database.Type != config.DatabasePostgres {
		log.Fatalf("migrations only apply to postgres, DATABASE_TYPE is %q", cfg.Database.Type)
	}

	logg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %s", err)
	}
	defer logg.Sync()

	db, err := postgres.Open(cfg.Database.Postgres.ConnString())
	if err != nil {
		logg.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	direction := "up"
	if *down {
		direction = "down"
	}

	fileName, fileContent, err := migrationFileContent(*dir, migrationName, direction)
	if err != nil {
		logg.Fatal("failed to read migration", zap.String("name", migrationName), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := db.ExecContext(ctx, string(fileContent)); err != nil {
		logg.Fatal("failed to execute migration", zap.String("file", fileName), zap.Error(err))
	}

	logg.Info("migration executed", zap.String("file", fileName), zap.String("direction", direction))
}

func migrationFileContent(basePath, migrationName, direction string) (string, []byte, error) {
	fileName, err := migrationFilePath(basePath, migrationName, direction)
	if err != nil {
		return "", nil, err
	}

	fileContent, err := os.ReadFile(filepath.Join(basePath, fileName))
	if err != nil {
		return "", nil, err
	}

	return fileName, fileContent, nil
}

func migrationFilePath(basePath, migrationName, direction string) (string, error) {
	pattern := fmt.Sprintf(`^.*%s\.%s\.sql$`, regexp.QuoteMeta(migrationName), direction)
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid migration pattern: %w", err)
	}

	files, err := os.ReadDir(basePath)
	if err != nil {
		return "", fmt.Errorf("failed to read migrations directory: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}

		if regex.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file not found")
}
