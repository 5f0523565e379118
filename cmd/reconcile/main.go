package main

import (
	"context"
	"flag"
	"log"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/vncsmyrnk/ballotbox/internal/adapters/repository"
	"github.com/vncsmyrnk/ballotbox/internal/config"
	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
	"github.com/vncsmyrnk/ballotbox/internal/core/services"
	"github.com/vncsmyrnk/ballotbox/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	printOnly := flag.Bool("print-only", false, "Print the current tally without reconciling")
	timeout := flag.Duration("timeout", 5*time.Minute, "Job timeout")
	flag.StringVar(&cfg.Database.Type, "db-type", cfg.Database.Type, "Database type (postgres or sqlite)")
	flag.StringVar(&cfg.Database.Postgres.Host, "db-host", cfg.Database.Postgres.Host, "Database host")
	flag.StringVar(&cfg.Database.Postgres.Port, "db-port", cfg.Database.Postgres.Port, "Database port")
	flag.StringVar(&cfg.Database.Postgres.Name, "db-name", cfg.Database.Postgres.Name, "Database name")
	flag.StringVar(&cfg.Database.SQLitePath, "sqlite-path", cfg.Database.SQLitePath, "SQLite database file")
	flag.Parse()

	logg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %s", err)
	}
	defer logg.Sync()

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := repository.Open(ctx, cfg.Database, logg)
	if err != nil {
		logg.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	if err := store.DB.PingContext(ctx); err != nil {
		logg.Fatal("store not reachable", zap.Error(err))
	}

	if !*printOnly {
		tallyService := services.NewTallyService(store.Tallies, logg)

		pterm.Info.Println("Reconciling tallies against vote rows...")
		drift, err := tallyService.ReconcileAll(ctx)
		if err != nil {
			logg.Fatal("reconciliation failed", zap.Error(err))
		}
		printDrift(drift)
	}

	candidates, err := store.Candidates.List(ctx)
	if err != nil {
		logg.Fatal("failed to list candidates", zap.Error(err))
	}
	printTally(candidates)
}

func printDrift(drift []domain.TallyDrift) {
	if len(drift) == 0 {
		pterm.Success.Println("All tallies match their vote rows.")
		return
	}

	data := pterm.TableData{{"ID", "Candidate", "Stored", "Counted"}}
	for _, d := range drift {
		data = append(data, []string{
			strconv.FormatInt(d.CandidateID, 10),
			d.Name,
			strconv.FormatInt(d.Stored, 10),
			strconv.FormatInt(d.Counted, 10),
		})
	}
	pterm.Warning.Printfln("Corrected %d drifted tallies:", len(drift))
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printTally(candidates []domain.Candidate) {
	var total int64
	data := pterm.TableData{{"ID", "Candidate", "Votes"}}
	for _, c := range candidates {
		total += c.Votes
		data = append(data, []string{strconv.FormatInt(c.ID, 10), c.Name, strconv.FormatInt(c.Votes, 10)})
	}

	pterm.DefaultSection.Println("Current tally")
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Info.Printfln("%d votes across %d candidates", total, len(candidates))
}
