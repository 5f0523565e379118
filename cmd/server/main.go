package main

import (
	"context"
	"errors"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/ballotbox/internal/adapters/handler/http"
	"github.com/vncsmyrnk/ballotbox/internal/adapters/repository"
	"github.com/vncsmyrnk/ballotbox/internal/config"
	"github.com/vncsmyrnk/ballotbox/internal/core/services"
	"github.com/vncsmyrnk/ballotbox/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	logg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %s", err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.Database, logg)
	if err != nil {
		logg.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	// An unreachable store is not fatal: reads degrade and writes report it.
	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	if err := store.DB.PingContext(pingCtx); err != nil {
		logg.Warn("store not reachable at startup", zap.Error(err))
	}
	cancel()

	voteService := services.NewVoteService(store.Candidates, store.Votes, cfg.SeedCandidates, cfg.StoreTimeout, logg)

	candidateHandler := http.NewCandidateHandler(voteService)
	voteHandler := http.NewVoteHandler(voteService)
	healthHandler := http.NewHealthHandler(voteService)
	handler := http.NewHandler(candidateHandler, voteHandler, healthHandler, logg, cfg.AllowedOrigins)

	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("database", cfg.Database.Type))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logg.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logg.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown failed", zap.Error(err))
	}
}
