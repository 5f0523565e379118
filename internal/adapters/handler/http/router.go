package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewHandler(candidateHandler *CandidateHandler, voteHandler *VoteHandler, healthHandler *HealthHandler, log *zap.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/candidates", candidateHandler.ListCandidates)

		r.Route("/votes", func(r chi.Router) {
			r.Post("/", voteHandler.CastVote)
			r.Post("/status", voteHandler.VoteStatus)
		})
	})

	return r
}
