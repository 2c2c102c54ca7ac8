// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/okian/rating/internal/domain/model"
	"github.com/okian/rating/internal/domain/types"
	"github.com/okian/rating/pkg/logger"
)

const defaultMaxBodyBytes int64 = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// UpdateScore inserts or replaces one player record.
	UpdateScore(ctx context.Context, rec model.Record) error

	// Rating returns all players ranked by score descending.
	Rating(ctx context.Context) ([]Entry, error)
}

// Entry mirrors the read shape returned by rating queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	updateHandler *UpdateHandler
	ratingHandler *RatingHandler

	logger       logger.Logger
	maxBodyBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used by handlers and the access log.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes caps request bodies. Non-positive values are ignored.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		logger:       logger.Nop(),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.updateHandler = NewUpdateHandler(deps, s.maxBodyBytes, s.logger)
	s.ratingHandler = NewRatingHandler(deps, s.logger)
	return s
}

// Routes returns a router with the standard middleware chain and all API
// routes registered.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		RequestID,
		Metrics,
		AccessLog(s.logger),
	)
	s.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Post("/update_score", s.updateHandler.HandleUpdateScore)
	r.Get("/rating", s.ratingHandler.HandleGetRating)
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, types.ErrorResponse{Code: code, Message: msg})
}
