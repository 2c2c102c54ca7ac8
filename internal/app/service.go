// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/rating/internal/adapters/repository"
	"github.com/okian/rating/internal/adapters/storage"
	"github.com/okian/rating/internal/domain/model"
	"github.com/okian/rating/internal/domain/types"
	"github.com/okian/rating/pkg/logger"
	"github.com/okian/rating/pkg/metrics"
)

// ErrNotStarted is returned by operations invoked before Start or after Stop.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the rating system.
type Service struct {
	mu sync.RWMutex

	// Core components
	backend storage.Backend
	store   *repository.PlayerStore

	// Configuration
	storageCfg storage.Config
	rankIndex  bool
	injected   storage.Backend

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStorage selects the backend opened by Start.
func WithStorage(cfg storage.Config) Option {
	return func(s *Service) {
		s.storageCfg = cfg
	}
}

// WithBackend makes Start use b instead of opening one from the storage
// settings. The service closes b on Stop; a failed Start leaves it open.
func WithBackend(b storage.Backend) Option {
	return func(s *Service) {
		s.injected = b
	}
}

// WithRankIndex serves ratings from the incremental rank index.
func WithRankIndex(enabled bool) Option {
	return func(s *Service) {
		s.rankIndex = enabled
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storageCfg: storage.Config{Driver: storage.DriverFile, Path: "players.json"},
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the backend and loads the table once, so unreadable or
// corrupt data is reported before the first request.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting rating service...")

	backend := s.injected
	if backend == nil {
		b, err := storage.Open(ctx, s.storageCfg)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		backend = b
	}

	store := repository.New(backend,
		repository.WithLogger(s.logger.Named("repository")),
		repository.WithRankIndex(s.rankIndex),
	)
	entries, err := store.Rating(ctx)
	if err != nil {
		if s.injected == nil {
			_ = store.Close()
		}
		return err
	}
	metrics.UpdatePlayersTotal(len(entries))

	s.backend = backend
	s.store = store
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "rating service started",
		logger.String("storage", backend.String()),
		logger.Bool("rankIndex", s.rankIndex),
		logger.Int("players", len(entries)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping rating service...")

	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing storage failed", logger.Error(err))
	}
	s.store = nil
	s.backend = nil
	s.injected = nil

	s.started = false
	s.logger.Info(context.Background(), "rating service stopped")
}

// UpdateScore inserts or replaces the record for rec.UserID.
func (s *Service) UpdateScore(ctx context.Context, rec model.Record) error {
	store, err := s.current()
	if err != nil {
		return err
	}
	return store.Update(ctx, rec)
}

// Rating returns every player ranked by score descending.
func (s *Service) Rating(ctx context.Context) ([]types.Entry, error) {
	store, err := s.current()
	if err != nil {
		return nil, err
	}
	entries, err := store.Rating(ctx)
	if err != nil {
		return nil, err
	}
	return types.FromRanking(entries), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":   s.started,
		"rankIndex": s.rankIndex,
	}

	if s.started {
		stats["storage"] = s.driver()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())

		n, err := s.store.Count(context.Background())
		if err != nil {
			s.logger.Warn(context.Background(), "counting players failed", logger.Error(err))
			stats["playersError"] = "storage_error"
		} else {
			stats["totalPlayers"] = n
			metrics.UpdatePlayersTotal(n)
		}
	}

	return stats
}

// driver names the storage kind without its location.
func (s *Service) driver() string {
	switch {
	case s.injected != nil:
		return "custom"
	case s.storageCfg.Driver == "":
		return storage.DriverFile
	default:
		return s.storageCfg.Driver
	}
}

func (s *Service) current() (*repository.PlayerStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}
