// Package repository implements the player store on top of a storage backend.
//
// The whole table is one blob: every write loads the latest table, applies a
// single upsert and rewrites the blob. Writers are serialized by one mutex per
// store, so concurrent updates to different players are never lost. Readers
// take no lock; the backend's atomic replace guarantees they see a complete
// table.
package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/rating/internal/adapters/storage"
	"github.com/okian/rating/internal/domain/model"
	"github.com/okian/rating/internal/domain/ranking"
	"github.com/okian/rating/pkg/logger"
	"github.com/okian/rating/pkg/metrics"
)

const component = "repository"

// PlayerStore owns a storage backend and applies the read/write protocol for
// the player table.
type PlayerStore struct {
	backend storage.Backend
	logger  logger.Logger

	// mu serializes load-upsert-save cycles and index warm-up.
	mu sync.Mutex

	useIndex bool
	index    *ranking.Index
	warm     atomic.Bool
}

// New returns a store over backend. The store takes ownership of the backend
// and closes it in Close.
func New(backend storage.Backend, opts ...Option) *PlayerStore {
	s := &PlayerStore{
		backend: backend,
		logger:  logger.Nop(),
		index:   ranking.NewIndex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the backend.
func (s *PlayerStore) Close() error {
	return s.backend.Close()
}

// Load reads the full table. A backend with no data yet yields an empty
// table; unreadable or corrupt data yields a StorageError.
func (s *PlayerStore) Load(ctx context.Context) (model.Table, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("load", float64(time.Since(start).Milliseconds()))
	}()

	data, err := s.backend.Read(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			s.logger.Debug(ctx, "no player table yet; starting empty", logger.String("location", s.backend.String()))
			return model.NewTable(), nil
		}
		return nil, s.fail(ctx, "load", err)
	}
	t, err := decodeTable(data)
	if err != nil {
		return nil, s.fail(ctx, "load", err)
	}
	return t, nil
}

// Upsert returns t with r stored under its user_id.
func (s *PlayerStore) Upsert(t model.Table, r model.Record) (model.Table, error) {
	return model.Upsert(t, r)
}

// Save replaces the persisted table with t.
func (s *PlayerStore) Save(ctx context.Context, t model.Table) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("save", float64(time.Since(start).Milliseconds()))
	}()

	data, err := encodeTable(t)
	if err != nil {
		return s.fail(ctx, "save", err)
	}
	if err := s.backend.Write(ctx, data); err != nil {
		return s.fail(ctx, "save", err)
	}
	metrics.UpdatePlayersTotal(t.Len())
	return nil
}

// Rank returns all records of t by score descending.
func (s *PlayerStore) Rank(t model.Table) []model.Record {
	return ranking.Rank(t)
}

// Update applies one upsert as a serialized load-upsert-save cycle. Invalid
// records are rejected before storage is touched.
func (s *PlayerStore) Update(ctx context.Context, r model.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("update", float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.Load(ctx)
	if err != nil {
		return err
	}
	t, err = s.Upsert(t, r)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, t); err != nil {
		return err
	}
	if s.useIndex && s.warm.Load() {
		s.index.Put(r)
	}
	metrics.RecordPlayerUpsert()
	s.logger.Debug(ctx, "player updated",
		logger.String("user_id", r.UserID),
		logger.Float64("score", r.Score),
		logger.Int("players", t.Len()),
	)
	return nil
}

// Rating returns every player ranked by score descending.
func (s *PlayerStore) Rating(ctx context.Context) ([]ranking.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("rating", float64(time.Since(start).Milliseconds()))
	}()

	if s.useIndex {
		if err := s.warmIndex(ctx); err != nil {
			return nil, err
		}
		return ranking.Assign(s.index.All()), nil
	}

	t, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.Assign(s.Rank(t)), nil
}

// Count returns the number of stored players.
func (s *PlayerStore) Count(ctx context.Context) (int, error) {
	if s.useIndex && s.warm.Load() {
		return s.index.Len(), nil
	}
	t, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	return t.Len(), nil
}

// warmIndex fills the index from storage once. It runs under the writer
// lock so no update can land between the load and the index rebuild.
func (s *PlayerStore) warmIndex(ctx context.Context) error {
	if s.warm.Load() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.warm.Load() {
		return nil
	}
	t, err := s.Load(ctx)
	if err != nil {
		return err
	}
	s.index.Replace(t)
	s.warm.Store(true)
	s.logger.Info(ctx, "rank index warmed", logger.Int("players", t.Len()))
	return nil
}

func (s *PlayerStore) fail(ctx context.Context, op string, err error) error {
	kind := "io"
	if errors.Is(err, ErrCorrupt) {
		kind = "corrupt"
	}
	metrics.RecordErrorByComponent(component, op+"_"+kind)
	s.logger.Error(ctx, "player storage failure",
		logger.String("op", op),
		logger.String("location", s.backend.String()),
		logger.Error(err),
	)
	return &StorageError{Op: op, Location: s.backend.String(), Err: err}
}
