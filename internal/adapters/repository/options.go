package repository

import "github.com/okian/rating/pkg/logger"

// Option applies a configuration option to the PlayerStore.
type Option func(*PlayerStore)

// WithLogger sets the logger used for storage diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *PlayerStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRankIndex serves Rating from an in-memory sorted index that is kept
// current on every update instead of loading and sorting on each read.
func WithRankIndex(enabled bool) Option {
	return func(s *PlayerStore) {
		s.useIndex = enabled
	}
}
