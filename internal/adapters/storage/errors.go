package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	// ErrNotExist means nothing has been written yet. It is the first-run
	// state, not a failure.
	ErrNotExist = errors.New("storage: blob does not exist")

	ErrUnknownDriver = errors.New("storage: unknown driver")
)
