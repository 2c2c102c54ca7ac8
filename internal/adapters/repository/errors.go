package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for player store errors.
var (
	// ErrStorage is matched by every StorageError.
	ErrStorage = errors.New("player storage failure")
	// ErrCorrupt marks persisted content that cannot be decoded.
	ErrCorrupt = errors.New("corrupt player table")
)

// StorageError reports an unreadable or unwritable player table.
type StorageError struct {
	Op       string // load or save
	Location string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Location, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports kind equality with ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
