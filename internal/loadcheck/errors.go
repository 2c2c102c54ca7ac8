package loadcheck

import "errors"

// Verification failure kinds.
var (
	ErrLostUpdate   = errors.New("lost update")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrUnexpected   = errors.New("unexpected entry")
	ErrStaleRecord  = errors.New("stale record")
	ErrOrder        = errors.New("rating out of order")
	ErrRank         = errors.New("wrong rank")
	ErrSubmitFailed = errors.New("update submission failed")
)
