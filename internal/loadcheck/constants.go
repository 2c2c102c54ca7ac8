package loadcheck

import "time"

// HTTP status code constants.
const (
	StatusOK = 200
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	progressInterval        = time.Second
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)
