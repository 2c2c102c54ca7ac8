package loadcheck

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/rating/pkg/logger"
)

// SetupLogging initializes the global logger, writing to stdout and, when
// logFile is set, to that file as well.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closer = f
	}
	if err := logger.Init(logger.WithWriter(w), logger.WithSource(false)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}

// ShowHelp prints usage information for the load check tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Rating Load Check
=================

Submits concurrent score updates and verifies that /rating reflects every
one of them: no lost updates, no duplicates, correct order and ranks.

Usage:
  go run ./cmd/loadcheck [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -players int
        Number of distinct players (default 1000)
  -rounds int
        Score rounds per player; rounds after the first overwrite (default 2)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write the final expected records to this file
  -log string
        Also write logs to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/loadcheck -players 5000 -workers 32
  go run ./cmd/loadcheck -url http://localhost:8080 -rounds 3 -verbose
`)
}
