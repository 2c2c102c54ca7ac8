package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/rating/internal/loadcheck"
)

// Default configuration constants.
const (
	defaultPlayers     = 1000
	defaultRounds      = 2
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8000", "Base URL of the service")
		players    = flag.Int("players", defaultPlayers, "Number of distinct players")
		rounds     = flag.Int("rounds", defaultRounds, "Score rounds per player")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write the final expected records to this file")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadcheck.ShowHelp(os.Stdout)
		return
	}

	closer, err := loadcheck.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config := &loadcheck.Config{
		BaseURL:    *baseURL,
		Players:    *players,
		Rounds:     *rounds,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := loadcheck.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Load check failed: " + err.Error() + "\n")
		stop()
		cancel()
		_ = closer.Close()
		os.Exit(1)
	}
}
