package loadcheck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/rating/pkg/logger"
)

// Run executes the complete load check and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	if config.Players < 1 || config.Workers < 1 || config.Rounds < 1 {
		return stats, fmt.Errorf("players, workers and rounds must be positive")
	}
	log := logger.Get()

	log.Info(ctx, "starting rating load check",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.Players),
		logger.Int("rounds", config.Rounds),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config.BaseURL); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Entries already present before the run are tolerated but not verified.
	before, err := fetchRating(ctx, client, config.BaseURL)
	if err != nil {
		return stats, err
	}

	// Step 2: Generate players and submit every round
	players := generatePlayers(ctx, config.Players)
	stats.PlayersGenerated = len(players)
	for round := 1; round <= config.Rounds; round++ {
		if round > 1 {
			players = rescore(players, round)
		}
		log.Info(ctx, "submitting round", logger.Int("round", round))
		if err := submitPlayers(ctx, config, client, players, stats); err != nil {
			return stats, fmt.Errorf("round %d: %w", round, err)
		}
	}

	// Step 3: Fetch and verify the rating
	rating, err := fetchRating(ctx, client, config.BaseURL)
	if err != nil {
		return stats, err
	}
	stats.RatingEntries = len(rating)

	expected := make(map[string]Player, len(players))
	for _, p := range players {
		expected[p.UserID] = p
	}
	if err := verifyRating(expected, rating, len(before) > 0); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}
	log.Info(ctx, "rating verified", logger.Int("entries", len(rating)))

	if config.OutputFile != "" {
		if err := savePlayers(ctx, config.OutputFile, players); err != nil {
			log.Warn(ctx, "failed to save players to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// checkServiceHealth verifies the service answers /healthz.
func checkServiceHealth(ctx context.Context, client *HTTPClient, baseURL string) error {
	resp, err := client.Get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

// savePlayers writes the final expected records as JSON.
func savePlayers(ctx context.Context, filename string, players []Player) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(players, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal players: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write players: %w", err)
	}
	logger.Get().Info(ctx, "players saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.UpdatesSubmitted) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("playersGenerated", stats.PlayersGenerated),
		logger.Int("updatesSubmitted", stats.UpdatesSubmitted),
		logger.Int("updatesOK", stats.UpdatesOK),
		logger.Int("updatesFailed", stats.UpdatesFailed),
		logger.Int("ratingEntries", stats.RatingEntries),
		logger.Duration("duration", stats.Duration),
		logger.Float64("updatesPerSecond", perSecond))
}
