package loadcheck

import "time"

// Config holds configuration for a load check run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Players    int           // Number of distinct players to generate
	Rounds     int           // Score rounds per player; later rounds overwrite earlier ones
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional file receiving the final expected table
	Verbose    bool          // Enable verbose logging
}

// Player is one submitted record, in the /update_score request shape.
type Player struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
}

// Entry mirrors one row of the /rating response.
type Entry struct {
	Rank   int     `json:"rank"`
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
}

// Stats holds run statistics.
type Stats struct {
	PlayersGenerated int
	UpdatesSubmitted int
	UpdatesOK        int
	UpdatesFailed    int
	RatingEntries    int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
