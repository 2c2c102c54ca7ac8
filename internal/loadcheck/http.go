package loadcheck

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/rating/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// submitPlayers posts every player to /update_score using a worker pool.
func submitPlayers(ctx context.Context, config *Config, client *HTTPClient, players []Player, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting updates", logger.Int("updates", len(players)), logger.Int("workers", config.Workers))

	url := config.BaseURL + "/update_score"
	var submitted, ok, failed atomic.Int64
	var lastReport atomic.Int64

	playerChan := make(chan Player, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range playerChan {
				if err := submitSingle(ctx, client, url, p); err != nil {
					failed.Add(1)
					if config.Verbose {
						log.Warn(ctx, "update failed", logger.String("user_id", p.UserID), logger.Error(err))
					}
				} else {
					ok.Add(1)
				}
				total := submitted.Add(1)

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(progressInterval) && lastReport.CompareAndSwap(last, now) {
					log.Info(ctx, "submission progress",
						logger.Any("submitted", total),
						logger.Int("of", len(players)),
						logger.Any("failed", failed.Load()))
				}
			}
		}()
	}

	go func() {
		defer close(playerChan)
		for _, p := range players {
			select {
			case <-ctx.Done():
				return
			case playerChan <- p:
			}
		}
	}()

	wg.Wait()

	stats.UpdatesSubmitted += int(submitted.Load())
	stats.UpdatesOK += int(ok.Load())
	stats.UpdatesFailed += int(failed.Load())

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("submission interrupted: %w", err)
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%w: %d of %d", ErrSubmitFailed, n, len(players))
	}
	return nil
}

// submitSingle posts one player and checks for {"status":"ok"}.
func submitSingle(ctx context.Context, client *HTTPClient, url string, p Player) error {
	resp, err := client.Post(ctx, url, p)
	if err != nil {
		return err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	var ack struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &ack); err != nil || ack.Status != "ok" {
		return fmt.Errorf("unexpected acknowledgement: %s", bytes.TrimSpace(body))
	}
	return nil
}

// fetchRating retrieves the full /rating array.
func fetchRating(ctx context.Context, client *HTTPClient, baseURL string) ([]Entry, error) {
	resp, err := client.Get(ctx, baseURL+"/rating")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rating: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read rating: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("rating failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode rating: %w", err)
	}
	return entries, nil
}
