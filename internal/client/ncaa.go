package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"sportschat/ingestion/internal/metrics"
	"sportschat/ingestion/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrBoxScoreNotReady is returned when the feed answers 404 for a box
// score. The box score simply has not been published yet; callers treat
// this as a normal pending outcome, not a failure.
var ErrBoxScoreNotReady = errors.New("box score not yet published")

// Client talks to the NCAA tournament data feed.
type Client struct {
	baseURL        string
	scoreboardPath string
	httpClient     *http.Client
	limiter        *rate.Limiter
}

// NewClient creates a feed client. Requests are rate limited so a burst of
// box-score fetches cannot hammer the upstream API.
func NewClient(baseURL, scoreboardPath string, timeout time.Duration) *Client {
	return &Client{
		baseURL:        baseURL,
		scoreboardPath: scoreboardPath,
		limiter:        rate.NewLimiter(rate.Limit(5), 10),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a rate-limited GET and returns the body and status code.
// Non-2xx statuses are returned to the caller undecoded; feed errors are
// never retried within a cycle.
func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "sportschat-ingestion/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordFeedCall(path, "error", time.Since(start).Seconds())
		return nil, 0, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordFeedCall(path, "error", time.Since(start).Seconds())
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	metrics.RecordFeedCall(path, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("size", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Feed request complete")

	return body, resp.StatusCode, nil
}

// FetchScoreboard fetches the tournament scoreboard.
func (c *Client) FetchScoreboard(ctx context.Context) (*models.ScoreboardResponse, error) {
	body, status, err := c.get(ctx, c.scoreboardPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("scoreboard returned status %d", status)
	}

	var scoreboard models.ScoreboardResponse
	if err := json.Unmarshal(body, &scoreboard); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scoreboard: %w", err)
	}

	return &scoreboard, nil
}

// FetchBoxScore fetches the box score for a game given the relative game
// URL from the scoreboard feed. A 404 maps to ErrBoxScoreNotReady; any
// other failure is a plain error.
func (c *Client) FetchBoxScore(ctx context.Context, gameURL string) (*models.BoxScoreResponse, error) {
	if gameURL == "" {
		return nil, fmt.Errorf("no game URL provided")
	}

	body, status, err := c.get(ctx, gameURL+"/boxscore")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch box score: %w", err)
	}
	switch {
	case status == http.StatusNotFound:
		return nil, ErrBoxScoreNotReady
	case status != http.StatusOK:
		return nil, fmt.Errorf("box score returned status %d", status)
	}

	var boxScore models.BoxScoreResponse
	if err := json.Unmarshal(body, &boxScore); err != nil {
		return nil, fmt.Errorf("failed to unmarshal box score: %w", err)
	}

	return &boxScore, nil
}
