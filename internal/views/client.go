package views

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRejected is returned when the server refuses a view report with a
// client error. Rejected reports must not be retried.
var ErrRejected = errors.New("view report rejected")

// Report describes one listening session to submit.
type Report struct {
	TrackID   int64
	SessionID string
	Duration  time.Duration
}

// Interface defines the view reporting contract for dependency injection and testing.
type Interface interface {
	Report(ctx context.Context, r Report) error
}

// Verify implementations satisfy Interface at compile time.
var (
	_ Interface = (*Client)(nil)
	_ Interface = (*Mock)(nil)
)

// Client submits view reports to the catalog server over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a view-report client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type reportPayload struct {
	SessionID       string `json:"sessionId"`
	DurationSeconds int64  `json:"viewDuration"`
}

// Report submits one listening session. A 2xx response means the view was
// counted. A 4xx response wraps ErrRejected; any other failure (transport
// error, 5xx) is returned as-is and may be retried.
func (c *Client) Report(ctx context.Context, r Report) error {
	body, err := json.Marshal(reportPayload{
		SessionID:       r.SessionID,
		DurationSeconds: int64(r.Duration.Seconds()),
	})
	if err != nil {
		return fmt.Errorf("encode view report: %w", err)
	}

	url := fmt.Sprintf("%s/api/tracks/%d/views", c.baseURL, r.TrackID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build view report: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post view report: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(msg)))
	default:
		return fmt.Errorf("post view report: unexpected status %d", resp.StatusCode)
	}
}
