package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/boardsync/internal/model"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 16 << 20

const userAgent = "boardsync/1.0 (+https://github.com/amishk599/boardsync)"

// Client fetches public job board documents. No platform requires authentication.
type Client struct {
	client  *http.Client
	timeout time.Duration
}

var _ model.Fetcher = (*Client)(nil)

// NewClient creates a fetch client. Every call is bounded by timeout so one
// unreachable board cannot stall a run.
func NewClient(client *http.Client, timeout time.Duration) *Client {
	return &Client{
		client:  client,
		timeout: timeout,
	}
}

// Fetch GETs url and returns the body. Non-2xx responses become *model.HTTPError;
// bodies that are not valid JSON wrap model.ErrMalformedPayload.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("fetch %s: %w", url, model.ErrMalformedPayload)
	}
	return body, nil
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
