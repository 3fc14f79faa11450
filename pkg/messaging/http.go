package messaging

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

	"github.com/dtnitsch/chartbuddy/models"
)

const (
	// MessagePath is the background server endpoint for envelopes.
	MessagePath = "/message"

	// maxResponseSize bounds the decoded response body.
	maxResponseSize = 1 << 20
)

// HTTPChannel posts envelopes to a background server.
type HTTPChannel struct {
	baseURL string
	client  *http.Client
}

// NewHTTPChannel creates a channel for the server at baseURL.
// A zero timeout means 90 seconds.
func NewHTTPChannel(baseURL string, timeout time.Duration) *HTTPChannel {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &HTTPChannel{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPChannel) Send(ctx context.Context, req models.Request) (models.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+MessagePath, bytes.NewReader(body))
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		// A slow background is still there; only an unreachable one is unavailable.
		if isTimeout(err) || errors.Is(err, context.Canceled) {
			return models.Response{}, fmt.Errorf("failed to get background response: %w", err)
		}
		return models.Response{}, fmt.Errorf("%w: %v", ErrChannelUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var out models.Response
	if err := json.Unmarshal(data, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return models.Response{}, fmt.Errorf("background returned status %d", resp.StatusCode)
		}
		return models.Response{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
