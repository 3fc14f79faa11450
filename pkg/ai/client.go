package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dtnitsch/chartbuddy/models"
)

// maxResponseSize bounds the model server reply.
const maxResponseSize = 10 * 1024 * 1024

// ClientConfig holds configuration options for the model client.
type ClientConfig struct {
	// BaseURL is the Ollama API base URL (default: http://127.0.0.1:11434)
	BaseURL string
	// Model is the model name (default: "qwen2.5:7b")
	Model string
	// Timeout for a single generate call (default: 60s)
	Timeout time.Duration
	Logger  *slog.Logger
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:11434",
		Model:   "qwen2.5:7b",
		Timeout: 60 * time.Second,
	}
}

// Client calls an Ollama-compatible /api/generate endpoint.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client, filling zero values from DefaultClientConfig.
func NewClient(config *ClientConfig) *Client {
	defaults := DefaultClientConfig()
	if config == nil {
		config = defaults
	}
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  json.RawMessage `json:"format,omitempty"`
	Options *options        `json:"options,omitempty"`
}

type options struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type serverError struct {
	Error string `json:"error"`
}

// Analyze implements Analyzer.
func (c *Client) Analyze(ctx context.Context, cc models.ChartContext) (models.AnalysisResult, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.config.Model,
		Prompt:  BuildPrompt(cc),
		Stream:  false,
		Format:  resultSchema,
		Options: &options{Temperature: 0.2},
	})
	if err != nil {
		return models.AnalysisResult{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.config.BaseURL, "/")+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return models.AnalysisResult{}, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return models.AnalysisResult{}, ErrTimeout
		}
		return models.AnalysisResult{}, &ClientError{Type: ErrTypeNotRunning, Message: ErrNotRunning.Message, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.AnalysisResult{}, ErrModelNotFound
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return models.AnalysisResult{}, &ClientError{Type: ErrTypeConnection, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		var se serverError
		if err := json.Unmarshal(data, &se); err == nil && se.Error != "" {
			return models.AnalysisResult{}, &ClientError{Type: ErrTypeInvalidResponse, Message: se.Error}
		}
		return models.AnalysisResult{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "generate request failed: " + resp.Status}
	}

	var gen generateResponse
	if err := json.Unmarshal(data, &gen); err != nil {
		return models.AnalysisResult{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	res, err := ParseResult(gen.Response)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	c.logger.Info("analysis complete",
		"target", describe(cc),
		"model", c.config.Model,
		"insights", len(res.Insights),
		"confidence", res.Confidence,
		"elapsed", time.Since(start).String())
	return res, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
