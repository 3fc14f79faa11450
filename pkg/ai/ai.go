// Package ai is the analysis boundary: it turns a chart context into a
// prompt, calls an Ollama-compatible model and parses the structured reply.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dtnitsch/chartbuddy/models"
)

// Analyzer produces an analysis for a chart context.
type Analyzer interface {
	Analyze(ctx context.Context, cc models.ChartContext) (models.AnalysisResult, error)
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeModelNotFound
	ErrTypeConnection
	ErrTypeInvalidResponse
)

// ClientError represents an error from the model client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type.
func (e *ClientError) Is(target error) bool {
	var t *ClientError
	if !errors.As(target, &t) {
		return false
	}
	return t.Type == e.Type
}

// Sentinel errors for easy checking.
var (
	ErrNotRunning    = &ClientError{Type: ErrTypeNotRunning, Message: "model server is not running"}
	ErrTimeout       = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrModelNotFound = &ClientError{Type: ErrTypeModelNotFound, Message: "model not found"}
)

// FallbackResult is the canned reply shown when the model cannot be reached
// and the caller prefers something over nothing.
func FallbackResult() models.AnalysisResult {
	return models.AnalysisResult{
		Summary: "This is a sample explanation. (Error connecting to AI backend)",
		Insights: []string{
			"Could not parse specific data",
			"Try dragging to a clearer part of the chart",
			"Verify if the chart has accessible text labels",
		},
		Confidence: 0,
	}
}

// ParseResult decodes the model's JSON reply. Markdown code fences around
// the JSON are tolerated.
func ParseResult(text string) (models.AnalysisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.AnalysisResult{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "no text returned from model"}
	}
	text = stripFences(text)

	var res models.AnalysisResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return models.AnalysisResult{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to parse model output", Cause: err}
	}
	if strings.TrimSpace(res.Summary) == "" {
		return models.AnalysisResult{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "model output has no summary"}
	}
	return res.Normalized(), nil
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// resultSchema is the JSON schema requested from the model.
var resultSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "summary": {"type": "string", "description": "A short summary of the chart."},
    "insights": {"type": "array", "items": {"type": "string"}, "description": "Key insights from the data."},
    "confidence": {"type": "number", "description": "Confidence score from 0 to 1."}
  },
  "required": ["summary", "insights", "confidence"]
}`)

func describe(cc models.ChartContext) string {
	return fmt.Sprintf("%s chart on %q", cc.ChartType, cc.Title)
}
