// Package messaging carries chart contexts from the widget to the background
// process and maps its envelopes back to results or errors.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dtnitsch/chartbuddy/models"
)

// DefaultFailureMessage is used when the remote side gives no reason.
const DefaultFailureMessage = "AI analysis failed"

// ErrChannelUnavailable is returned by channels that can no longer deliver
// messages, e.g. after the owning context was invalidated.
var ErrChannelUnavailable = errors.New("messaging channel unavailable")

// Channel delivers one request and returns its response.
type Channel interface {
	Send(ctx context.Context, req models.Request) (models.Response, error)
}

// Handler answers requests on the background side.
type Handler interface {
	Handle(ctx context.Context, req models.Request) models.Response
}

// AnalysisError is the single error type returned by Requester.Analyze.
type AnalysisError struct {
	Message string
	// Unavailable is set when the channel itself is missing or invalidated.
	Unavailable bool
	Cause       error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// Requester sends ANALYZE_CHART requests. One attempt per call, no retries.
type Requester struct {
	Channel Channel
	Logger  *slog.Logger
}

// NewRequester creates a Requester over ch.
func NewRequester(ch Channel, logger *slog.Logger) *Requester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Requester{Channel: ch, Logger: logger}
}

// Analyze sends cc to the background process and waits for the result.
// Every failure is returned as *AnalysisError.
func (r *Requester) Analyze(ctx context.Context, cc models.ChartContext) (models.AnalysisResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if r.Channel == nil {
		return models.AnalysisResult{}, &AnalysisError{Message: DefaultFailureMessage, Unavailable: true, Cause: ErrChannelUnavailable}
	}

	id := uuid.New().String()
	req, err := models.NewRequest(models.MessageAnalyzeChart, id, cc)
	if err != nil {
		return models.AnalysisResult{}, &AnalysisError{Message: DefaultFailureMessage, Cause: fmt.Errorf("failed to encode chart context: %w", err)}
	}

	logger.Debug("sending analysis request", "id", id, "chart_type", cc.ChartType, "labels", len(cc.Labels))
	resp, err := r.Channel.Send(ctx, req)
	if err != nil {
		logger.Warn("analysis request failed", "id", id, "error", err)
		return models.AnalysisResult{}, &AnalysisError{
			Message:     DefaultFailureMessage,
			Unavailable: errors.Is(err, ErrChannelUnavailable),
			Cause:       err,
		}
	}

	if !resp.Success || resp.Result == nil {
		msg := resp.Error
		if msg == "" {
			msg = DefaultFailureMessage
		}
		logger.Warn("analysis rejected", "id", id, "error", msg)
		return models.AnalysisResult{}, &AnalysisError{Message: msg}
	}

	logger.Debug("analysis received", "id", id, "insights", len(resp.Result.Insights))
	return resp.Result.Normalized(), nil
}
