// Package background is the process on the far side of the message
// boundary. It answers ANALYZE_CHART by calling the AI analyzer and logs
// LOG_ACTION payloads.
package background

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/ai"
	"github.com/dtnitsch/chartbuddy/pkg/caching"
)

// Handler dispatches envelopes by type.
type Handler struct {
	analyzer ai.Analyzer
	cache    *caching.Cache
	logger   *slog.Logger

	// FallbackOnError answers failed analyses with ai.FallbackResult
	// instead of an error envelope.
	FallbackOnError bool
}

// NewHandler creates a handler. cache may be nil.
func NewHandler(analyzer ai.Analyzer, cache *caching.Cache, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{analyzer: analyzer, cache: cache, logger: logger}
}

// Handle implements messaging.Handler.
func (h *Handler) Handle(ctx context.Context, req models.Request) models.Response {
	switch req.Type {
	case models.MessageAnalyzeChart:
		return h.analyze(ctx, req)
	case models.MessageLogAction:
		h.logger.Info("action logged", "id", req.ID, "payload", string(req.Payload))
		return models.Response{Success: true, Status: "logged"}
	default:
		h.logger.Warn("unknown message type", "type", req.Type, "id", req.ID)
		return models.Response{Success: false, Error: fmt.Sprintf("unknown message type: %s", req.Type)}
	}
}

func (h *Handler) analyze(ctx context.Context, req models.Request) models.Response {
	var cc models.ChartContext
	if err := json.Unmarshal(req.Payload, &cc); err != nil {
		h.logger.Warn("invalid chart context", "id", req.ID, "error", err)
		return models.Response{Success: false, Error: "invalid chart context"}
	}
	cc = cc.Capped()

	if h.cache != nil {
		if res, ok := h.cache.Get(cc); ok {
			h.logger.Info("analysis cache hit", "id", req.ID, "chart_type", cc.ChartType)
			return models.Response{Success: true, Result: &res}
		}
	}

	if h.analyzer == nil {
		return h.failure(req.ID, fmt.Errorf("no analyzer configured"))
	}

	res, err := h.analyzer.Analyze(ctx, cc)
	if err != nil {
		return h.failure(req.ID, err)
	}
	res = res.Normalized()

	if h.cache != nil {
		if err := h.cache.Set(cc, res); err != nil {
			h.logger.Warn("failed to cache analysis", "id", req.ID, "error", err)
		}
	}
	return models.Response{Success: true, Result: &res}
}

func (h *Handler) failure(id string, err error) models.Response {
	h.logger.Error("analysis failed", "id", id, "error", err, "fallback", h.FallbackOnError)
	if h.FallbackOnError {
		fb := ai.FallbackResult()
		return models.Response{Success: true, Result: &fb}
	}
	return models.Response{Success: false, Error: err.Error()}
}
