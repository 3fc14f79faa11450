package background

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/ai"
	"github.com/dtnitsch/chartbuddy/pkg/caching"
	"github.com/dtnitsch/chartbuddy/pkg/messaging"
)

type stubAnalyzer struct {
	calls int
	res   models.AnalysisResult
	err   error
}

func (s *stubAnalyzer) Analyze(context.Context, models.ChartContext) (models.AnalysisResult, error) {
	s.calls++
	return s.res, s.err
}

func analyzeRequest(t *testing.T, cc models.ChartContext) models.Request {
	t.Helper()
	req, err := models.NewRequest(models.MessageAnalyzeChart, "req-1", cc)
	require.NoError(t, err)
	return req
}

func TestHandle_Analyze(t *testing.T) {
	stub := &stubAnalyzer{res: models.AnalysisResult{Summary: "ok", Insights: []string{"a"}, Confidence: 2}}
	h := NewHandler(stub, nil, nil)

	resp := h.Handle(context.Background(), analyzeRequest(t, models.ChartContext{Title: "t"}))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "ok", resp.Result.Summary)
	assert.Equal(t, 1.0, resp.Result.Confidence)
}

func TestHandle_AnalyzeFailure(t *testing.T) {
	stub := &stubAnalyzer{err: ai.ErrModelNotFound}
	h := NewHandler(stub, nil, nil)

	resp := h.Handle(context.Background(), analyzeRequest(t, models.ChartContext{}))
	assert.False(t, resp.Success)
	assert.Equal(t, "model not found", resp.Error)
	assert.Nil(t, resp.Result)

	h.FallbackOnError = true
	resp = h.Handle(context.Background(), analyzeRequest(t, models.ChartContext{}))
	require.True(t, resp.Success)
	assert.Equal(t, ai.FallbackResult(), *resp.Result)
}

func TestHandle_Cache(t *testing.T) {
	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	require.NoError(t, err)
	stub := &stubAnalyzer{res: models.AnalysisResult{Summary: "cached", Insights: []string{}}}
	h := NewHandler(stub, cache, nil)

	cc := models.ChartContext{Title: "t", Labels: []string{"x"}}
	for i := 0; i < 3; i++ {
		resp := h.Handle(context.Background(), analyzeRequest(t, cc))
		require.True(t, resp.Success)
		assert.Equal(t, "cached", resp.Result.Summary)
	}
	assert.Equal(t, 1, stub.calls)
}

func TestHandle_OtherMessages(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	resp := h.Handle(context.Background(), models.Request{Type: models.MessageLogAction, Payload: json.RawMessage(`{"a":1}`)})
	assert.True(t, resp.Success)
	assert.Equal(t, "logged", resp.Status)

	resp = h.Handle(context.Background(), models.Request{Type: "TOGGLE_UI"})
	assert.False(t, resp.Success)
	assert.Equal(t, "unknown message type: TOGGLE_UI", resp.Error)

	resp = h.Handle(context.Background(), models.Request{Type: models.MessageAnalyzeChart, Payload: json.RawMessage(`"nope"`)})
	assert.False(t, resp.Success)

	resp = h.Handle(context.Background(), analyzeRequest(t, models.ChartContext{}))
	assert.False(t, resp.Success)
	assert.Equal(t, "no analyzer configured", resp.Error)
}

func TestMux_RoundTrip(t *testing.T) {
	stub := &stubAnalyzer{res: models.AnalysisResult{Summary: "over http", Insights: []string{"i"}, Confidence: 0.3}}
	srv := httptest.NewServer(NewMux(NewHandler(stub, nil, nil)))
	defer srv.Close()

	requester := messaging.NewRequester(messaging.NewHTTPChannel(srv.URL, time.Second), nil)
	res, err := requester.Analyze(context.Background(), models.ChartContext{Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, "over http", res.Summary)

	stub.err = errors.New("backend down")
	_, err = requester.Analyze(context.Background(), models.ChartContext{Title: "t"})
	var aerr *messaging.AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "backend down", aerr.Message)
}

func TestMux_Health(t *testing.T) {
	srv := httptest.NewServer(NewMux(NewHandler(nil, nil, nil)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	bad, err := http.Post(srv.URL+messaging.MessagePath, "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}
