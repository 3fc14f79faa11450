package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/chartbuddy/models"
)

var svgContext = models.ChartContext{
	Title:         "Sales Dashboard",
	URL:           "https://example.com/sales",
	ChartType:     models.ChartTypeSVG,
	Labels:        []string{"Jan", "Feb"},
	ExtractedText: []string{"Metadata: Revenue", "Detected 3 scatter points."},
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(svgContext)
	assert.Contains(t, p, "Page Title: Sales Dashboard")
	assert.Contains(t, p, "URL: https://example.com/sales")
	assert.Contains(t, p, "Chart Type: SVG")
	assert.Contains(t, p, "Extracted Data/Labels: Jan, Feb")
	assert.Contains(t, p, "Nearby Text: Metadata: Revenue Detected 3 scatter points.")

	empty := BuildPrompt(models.ChartContext{ChartType: models.ChartTypeUnknown})
	assert.Contains(t, empty, "Extracted Data/Labels: None found")
}

func TestDetectLanguage_ShortText(t *testing.T) {
	assert.Equal(t, "", DetectLanguage(models.ChartContext{Labels: []string{"Q1"}}))
}

func TestDetectLanguage_German(t *testing.T) {
	cc := models.ChartContext{Labels: []string{
		"Umsatz im dritten Quartal",
		"Die Kosten sind im Vergleich zum Vorjahr gestiegen",
	}}
	assert.Equal(t, "German", DetectLanguage(cc))
	assert.Contains(t, BuildPrompt(cc), "write the summary and insights in German")
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    models.AnalysisResult
		wantErr bool
	}{
		{
			name: "plain json",
			text: `{"summary":"Up","insights":["a","b"],"confidence":0.8}`,
			want: models.AnalysisResult{Summary: "Up", Insights: []string{"a", "b"}, Confidence: 0.8},
		},
		{
			name: "fenced json with out-of-range confidence",
			text: "```json\n{\"summary\":\"Down\",\"insights\":[],\"confidence\":-3}\n```",
			want: models.AnalysisResult{Summary: "Down", Insights: []string{}, Confidence: 0},
		},
		{name: "empty", text: "  ", wantErr: true},
		{name: "not json", text: "The chart shows growth", wantErr: true},
		{name: "no summary", text: `{"insights":["a"]}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResult(tt.text)
			if tt.wantErr {
				var cerr *ClientError
				require.ErrorAs(t, err, &cerr)
				assert.Equal(t, ErrTypeInvalidResponse, cerr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Analyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.False(t, req.Stream)
		assert.True(t, strings.Contains(req.Prompt, "Sales Dashboard"))
		assert.NotEmpty(t, req.Format)

		_ = json.NewEncoder(w).Encode(generateResponse{
			Model:    req.Model,
			Response: `{"summary":"Monthly sales","insights":["Feb beat Jan"],"confidence":0.9}`,
			Done:     true,
		})
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL, Model: "test-model"})
	res, err := c.Analyze(context.Background(), svgContext)
	require.NoError(t, err)
	assert.Equal(t, "Monthly sales", res.Summary)
	assert.Equal(t, []string{"Feb beat Jan"}, res.Insights)
	assert.Equal(t, 0.9, res.Confidence)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "model missing", status: http.StatusNotFound, wantErr: ErrModelNotFound},
		{name: "server error message", status: http.StatusInternalServerError, body: `{"error":"out of memory"}`, wantMsg: "out of memory"},
		{name: "bad model output", status: http.StatusOK, body: `{"response":"not json"}`, wantMsg: "failed to parse model output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(&ClientConfig{BaseURL: srv.URL}).Analyze(context.Background(), svgContext)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClient_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(&ClientConfig{BaseURL: url}).Analyze(context.Background(), svgContext)
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestFallbackResult(t *testing.T) {
	fb := FallbackResult()
	assert.Equal(t, 0.0, fb.Confidence)
	assert.Len(t, fb.Insights, 3)
}
