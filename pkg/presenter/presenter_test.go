package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtnitsch/chartbuddy/models"
)

func TestRender_HiddenUnlessComplete(t *testing.T) {
	cc := &models.ChartContext{Title: "t", ChartType: models.ChartTypeSVG}
	res := &models.AnalysisResult{Summary: "s"}

	tests := []struct {
		name string
		view View
	}{
		{"overlay hidden", View{ShowOverlay: false, Context: cc, Analysis: res}},
		{"no context", View{ShowOverlay: true, Analysis: res}},
		{"no analysis", View{ShowOverlay: true, Context: cc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.view.Visible())
			assert.Empty(t, Render(tt.view))
		})
	}
}

func TestRender_Contents(t *testing.T) {
	v := View{
		ShowOverlay: true,
		Context: &models.ChartContext{
			Title:         "Quarterly Revenue",
			URL:           "https://example.com/q",
			ChartType:     models.ChartTypeCanvas,
			Labels:        []string{"Q3 Revenue: $4.2M"},
			ExtractedText: []string{"Detected 4 scatter points."},
		},
		Analysis: &models.AnalysisResult{
			Summary:    "Revenue grows each quarter",
			Insights:   []string{"Q3 is the peak", "Q1 is flat"},
			Confidence: 0.82,
		},
	}

	out := Render(v)
	assert.Contains(t, out, "[C] Quarterly Revenue")
	assert.Contains(t, out, "https://example.com/q")
	assert.Contains(t, out, "Revenue grows each quarter")
	assert.Contains(t, out, "1. Q3 is the peak")
	assert.Contains(t, out, "2. Q1 is flat")
	assert.Contains(t, out, "confidence 82%")
	assert.Contains(t, out, "DETECTED SIGNALS")
	assert.Contains(t, out, "Q3 Revenue: $4.2M")
}

func TestRender_NoSignalsSection(t *testing.T) {
	out := Render(View{
		ShowOverlay: true,
		Context:     &models.ChartContext{Title: "Plain", ChartType: models.ChartTypeUnknown},
		Analysis:    &models.AnalysisResult{Summary: "Nothing found"},
	})
	assert.Contains(t, out, "[U] Plain")
	assert.NotContains(t, out, "DETECTED SIGNALS")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}
