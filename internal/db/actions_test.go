package db

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dtnitsch/chartbuddy/models"
)

func TestParseAnalysisID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{" #7 ", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAnalysisID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseAnalysisID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseAnalysisID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWriteResult(t *testing.T) {
	cc := models.ChartContext{Title: "Sales", ChartType: models.ChartTypeSVG, Labels: []string{"Q1"}}
	res := models.AnalysisResult{Summary: "Up and to the right", Insights: []string{"Q1 leads"}, Confidence: 0.8}

	tests := []struct {
		format string
		want   []string
	}{
		{"json", []string{`"chartType": "SVG"`, `"summary": "Up and to the right"`}},
		{"yaml", []string{"chart_type: SVG", "summary: Up and to the right", "  - Q1 leads"}},
		{"text", []string{"Sales", "Up and to the right", "Q1 leads"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeResult(&buf, tt.format, cc, res); err != nil {
				t.Fatalf("writeResult failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}
