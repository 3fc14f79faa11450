package models

import "math"

// AnalysisResult is the structured reply of the analysis boundary.
type AnalysisResult struct {
	Summary    string   `json:"summary" yaml:"summary"`
	Insights   []string `json:"insights" yaml:"insights"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
}

// Normalized returns a copy with Confidence clamped to [0,1] (NaN becomes 0)
// and a non-nil Insights slice.
func (r AnalysisResult) Normalized() AnalysisResult {
	switch {
	case math.IsNaN(r.Confidence), r.Confidence < 0:
		r.Confidence = 0
	case r.Confidence > 1:
		r.Confidence = 1
	}
	insights := make([]string, len(r.Insights))
	copy(insights, r.Insights)
	r.Insights = insights
	return r
}
