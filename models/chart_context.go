package models

const (
	// MaxLabels caps ChartContext.Labels.
	MaxLabels = 15
	// MaxExtractedText caps ChartContext.ExtractedText.
	MaxExtractedText = 10
)

// ChartType is the coarse classification of a drop target.
type ChartType string

const (
	ChartTypeSVG     ChartType = "SVG"
	ChartTypeCanvas  ChartType = "Canvas"
	ChartTypeUnknown ChartType = "Unknown"
)

// Position is a pixel coordinate in viewport space.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Sub returns p - q.
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y}
}

// ChartContext is the bundle of page and element metadata harvested at drop time.
type ChartContext struct {
	Title         string    `json:"title" yaml:"title"`
	URL           string    `json:"url" yaml:"url"`
	ChartType     ChartType `json:"chartType" yaml:"chart_type"`
	X             int       `json:"x" yaml:"x"`
	Y             int       `json:"y" yaml:"y"`
	Labels        []string  `json:"labels" yaml:"labels"`
	ExtractedText []string  `json:"extractedText" yaml:"extracted_text"`
}

// Capped returns a copy with Labels and ExtractedText truncated to their limits.
// The returned slices never alias the receiver's.
func (c ChartContext) Capped() ChartContext {
	c.Labels = capStrings(c.Labels, MaxLabels)
	c.ExtractedText = capStrings(c.ExtractedText, MaxExtractedText)
	if c.ChartType == "" {
		c.ChartType = ChartTypeUnknown
	}
	return c
}

// HasSignals reports whether any labels or extracted text were found.
func (c ChartContext) HasSignals() bool {
	return len(c.Labels) > 0 || len(c.ExtractedText) > 0
}

func capStrings(in []string, max int) []string {
	if len(in) > max {
		in = in[:max]
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
