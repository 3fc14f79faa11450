package extractor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/dom"
)

var testPage = PageInfo{Title: "Quarterly Report", URL: "https://example.com/report"}

func mustParse(t *testing.T, html string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(html)
	require.NoError(t, err)
	return doc
}

func TestExtract_SVGLabelCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<html><body><svg id="chart">`)
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&sb, `<text>Label %d</text>`, i)
	}
	sb.WriteString(`</svg></body></html>`)
	doc := mustParse(t, sb.String())

	ctx := ChartExtractor{}.Extract(doc.Find("#chart")[0], testPage, models.Position{X: 10, Y: 20})

	assert.Equal(t, models.ChartTypeSVG, ctx.ChartType)
	require.Len(t, ctx.Labels, models.MaxLabels)
	for i, l := range ctx.Labels {
		assert.Equal(t, fmt.Sprintf("Label %d", i+1), l)
	}
	assert.Equal(t, "Quarterly Report", ctx.Title)
	assert.Equal(t, "https://example.com/report", ctx.URL)
	assert.Equal(t, 10, ctx.X)
	assert.Equal(t, 20, ctx.Y)
}

func TestExtract_SVGSignals(t *testing.T) {
	doc := mustParse(t, `<html><body>
<svg id="chart">
  <title> Revenue by month </title>
  <desc>Line chart</desc>
  <g class="chart-Series-A"><text>Jan</text><text> Feb </text><tspan>Jan</tspan><text>   </text></g>
  <g class="axis"><text>Mar</text></g>
  <g class="series-long"><text>abcdefghijklmnopqrstuvwxyz0123456789</text></g>
  <circle r="1"></circle><circle r="1"></circle><circle r="1"></circle>
</svg></body></html>`)

	// Drop on a nested element: the svg ancestor is used.
	target := doc.Find("g.axis text")[0]
	ctx := ChartExtractor{}.Extract(target, testPage, models.Position{})

	assert.Equal(t, models.ChartTypeSVG, ctx.ChartType)
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "abcdefghijklmnopqrstuvwxyz0123456789"}, ctx.Labels)
	assert.Equal(t, []string{
		"Metadata: Revenue by month",
		"Metadata: Line chart",
		"Detected 3 scatter points.",
		"Series: Jan Feb Jan",
		"Series: abcdefghijklmnopqrstuvwxyz0123",
	}, ctx.ExtractedText)
}

func TestExtract_ExtractedTextCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<html><body><svg id="chart">`)
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&sb, `<desc>note %d</desc>`, i)
	}
	sb.WriteString(`</svg></body></html>`)
	doc := mustParse(t, sb.String())

	ctx := ChartExtractor{}.Extract(doc.Find("#chart")[0], testPage, models.Position{})
	require.Len(t, ctx.ExtractedText, models.MaxExtractedText)
	assert.Equal(t, "Metadata: note 0", ctx.ExtractedText[0])
	assert.Equal(t, "Metadata: note 9", ctx.ExtractedText[9])
}

func TestExtract_CanvasTooltip(t *testing.T) {
	doc := mustParse(t, `<html><body>
<div class="wrap">
  <canvas id="c"></canvas>
  <div role="tooltip"> Q3 Revenue: $4.2M </div>
  <div><span class="chart-tooltip">Q4 Revenue: $5.0M</span></div>
  <div class="chart-tooltip-extra">ignored</div>
</div>
<div role="tooltip">outside parent</div>
</body></html>`)

	ctx := ChartExtractor{}.Extract(doc.Find("#c")[0], testPage, models.Position{})

	assert.Equal(t, models.ChartTypeCanvas, ctx.ChartType)
	assert.Equal(t, []string{"Q3 Revenue: $4.2M", "Q4 Revenue: $5.0M"}, ctx.Labels)
	assert.Empty(t, ctx.ExtractedText)
}

func TestExtract_Unknown(t *testing.T) {
	doc := mustParse(t, `<html><body><p id="p">Just text</p></body></html>`)

	tests := []struct {
		name string
		el   dom.Node
	}{
		{"plain element", doc.Find("#p")[0]},
		{"no element", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ChartExtractor{}.Extract(tt.el, testPage, models.Position{X: 1, Y: 2})
			assert.Equal(t, models.ChartTypeUnknown, ctx.ChartType)
			assert.Empty(t, ctx.Labels)
			assert.Empty(t, ctx.ExtractedText)
			assert.Equal(t, testPage.Title, ctx.Title)
			assert.False(t, ctx.HasSignals())
		})
	}
}

func TestExtract_HandBuiltTree(t *testing.T) {
	canvas := dom.NewElement("CANVAS", nil, "")
	dom.NewElement("div", nil, "",
		canvas,
		dom.NewElement("span", map[string]string{"class": "chart-tooltip"}, "Peak: 42"),
	)

	ctx := ChartExtractor{}.Extract(canvas, testPage, models.Position{})
	assert.Equal(t, models.ChartTypeCanvas, ctx.ChartType)
	assert.Equal(t, []string{"Peak: 42"}, ctx.Labels)
}
