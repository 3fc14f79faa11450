// Package extractor harvests chart context from a drop target.
//
// The heuristics are best effort: they look at tag names, class names and
// text content only. Finding nothing is a valid outcome.
package extractor

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/dom"
)

// seriesSnippetLen is the rune limit for "Series: ..." entries.
const seriesSnippetLen = 30

// PageInfo carries the document-level fields attached to every context.
type PageInfo struct {
	Title string
	URL   string
}

// Extractor turns a resolved element into a ChartContext. el may be nil.
type Extractor interface {
	Extract(el dom.Node, page PageInfo, pos models.Position) models.ChartContext
}

// ChartExtractor classifies SVG and canvas charts and pulls nearby text.
type ChartExtractor struct{}

// Extract implements Extractor.
func (ChartExtractor) Extract(el dom.Node, page PageInfo, pos models.Position) models.ChartContext {
	labels := newLabelSet()
	var extracted []string
	chartType := models.ChartTypeUnknown

	if svg := dom.Closest(el, "svg"); svg != nil {
		chartType = models.ChartTypeSVG
		extracted = extractSVG(svg, labels)
	} else if dom.Is(el, "canvas") {
		chartType = models.ChartTypeCanvas
		extractCanvas(el, labels)
	}

	return models.ChartContext{
		Title:         page.Title,
		URL:           page.URL,
		ChartType:     chartType,
		X:             pos.X,
		Y:             pos.Y,
		Labels:        labels.items,
		ExtractedText: extracted,
	}.Capped()
}

func extractSVG(svg dom.Node, labels *labelSet) []string {
	var extracted []string

	for _, t := range dom.FindAll(svg, "text", "tspan") {
		labels.add(dom.TrimmedText(t))
	}

	for _, meta := range dom.FindAll(svg, "title", "desc") {
		if text := dom.TrimmedText(meta); text != "" {
			extracted = append(extracted, "Metadata: "+text)
		}
	}

	if circles := dom.FindAll(svg, "circle"); len(circles) > 0 {
		extracted = append(extracted, fmt.Sprintf("Detected %d scatter points.", len(circles)))
	}

	for _, g := range dom.FindAll(svg, "g") {
		if !strings.Contains(strings.ToLower(dom.ClassName(g)), "series") {
			continue
		}
		if text := dom.TrimmedText(g); text != "" {
			extracted = append(extracted, "Series: "+truncateRunes(text, seriesSnippetLen))
		}
	}

	return extracted
}

func extractCanvas(canvas dom.Node, labels *labelSet) {
	parent := canvas.Parent()
	if parent == nil {
		return
	}
	dom.Walk(parent, func(n dom.Node) {
		if isTooltip(n) {
			labels.add(dom.TrimmedText(n))
		}
	})
}

func isTooltip(n dom.Node) bool {
	if role, _ := n.Attr("role"); role == "tooltip" {
		return true
	}
	return dom.HasClass(n, "chart-tooltip")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// labelSet keeps unique non-empty strings in insertion order.
type labelSet struct {
	seen  map[string]struct{}
	items []string
}

func newLabelSet() *labelSet {
	return &labelSet{seen: make(map[string]struct{})}
}

func (s *labelSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
