package extractor

import (
	"strings"
	"sync"
	"time"

	"github.com/dtnitsch/chartbuddy/pkg/dom"
)

const (
	// DefaultHighlightDuration is how long a drop target stays outlined.
	DefaultHighlightDuration = 2 * time.Second

	highlightOutline = "4px solid #3b82f6"
)

// Highlighter outlines a drop target as user feedback.
type Highlighter struct {
	Duration time.Duration
	// After schedules f after d. Defaults to time.AfterFunc.
	After func(d time.Duration, f func())
}

// Highlight outlines el and schedules the revert. It returns the revert
// func (idempotent) so callers can also run it early. Nodes that cannot be
// mutated are left alone and a no-op revert is returned.
func (h *Highlighter) Highlight(el dom.Node) func() {
	m, ok := el.(dom.Mutable)
	if !ok {
		return func() {}
	}

	original, had := el.Attr("style")
	m.SetAttr("style", withOutline(original, highlightOutline))

	var once sync.Once
	revert := func() {
		once.Do(func() {
			if had {
				m.SetAttr("style", original)
			} else {
				m.RemoveAttr("style")
			}
		})
	}

	d := h.Duration
	if d <= 0 {
		d = DefaultHighlightDuration
	}
	after := h.After
	if after == nil {
		after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	after(d, revert)

	return revert
}

// withOutline sets the outline declaration in an inline style, replacing any existing one.
func withOutline(style, outline string) string {
	var decls []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		k, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(k), "outline") {
			continue
		}
		decls = append(decls, decl)
	}
	decls = append(decls, "outline: "+outline)
	return strings.Join(decls, "; ")
}
