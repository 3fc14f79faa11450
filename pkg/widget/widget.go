// Package widget implements the draggable overlay marker and the drop flow
// around it: resolve the element under the drop point, extract its chart
// context, request an analysis and keep the result for presentation.
//
// Nothing in this package is safe for concurrent mutation. The owner feeds
// pointer events and settles analyses from a single goroutine; only
// Overlay.Analyze may run elsewhere.
package widget

import (
	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/layout"
)

const (
	// Size is the widget's width and height in pixels.
	Size = 80
	// edgeMargin places the default position this far from the bottom-right corner.
	edgeMargin = 100
)

// Widget is the drag state machine: idle or dragging with a captured pointer.
type Widget struct {
	pos         models.Position
	dragging    bool
	offset      models.Position
	pointerID   int
	interactive bool
}

// New places the widget at the bottom-right of a viewport.
func New(viewportWidth, viewportHeight int) *Widget {
	return &Widget{
		pos:         DefaultPosition(viewportWidth, viewportHeight),
		interactive: true,
	}
}

// DefaultPosition is the startup position for a viewport.
func DefaultPosition(viewportWidth, viewportHeight int) models.Position {
	return models.Position{
		X: max(viewportWidth-edgeMargin, 0),
		Y: max(viewportHeight-edgeMargin, 0),
	}
}

func (w *Widget) Position() models.Position { return w.pos }

func (w *Widget) Dragging() bool { return w.dragging }

// Offset is the pointer-to-corner distance recorded at pointer-down.
func (w *Widget) Offset() models.Position { return w.offset }

// CapturedPointer returns the pointer routed to the widget while dragging.
func (w *Widget) CapturedPointer() (int, bool) {
	return w.pointerID, w.dragging
}

// Bounds returns the widget's box in viewport space.
func (w *Widget) Bounds() layout.Rect {
	return layout.Rect{X: w.pos.X, Y: w.pos.Y, W: Size, H: Size}
}

// Contains reports whether p is over the widget.
func (w *Widget) Contains(p models.Position) bool {
	return w.Bounds().Contains(p.X, p.Y)
}

// Interactive reports whether the widget receives pointer events.
func (w *Widget) Interactive() bool { return w.interactive }

func (w *Widget) SetInteractive(v bool) { w.interactive = v }

// PointerDown starts a drag when p is over an interactive, idle widget.
// It reports whether the drag started.
func (w *Widget) PointerDown(pointerID int, p models.Position) bool {
	if w.dragging || !w.interactive || !w.Contains(p) {
		return false
	}
	w.dragging = true
	w.offset = p.Sub(w.pos)
	w.pointerID = pointerID
	return true
}

// PointerMove follows the captured pointer, keeping the offset constant.
func (w *Widget) PointerMove(pointerID int, p models.Position) bool {
	if !w.dragging || pointerID != w.pointerID {
		return false
	}
	w.pos = p.Sub(w.offset)
	return true
}

// PointerUp ends the drag for the captured pointer and releases it.
// It reports whether a drag ended, i.e. whether a drop should follow.
func (w *Widget) PointerUp(pointerID int, p models.Position) bool {
	if !w.dragging || pointerID != w.pointerID {
		return false
	}
	w.pos = p.Sub(w.offset)
	w.release()
	return true
}

// CancelDrag ends a drag without a drop, e.g. on a global pointer-up after
// the capture was lost.
func (w *Widget) CancelDrag() bool {
	if !w.dragging {
		return false
	}
	w.release()
	return true
}

func (w *Widget) release() {
	w.dragging = false
	w.pointerID = 0
}
