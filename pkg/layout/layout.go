// Package layout answers "which element is at this point" for a dom tree.
//
// Geometry comes from inline styles (left, top, width, height, z-index in px)
// on HTML elements, and from x/y/width/height or cx/cy/r attributes on SVG
// shapes. Positions are relative to the nearest boxed ancestor, the way
// absolutely positioned elements nest in a browser.
package layout

import (
	"strconv"
	"strings"

	"github.com/dtnitsch/chartbuddy/pkg/dom"
)

// HitTester resolves a viewport point to the topmost element there.
type HitTester interface {
	ElementFromPoint(x, y int) dom.Node
}

// Rect is an axis-aligned box in viewport pixels.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Box is a laid-out element.
type Box struct {
	Node  dom.Node
	Rect  Rect
	Z     int
	order int
}

// Surface is a laid-out document.
type Surface struct {
	boxes []Box
}

// New lays out the subtree rooted at root.
func New(root dom.Node) *Surface {
	s := &Surface{}
	if root == nil {
		return s
	}
	s.layout(root, 0, 0, 0)
	return s
}

func (s *Surface) layout(n dom.Node, originX, originY, z int) {
	if r, ok := boxOf(n); ok {
		r.X += originX
		r.Y += originY
		if v, ok := styleInt(n, "z-index"); ok {
			z = v
		}
		s.boxes = append(s.boxes, Box{Node: n, Rect: r, Z: z, order: len(s.boxes)})
		originX, originY = r.X, r.Y
	}
	for _, c := range n.Children() {
		s.layout(c, originX, originY, z)
	}
}

// Boxes returns the laid-out elements in document order.
func (s *Surface) Boxes() []Box {
	out := make([]Box, len(s.boxes))
	copy(out, s.boxes)
	return out
}

// BoxOf returns the box for n, if it was laid out.
func (s *Surface) BoxOf(n dom.Node) (Rect, bool) {
	for _, b := range s.boxes {
		if b.Node == n {
			return b.Rect, true
		}
	}
	return Rect{}, false
}

// ElementFromPoint returns the element painted on top at (x, y): highest
// z-index first, later in document order on ties. Nil when nothing is there.
func (s *Surface) ElementFromPoint(x, y int) dom.Node {
	var best *Box
	for i := range s.boxes {
		b := &s.boxes[i]
		if !b.Rect.Contains(x, y) {
			continue
		}
		if best == nil || b.Z > best.Z || (b.Z == best.Z && b.order > best.order) {
			best = b
		}
	}
	if best == nil {
		return nil
	}
	return best.Node
}

func boxOf(n dom.Node) (Rect, bool) {
	if w, ok := styleInt(n, "width"); ok {
		h, ok := styleInt(n, "height")
		if !ok {
			return Rect{}, false
		}
		x, _ := styleInt(n, "left")
		y, _ := styleInt(n, "top")
		return Rect{X: x, Y: y, W: w, H: h}, true
	}

	switch n.Tag() {
	case "circle":
		cx, ok1 := attrInt(n, "cx")
		cy, ok2 := attrInt(n, "cy")
		r, ok3 := attrInt(n, "r")
		if ok1 && ok2 && ok3 {
			return Rect{X: cx - r, Y: cy - r, W: 2 * r, H: 2 * r}, true
		}
	case "svg", "rect", "image", "foreignobject", "text":
		w, ok1 := attrInt(n, "width")
		h, ok2 := attrInt(n, "height")
		if ok1 && ok2 {
			x, _ := attrInt(n, "x")
			y, _ := attrInt(n, "y")
			return Rect{X: x, Y: y, W: w, H: h}, true
		}
	}
	return Rect{}, false
}

// styleInt reads a pixel value from the inline style attribute.
func styleInt(n dom.Node, prop string) (int, bool) {
	style, ok := n.Attr("style")
	if !ok {
		return 0, false
	}
	for _, decl := range strings.Split(style, ";") {
		k, v, found := strings.Cut(decl, ":")
		if !found || !strings.EqualFold(strings.TrimSpace(k), prop) {
			continue
		}
		return parsePx(v)
	}
	return 0, false
}

func attrInt(n dom.Node, name string) (int, bool) {
	v, ok := n.Attr(name)
	if !ok {
		return 0, false
	}
	return parsePx(v)
}

func parsePx(v string) (int, bool) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
