package widget

import (
	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/dom"
	"github.com/dtnitsch/chartbuddy/pkg/layout"
)

// Occluder is an overlay that sits above the page and would otherwise be
// hit by its own drop.
type Occluder interface {
	Interactive() bool
	SetInteractive(bool)
	Contains(p models.Position) bool
}

// Resolver finds the drop target under a point.
type Resolver struct {
	HitTester layout.HitTester
	Occluder  Occluder
}

// Resolve returns the page element at p, or nil. The occluder is made
// non-interactive for the duration of the lookup and always restored.
func (r *Resolver) Resolve(p models.Position) dom.Node {
	if r.Occluder != nil {
		prev := r.Occluder.Interactive()
		r.Occluder.SetInteractive(false)
		defer r.Occluder.SetInteractive(prev)
	}
	return r.elementAt(p)
}

func (r *Resolver) elementAt(p models.Position) dom.Node {
	// An interactive overlay under the point swallows the hit.
	if r.Occluder != nil && r.Occluder.Interactive() && r.Occluder.Contains(p) {
		return nil
	}
	if r.HitTester == nil {
		return nil
	}
	return r.HitTester.ElementFromPoint(p.X, p.Y)
}
