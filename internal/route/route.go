// Package route decides which features belong in the outlier inset of a
// packed map.
package route

import (
	"github.com/paulmach/orb"

	"dkmap/internal/geom"
)

// IsOutlier reports whether the projected bounds of feature lie inside the
// projected bounds of outlier grown by slack on every side. This is a
// bounding-box heuristic: anything sharing the outlier's box qualifies.
func IsOutlier(feature, outlier orb.Geometry, p *geom.Path, slack float64) bool {
	ob, ok := p.Bounds(outlier)
	if !ok {
		return false
	}
	return within(feature, ob.Pad(slack), p)
}

func within(feature orb.Geometry, box orb.Bound, p *geom.Path) bool {
	fb, ok := p.Bounds(feature)
	if !ok {
		return false
	}
	return box.Contains(fb.Min) && box.Contains(fb.Max)
}

// Router caches the padded outlier box for one drawing.
type Router struct {
	packed bool
	box    orb.Bound
	frame  orb.Bound
	ok     bool
	path   *geom.Path
}

// New prepares a router. When packed is false every feature routes to the
// mainland.
func New(outlier orb.Geometry, p *geom.Path, packed bool, slack float64) *Router {
	r := &Router{packed: packed, path: p}
	if b, ok := p.Bounds(outlier); ok {
		r.frame, r.box, r.ok = b, b.Pad(slack), true
	}
	return r
}

// Outlier reports whether feature goes into the inset.
func (r *Router) Outlier(feature orb.Geometry) bool {
	if !r.packed || !r.ok {
		return false
	}
	return within(feature, r.box, r.path)
}

// Frame returns the unpadded projected bounds of the outlier.
func (r *Router) Frame() (orb.Bound, bool) {
	return r.frame, r.ok
}

// Packed reports whether the inset layout is active.
func (r *Router) Packed() bool { return r.packed }
