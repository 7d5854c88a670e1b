// Package geom projects longitude/latitude geometries into the drawing's
// design units and turns them into SVG path data.
package geom

import (
	"math"

	"github.com/paulmach/orb"
)

const maxLat = 85.05112877980659

// Mercator is a spherical Mercator projection followed by a uniform scale and
// a translation. Screen y grows downward.
type Mercator struct {
	K      float64
	Tx, Ty float64
}

func mercatorRaw(p orb.Point) (float64, float64) {
	lat := math.Max(-maxLat, math.Min(maxLat, p[1]))
	x := p[0] * math.Pi / 180
	y := -math.Log(math.Tan(math.Pi/4 + lat*math.Pi/360))
	return x, y
}

// Project maps lon/lat to design units.
func (m Mercator) Project(p orb.Point) orb.Point {
	x, y := mercatorRaw(p)
	return orb.Point{m.K*x + m.Tx, m.K*y + m.Ty}
}

// FitSize returns the projection that fits target inside a w×h viewport:
// uniform scale, centred, with the constraining dimension filled exactly.
// An empty or single-point target gets unit scale around the centre.
func FitSize(target orb.Geometry, w, h float64) Mercator {
	b, ok := bound(target, func(p orb.Point) orb.Point {
		x, y := mercatorRaw(p)
		return orb.Point{x, y}
	})
	if !ok {
		return Mercator{K: 1, Tx: w / 2, Ty: h / 2}
	}
	dx, dy := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	k := math.Inf(1)
	if dx > 0 {
		k = w / dx
	}
	if dy > 0 {
		k = math.Min(k, h/dy)
	}
	if math.IsInf(k, 1) {
		k = 1
	}
	return Mercator{
		K:  k,
		Tx: (w - k*(b.Max[0]+b.Min[0])) / 2,
		Ty: (h - k*(b.Max[1]+b.Min[1])) / 2,
	}
}

// bound accumulates the projected extent of every vertex in g.
func bound(g orb.Geometry, project func(orb.Point) orb.Point) (orb.Bound, bool) {
	b := orb.Bound{Min: orb.Point{math.Inf(1), math.Inf(1)}, Max: orb.Point{math.Inf(-1), math.Inf(-1)}}
	n := 0
	eachPoint(g, func(p orb.Point) {
		q := project(p)
		if math.IsNaN(q[0]) || math.IsNaN(q[1]) {
			return
		}
		n++
		if q[0] < b.Min[0] {
			b.Min[0] = q[0]
		}
		if q[1] < b.Min[1] {
			b.Min[1] = q[1]
		}
		if q[0] > b.Max[0] {
			b.Max[0] = q[0]
		}
		if q[1] > b.Max[1] {
			b.Max[1] = q[1]
		}
	})
	return b, n > 0
}

func eachPoint(g orb.Geometry, fn func(orb.Point)) {
	switch g := g.(type) {
	case orb.Point:
		fn(g)
	case orb.MultiPoint:
		for _, p := range g {
			fn(p)
		}
	case orb.LineString:
		for _, p := range g {
			fn(p)
		}
	case orb.MultiLineString:
		for _, ls := range g {
			eachPoint(ls, fn)
		}
	case orb.Ring:
		for _, p := range g {
			fn(p)
		}
	case orb.Polygon:
		for _, r := range g {
			eachPoint(r, fn)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			eachPoint(p, fn)
		}
	case orb.Collection:
		for _, c := range g {
			eachPoint(c, fn)
		}
	case orb.Bound:
		eachPoint(g.ToRing(), fn)
	}
}
