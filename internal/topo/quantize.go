package topo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Bound returns the absolute extent of all arcs and points.
func (t *Topology) Bound() orb.Bound {
	b := orb.Bound{Min: orb.Point{math.Inf(1), math.Inf(1)}, Max: orb.Point{math.Inf(-1), math.Inf(-1)}}
	add := func(p orb.Point) {
		b.Min[0], b.Min[1] = math.Min(b.Min[0], p[0]), math.Min(b.Min[1], p[1])
		b.Max[0], b.Max[1] = math.Max(b.Max[0], p[0]), math.Max(b.Max[1], p[1])
	}
	for i, arc := range t.Arcs {
		for j := range arc {
			add(t.point(i, j))
		}
	}
	for _, o := range t.Objects {
		walkPoints(o, func(p orb.Point) { add(t.Transform.apply(p)) })
	}
	return b
}

func walkPoints(o *Object, fn func(orb.Point)) {
	if o == nil {
		return
	}
	for _, p := range o.Points {
		fn(p)
	}
	for _, g := range o.Geometries {
		walkPoints(g, fn)
	}
}

// Quantize snaps every coordinate onto an n×n grid spanning the topology's
// extent. Consecutive duplicate points collapse; each arc keeps at least two
// points. The input is left untouched.
func Quantize(t *Topology, n int) (*Topology, error) {
	if n < 2 {
		return nil, errors.Errorf("quantization must be at least 2, got %d", n)
	}
	b := t.Bound()
	x0, y0 := b.Min[0], b.Min[1]
	kx, ky := 1.0, 1.0
	if math.IsInf(x0, 1) {
		x0, y0 = 0, 0
	}
	if b.Max[0] > x0 {
		kx = float64(n-1) / (b.Max[0] - x0)
	}
	if b.Max[1] > y0 {
		ky = float64(n-1) / (b.Max[1] - y0)
	}
	snap := func(p orb.Point) orb.Point {
		return orb.Point{math.Floor((p[0]-x0)*kx + 0.5), math.Floor((p[1]-y0)*ky + 0.5)}
	}

	out := &Topology{
		Transform: &Transform{Scale: [2]float64{1 / kx, 1 / ky}, Translate: [2]float64{x0, y0}},
		Arcs:      make([][]orb.Point, len(t.Arcs)),
		Objects:   make(map[string]*Object, len(t.Objects)),
	}
	for i, arc := range t.Arcs {
		q := make([]orb.Point, 0, len(arc))
		for j := range arc {
			p := snap(t.point(i, j))
			if len(q) > 0 && q[len(q)-1] == p {
				continue
			}
			q = append(q, p)
		}
		if len(q) == 1 {
			q = append(q, q[0])
		}
		out.Arcs[i] = q
	}
	for name, o := range t.Objects {
		out.Objects[name] = mapPoints(o, func(p orb.Point) orb.Point { return snap(t.Transform.apply(p)) })
	}
	return out, nil
}

// mapPoints copies an object tree, rewriting point positions. Arc references
// and properties are shared with the source, which is never mutated.
func mapPoints(o *Object, fn func(orb.Point) orb.Point) *Object {
	if o == nil {
		return nil
	}
	c := *o
	if len(o.Points) > 0 {
		c.Points = make([]orb.Point, len(o.Points))
		for i, p := range o.Points {
			c.Points[i] = fn(p)
		}
	}
	if len(o.Geometries) > 0 {
		c.Geometries = make([]*Object, len(o.Geometries))
		for i, g := range o.Geometries {
			c.Geometries[i] = mapPoints(g, fn)
		}
	}
	return &c
}
