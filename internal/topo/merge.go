package topo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Merge dissolves the given objects into one multipolygon. Arcs used by
// exactly one ring of the selection form the outline; connected polygons are
// grouped and the ring with the largest area becomes each group's exterior.
func (t *Topology) Merge(objects []*Object) orb.MultiPolygon {
	var polys [][][]int
	for _, o := range objects {
		collectPolygons(o, &polys)
	}

	// uses[arc] lists polygon indexes, once per reference.
	uses := map[int][]int{}
	for pi, poly := range polys {
		for _, ring := range poly {
			for _, a := range ring {
				i := arcIndex(a)
				uses[i] = append(uses[i], pi)
			}
		}
	}

	seen := make([]bool, len(polys))
	var mp orb.MultiPolygon
	for pi := range polys {
		if seen[pi] {
			continue
		}
		seen[pi] = true
		group := []int{}
		stack := []int{pi}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			group = append(group, cur)
			for _, ring := range polys[cur] {
				for _, a := range ring {
					for _, n := range uses[arcIndex(a)] {
						if !seen[n] {
							seen[n] = true
							stack = append(stack, n)
						}
					}
				}
			}
		}

		var outline []int
		for _, gi := range group {
			for _, ring := range polys[gi] {
				for _, a := range ring {
					if len(uses[arcIndex(a)]) < 2 {
						outline = append(outline, a)
					}
				}
			}
		}
		if p := t.assemble(t.joinRings(outline)); p != nil {
			mp = append(mp, p)
		}
	}
	return mp
}

func collectPolygons(o *Object, out *[][][]int) {
	if o == nil {
		return
	}
	switch o.Type {
	case "GeometryCollection":
		for _, g := range o.Geometries {
			collectPolygons(g, out)
		}
	case "Polygon", "MultiPolygon":
		*out = append(*out, o.Polygons...)
	}
}

// joinRings chains oriented arcs end to start into rings. Arcs that cannot be
// closed are emitted as open fragments.
func (t *Topology) joinRings(arcs []int) [][]int {
	ends := func(a int) (orb.Point, orb.Point) {
		arc := t.Arcs[arcIndex(a)]
		s, e := arc[0], arc[len(arc)-1]
		if a < 0 {
			s, e = e, s
		}
		return s, e
	}
	byStart := map[orb.Point][]int{}
	for k, a := range arcs {
		s, _ := ends(a)
		byStart[s] = append(byStart[s], k)
	}
	used := make([]bool, len(arcs))
	next := func(p orb.Point) int {
		for _, k := range byStart[p] {
			if !used[k] {
				return k
			}
		}
		return -1
	}

	var rings [][]int
	for k := range arcs {
		if used[k] {
			continue
		}
		used[k] = true
		ring := []int{arcs[k]}
		first, end := ends(arcs[k])
		for end != first {
			n := next(end)
			if n < 0 {
				break
			}
			used[n] = true
			ring = append(ring, arcs[n])
			_, end = ends(arcs[n])
		}
		rings = append(rings, ring)
	}
	return rings
}

// assemble builds a polygon whose exterior is the ring with the largest area.
func (t *Topology) assemble(rings [][]int) orb.Polygon {
	var p orb.Polygon
	best, bestArea := -1, -1.0
	for _, r := range rings {
		ring := orb.Ring(t.stitch(r))
		if degenerate(ring) {
			continue
		}
		if ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		if a := math.Abs(planar.Area(ring)); a > bestArea {
			best, bestArea = len(p), a
		}
		p = append(p, ring)
	}
	if best > 0 {
		p[0], p[best] = p[best], p[0]
	}
	return p
}
