package topo

import (
	"container/heap"
	"math"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Simplify quantizes t onto a grid of the given resolution, weighs every
// point and drops those weighing less than tolerance. Arcs are simplified
// once, so neighbours keep sharing an identical border.
func Simplify(t *Topology, resolution int, tolerance float64) (*Topology, error) {
	q, err := Quantize(t, resolution)
	if err != nil {
		return nil, errors.Wrap(err, "quantize")
	}
	return Filter(Presimplify(q), tolerance), nil
}

// Presimplify returns a copy of t carrying a Visvalingam effective area per
// arc point. Areas are measured in absolute coordinates and never decrease in
// elimination order; arc endpoints weigh +Inf.
func Presimplify(t *Topology) *Topology {
	out := t.shallow()
	out.Weights = make([][]float64, len(t.Arcs))
	for i, arc := range t.Arcs {
		abs := make([]orb.Point, len(arc))
		for j := range arc {
			abs[j] = t.point(i, j)
		}
		out.Weights[i] = effectiveAreas(abs)
	}
	return out
}

// Filter keeps the points whose weight is at least minWeight. Topologies
// without weights are returned as is.
func Filter(t *Topology, minWeight float64) *Topology {
	if t.Weights == nil {
		return t
	}
	out := t.shallow()
	out.Arcs = make([][]orb.Point, len(t.Arcs))
	out.Weights = make([][]float64, len(t.Arcs))
	for i, arc := range t.Arcs {
		w := t.Weights[i]
		keep := make([]orb.Point, 0, len(arc))
		kw := make([]float64, 0, len(arc))
		for j, p := range arc {
			if w[j] >= minWeight {
				keep = append(keep, p)
				kw = append(kw, w[j])
			}
		}
		out.Arcs[i] = keep
		out.Weights[i] = kw
	}
	return out
}

func (t *Topology) shallow() *Topology {
	c := *t
	return &c
}

type triangle struct {
	i          int // index of the middle point
	area       float64
	prev, next *triangle
	a, c       int // current neighbours
	index      int // heap position, -1 once popped
}

type areaHeap []*triangle

func (h areaHeap) Len() int { return len(h) }
func (h areaHeap) Less(i, j int) bool {
	if h[i].area == h[j].area {
		return h[i].i < h[j].i
	}
	return h[i].area < h[j].area
}
func (h areaHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *areaHeap) Push(x any) {
	tr := x.(*triangle)
	tr.index = len(*h)
	*h = append(*h, tr)
}
func (h *areaHeap) Pop() any {
	old := *h
	n := len(old)
	tr := old[n-1]
	old[n-1] = nil
	tr.index = -1
	*h = old[:n-1]
	return tr
}

func triangleArea(a, b, c orb.Point) float64 {
	return math.Abs((a[0]-c[0])*(b[1]-a[1])-(a[0]-b[0])*(c[1]-a[1])) / 2
}

func effectiveAreas(pts []orb.Point) []float64 {
	n := len(pts)
	w := make([]float64, n)
	if n == 0 {
		return w
	}
	w[0], w[n-1] = math.Inf(1), math.Inf(1)
	if n < 3 {
		return w
	}
	tris := make([]*triangle, 0, n-2)
	h := make(areaHeap, 0, n-2)
	for i := 1; i < n-1; i++ {
		tr := &triangle{i: i, a: i - 1, c: i + 1, area: triangleArea(pts[i-1], pts[i], pts[i+1])}
		if len(tris) > 0 {
			tr.prev = tris[len(tris)-1]
			tr.prev.next = tr
		}
		tris = append(tris, tr)
		heap.Push(&h, tr)
	}
	var maxArea float64
	for h.Len() > 0 {
		tr := heap.Pop(&h).(*triangle)
		if tr.area < maxArea {
			tr.area = maxArea
		} else {
			maxArea = tr.area
		}
		w[tr.i] = tr.area
		if p := tr.prev; p != nil {
			p.next = tr.next
			p.c = tr.c
			p.area = triangleArea(pts[p.a], pts[p.i], pts[p.c])
			heap.Fix(&h, p.index)
		}
		if nx := tr.next; nx != nil {
			nx.prev = tr.prev
			nx.a = tr.a
			nx.area = triangleArea(pts[nx.a], pts[nx.i], pts[nx.c])
			heap.Fix(&h, nx.index)
		}
	}
	return w
}
