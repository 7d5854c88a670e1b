package topo

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two unit squares sharing the x=1 border, plus a small island.
const squares = `{
  "type": "Topology",
  "objects": {
    "areas": {"type": "GeometryCollection", "geometries": [
      {"type": "Polygon", "arcs": [[1, 0]], "properties": {"code": 1, "navn": "West"}},
      {"type": "Polygon", "arcs": [[2, -1]], "properties": {"code": "0002", "navn": "East"}},
      {"type": "MultiPolygon", "arcs": [[[3]]], "properties": {"code": 3, "navn": "Island"}}
    ]},
    "empty": {"type": "GeometryCollection", "geometries": []}
  },
  "arcs": [
    [[1, 0], [1.01, 0.25], [1, 0.5], [0.99, 0.75], [1, 1]],
    [[1, 1], [0.5, 1.001], [0, 1], [0, 0], [0.5, -0.001], [1, 0]],
    [[1, 0], [2, 0], [2, 1], [1, 1]],
    [[3, 0], [3.5, 0], [3.5, 0.5], [3, 0.5], [3, 0]]
  ]
}`

func decodeSquares(t *testing.T) *Topology {
	t.Helper()
	topo, err := Decode(strings.NewReader(squares))
	require.NoError(t, err)
	return topo
}

func TestDecode(t *testing.T) {
	topo := decodeSquares(t)
	require.Len(t, topo.Arcs, 4)
	assert.Nil(t, topo.Transform)
	o, err := topo.Object("areas")
	require.NoError(t, err)
	require.Len(t, o.Members(), 3)
	assert.Equal(t, json.Number("1"), o.Geometries[0].Properties["code"])
	assert.Equal(t, [][][]int{{{2, -1}}}, o.Geometries[1].Polygons)
}

func TestDecodeQuantizedDeltas(t *testing.T) {
	src := `{"type":"Topology","transform":{"scale":[0.5,2],"translate":[10,20]},
	  "objects":{"o":{"type":"LineString","arcs":[0]}},
	  "arcs":[[[0,0],[2,1],[1,-1]]]}`
	topo, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []orb.Point{{10, 20}, {11, 22}, {11.5, 20}}, topo.Arcs[0])
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":    `{"type":`,
		"type":      `{"type":"FeatureCollection","objects":{},"arcs":[]}`,
		"arc range": `{"type":"Topology","objects":{"o":{"type":"Polygon","arcs":[[5]]}},"arcs":[[[0,0],[1,1]]]}`,
		"geometry":  `{"type":"Topology","objects":{"o":{"type":"Circle"}},"arcs":[]}`,
		"position":  `{"type":"Topology","objects":{},"arcs":[[[0]]]}`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), err.Error())
		})
	}
}

func TestMissingObject(t *testing.T) {
	_, err := Feature(decodeSquares(t), "kommuner")
	assert.True(t, errors.Is(err, ErrMissingObject))
}

func TestFeature(t *testing.T) {
	fc, err := Feature(decodeSquares(t), "areas")
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)

	west := fc.Features[0].Geometry.(orb.Polygon)
	require.Len(t, west, 1)
	// 6 + 5 points with the joint dropped once.
	assert.Len(t, west[0], 10)
	assert.Equal(t, west[0][0], west[0][len(west[0])-1])
	assert.Equal(t, "West", fc.Features[0].Properties["navn"])

	east := fc.Features[1].Geometry.(orb.Polygon)
	assert.Equal(t, orb.Point{1, 0}, east[0][0])
	assert.Len(t, east[0], 8)
	assert.Equal(t, orb.Point{1, 0.5}, east[0][5])

	island := fc.Features[2].Geometry.(orb.MultiPolygon)
	assert.Len(t, island, 1)
}

func TestFeatureEmptyCollection(t *testing.T) {
	fc, err := Feature(decodeSquares(t), "empty")
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}

func TestQuantize(t *testing.T) {
	topo := decodeSquares(t)
	q, err := Quantize(topo, 8)
	require.NoError(t, err)
	require.NotNil(t, q.Transform)

	for _, arc := range q.Arcs {
		require.GreaterOrEqual(t, len(arc), 2)
		for i, p := range arc {
			assert.Equal(t, math.Round(p[0]), p[0])
			assert.LessOrEqual(t, p[0], 7.0)
			if i > 0 {
				assert.NotEqual(t, arc[i-1], p)
			}
		}
	}
	// source is untouched
	assert.Nil(t, topo.Transform)
	assert.Equal(t, orb.Point{1.01, 0.25}, topo.Arcs[0][1])

	_, err = Quantize(topo, 1)
	assert.Error(t, err)
}

func TestQuantizeEmpty(t *testing.T) {
	q, err := Quantize(&Topology{Objects: map[string]*Object{}}, 100)
	require.NoError(t, err)
	assert.Empty(t, q.Arcs)
}

func TestPresimplifyWeights(t *testing.T) {
	p := Presimplify(decodeSquares(t))
	for i, w := range p.Weights {
		require.Len(t, w, len(p.Arcs[i]))
		assert.True(t, math.IsInf(w[0], 1))
		assert.True(t, math.IsInf(w[len(w)-1], 1))
	}
	// the nearly collinear points weigh least
	w := p.Weights[1]
	assert.Less(t, w[1], w[2])
	assert.Less(t, w[4], w[3])
}

func TestEffectiveAreasMonotone(t *testing.T) {
	pts := []orb.Point{{0, 0}, {1, 5}, {2, 0.1}, {3, 0}, {4, 3}, {5, 0}}
	w := effectiveAreas(pts)
	// (3,0) goes first and keeps its own triangle
	assert.Equal(t, triangleArea(pts[2], pts[3], pts[4]), w[3])
	for i := 1; i < len(w)-1; i++ {
		assert.GreaterOrEqual(t, w[i], w[3])
	}
	// (2,0.1) ends up nearly collinear but cannot weigh less than (1,5),
	// which was eliminated before it
	assert.Less(t, triangleArea(pts[0], pts[2], pts[5]), w[1])
	assert.Equal(t, w[1], w[2])
}

func TestSimplifyIdempotent(t *testing.T) {
	topo := decodeSquares(t)
	a, err := Simplify(topo, 1000, 0.01)
	require.NoError(t, err)
	b, err := Simplify(topo, 1000, 0.01)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a, b))
	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestSimplifyDropsLightPoints(t *testing.T) {
	s, err := Simplify(decodeSquares(t), 10000, 0.01)
	require.NoError(t, err)
	// shared border wiggle and the two edge midpoints disappear
	assert.Len(t, s.Arcs[0], 2)
	assert.Len(t, s.Arcs[1], 4)
	// corners survive
	assert.Len(t, s.Arcs[2], 4)
}

func TestSimplifyKeepsSharedBorder(t *testing.T) {
	s, err := Simplify(decodeSquares(t), 500, 0.0001)
	require.NoError(t, err)
	fc, err := Feature(s, "areas")
	require.NoError(t, err)

	west := fc.Features[0].Geometry.(orb.Polygon)[0]
	east := fc.Features[1].Geometry.(orb.Polygon)[0]
	contains := func(r orb.Ring, p orb.Point) bool {
		for _, q := range r {
			if q == p {
				return true
			}
		}
		return false
	}
	for j := range s.Arcs[0] {
		p := s.point(0, j)
		assert.True(t, contains(west, p), "west misses %v", p)
		assert.True(t, contains(east, p), "east misses %v", p)
	}
}

func TestSimplifyCollapsedIsland(t *testing.T) {
	s, err := Simplify(decodeSquares(t), 1000, 10)
	require.NoError(t, err)
	fc, err := Feature(s, "areas")
	require.NoError(t, err)
	assert.Empty(t, fc.Features[2].Geometry.(orb.MultiPolygon))
}

func TestMerge(t *testing.T) {
	topo := decodeSquares(t)
	o, err := topo.Object("areas")
	require.NoError(t, err)

	both := topo.Merge(o.Geometries[:2])
	require.Len(t, both, 1)
	require.Len(t, both[0], 1)
	for _, p := range both[0][0] {
		assert.NotEqual(t, orb.Point{1, 0.5}, p, "shared border leaked into merged outline")
	}
	b := both.Bound()
	assert.Equal(t, 0.0, b.Min[0])
	assert.Equal(t, 2.0, b.Max[0])

	all := topo.Merge(o.Geometries)
	assert.Len(t, all, 2)

	assert.Empty(t, topo.Merge(nil))
}

func TestMergeHoleOrdering(t *testing.T) {
	// A ring around a hole: the outer ring must come first.
	src := `{"type":"Topology","objects":{"o":{"type":"Polygon","arcs":[[1],[0]]}},
	  "arcs":[[[0,0],[10,0],[10,10],[0,10],[0,0]],[[4,4],[4,6],[6,6],[6,4],[4,4]]]}`
	topo, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	o, err := topo.Object("o")
	require.NoError(t, err)
	mp := topo.Merge([]*Object{o})
	require.Len(t, mp, 1)
	require.Len(t, mp[0], 2)
	assert.Equal(t, orb.Point{0, 0}, mp[0][0][0])
}
