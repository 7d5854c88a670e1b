package topo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature converts the named object into a feature collection with absolute
// coordinates. A GeometryCollection yields one feature per member.
func Feature(t *Topology, object string) (*geojson.FeatureCollection, error) {
	o, err := t.Object(object)
	if err != nil {
		return nil, err
	}
	fc := geojson.NewFeatureCollection()
	for _, m := range o.Members() {
		f := geojson.NewFeature(t.Geometry(m))
		f.ID = m.ID
		for k, v := range m.Properties {
			f.Properties[k] = v
		}
		fc.Append(f)
	}
	return fc, nil
}

// Geometry assembles a single object. Polygons whose exterior ring collapsed
// during simplification are dropped, so the result may be empty.
func (t *Topology) Geometry(o *Object) orb.Geometry {
	switch o.Type {
	case "Polygon":
		if len(o.Polygons) == 0 {
			return orb.Polygon{}
		}
		if p := t.polygon(o.Polygons[0]); p != nil {
			return p
		}
		return orb.MultiPolygon{}
	case "MultiPolygon":
		return t.multiPolygon(o.Polygons)
	case "LineString":
		if len(o.Lines) == 0 {
			return orb.LineString{}
		}
		return orb.LineString(t.stitch(o.Lines[0]))
	case "MultiLineString":
		mls := make(orb.MultiLineString, 0, len(o.Lines))
		for _, l := range o.Lines {
			mls = append(mls, orb.LineString(t.stitch(l)))
		}
		return mls
	case "Point":
		if len(o.Points) == 0 {
			return orb.MultiPoint{}
		}
		return t.Transform.apply(o.Points[0])
	case "MultiPoint":
		mp := make(orb.MultiPoint, len(o.Points))
		for i, p := range o.Points {
			mp[i] = t.Transform.apply(p)
		}
		return mp
	case "GeometryCollection":
		gc := make(orb.Collection, 0, len(o.Geometries))
		for _, g := range o.Geometries {
			gc = append(gc, t.Geometry(g))
		}
		return gc
	}
	return orb.MultiPolygon{}
}

func (t *Topology) multiPolygon(polys [][][]int) orb.MultiPolygon {
	mp := make(orb.MultiPolygon, 0, len(polys))
	for _, rings := range polys {
		if p := t.polygon(rings); p != nil {
			mp = append(mp, p)
		}
	}
	return mp
}

func (t *Topology) polygon(rings [][]int) orb.Polygon {
	var p orb.Polygon
	for i, r := range rings {
		ring := orb.Ring(t.stitch(r))
		if degenerate(ring) {
			if i == 0 {
				return nil
			}
			continue
		}
		p = append(p, ring)
	}
	return p
}

// stitch concatenates arcs, dropping the shared point where consecutive arcs
// meet and reversing arcs referenced by their complement.
func (t *Topology) stitch(arcs []int) []orb.Point {
	var pts []orb.Point
	for _, a := range arcs {
		i := arcIndex(a)
		arc := t.Arcs[i]
		if len(pts) > 0 {
			pts = pts[:len(pts)-1]
		}
		start := len(pts)
		for j := range arc {
			pts = append(pts, t.point(i, j))
		}
		if a < 0 {
			reversePoints(pts[start:])
		}
	}
	return pts
}

func reversePoints(p []orb.Point) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

// degenerate reports rings with fewer than three distinct vertices.
func degenerate(r orb.Ring) bool {
	distinct := 0
	for i, p := range r {
		if i == 0 || p != r[i-1] {
			distinct++
		}
	}
	if len(r) > 1 && r[0] == r[len(r)-1] {
		distinct--
	}
	return distinct < 3
}
