package geom

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// PointRadius is the radius of the circle drawn for point geometries.
const PointRadius = 4.5

// Path renders geometries with one projection. A single Path is shared by
// every layer of a drawing so all layers line up.
type Path struct {
	Projection Mercator
}

// Fit builds a Path whose projection fits target into the w×h viewport.
func Fit(target orb.Geometry, w, h float64) *Path {
	return &Path{Projection: FitSize(target, w, h)}
}

// D returns SVG path data for g. Rings are closed with Z and the repeated
// closing vertex is not written. Empty geometries yield "".
func (p *Path) D(g orb.Geometry) string {
	var sb strings.Builder
	p.write(&sb, g)
	return sb.String()
}

// Bounds returns the projected extent of g, or false when g has no vertices.
func (p *Path) Bounds(g orb.Geometry) (orb.Bound, bool) {
	if g == nil {
		return orb.Bound{}, false
	}
	return bound(g, p.Projection.Project)
}

func (p *Path) write(sb *strings.Builder, g orb.Geometry) {
	switch g := g.(type) {
	case orb.Point:
		q := p.Projection.Project(g)
		sb.WriteString("M")
		writePair(sb, q[0], q[1]+PointRadius)
		r := num(PointRadius)
		sb.WriteString("a" + r + "," + r + " 0 1,1 0," + num(-2*PointRadius))
		sb.WriteString("a" + r + "," + r + " 0 1,1 0," + num(2*PointRadius) + "Z")
	case orb.MultiPoint:
		for _, pt := range g {
			p.write(sb, pt)
		}
	case orb.LineString:
		p.line(sb, g, false)
	case orb.MultiLineString:
		for _, ls := range g {
			p.line(sb, ls, false)
		}
	case orb.Ring:
		p.line(sb, g, true)
	case orb.Polygon:
		for _, r := range g {
			p.line(sb, r, true)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			p.write(sb, poly)
		}
	case orb.Collection:
		for _, c := range g {
			p.write(sb, c)
		}
	}
}

func (p *Path) line(sb *strings.Builder, pts []orb.Point, closed bool) {
	n := len(pts)
	if closed && n > 1 && pts[0] == pts[n-1] {
		n--
	}
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		q := p.Projection.Project(pts[i])
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteByte('L')
		}
		writePair(sb, q[0], q[1])
	}
	if closed {
		sb.WriteByte('Z')
	}
}

func writePair(sb *strings.Builder, x, y float64) {
	sb.WriteString(num(x))
	sb.WriteByte(',')
	sb.WriteString(num(y))
}

// num formats v with at most three decimals.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
