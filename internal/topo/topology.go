// Package topo reads TopoJSON topologies and derives simplified feature
// collections from them.
package topo

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

var (
	ErrMissingObject = errors.New("topology object not found")
	ErrMalformed     = errors.New("malformed topology")
)

// Transform maps grid coordinates back to longitude/latitude.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

func (tr *Transform) apply(p orb.Point) orb.Point {
	if tr == nil {
		return p
	}
	return orb.Point{p[0]*tr.Scale[0] + tr.Translate[0], p[1]*tr.Scale[1] + tr.Translate[1]}
}

// Topology holds arcs and the objects that reference them. Arcs are stored
// decoded (not delta encoded); they are grid coordinates when Transform is set
// and absolute coordinates otherwise.
type Topology struct {
	Transform *Transform
	Arcs      [][]orb.Point
	// Weights holds one presimplification weight per arc point, or nil.
	Weights [][]float64
	Objects map[string]*Object
}

// Object is a TopoJSON geometry object.
type Object struct {
	Type       string
	ID         any
	Properties map[string]any

	// Polygons holds ring arc indexes for Polygon (one entry) and MultiPolygon.
	Polygons [][][]int
	// Lines holds arc indexes for LineString (one entry) and MultiLineString.
	Lines [][]int
	// Points holds Point and MultiPoint positions, in the same space as arcs.
	Points []orb.Point

	Geometries []*Object
}

// Load reads a topology from disk.
func Load(path string) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return t, nil
}

type rawTopology struct {
	Type      string                `json:"type"`
	Transform *Transform            `json:"transform,omitempty"`
	BBox      []float64             `json:"bbox,omitempty"`
	Objects   map[string]*rawObject `json:"objects"`
	Arcs      [][][]float64         `json:"arcs"`
}

type rawObject struct {
	Type        string          `json:"type"`
	ID          any             `json:"id,omitempty"`
	Properties  map[string]any  `json:"properties,omitempty"`
	Arcs        json.RawMessage `json:"arcs,omitempty"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	Geometries  []*rawObject    `json:"geometries,omitempty"`
}

// Decode parses TopoJSON. Property numbers keep their textual form.
func Decode(r io.Reader) (*Topology, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw rawTopology
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	if raw.Type != "Topology" {
		return nil, errors.Wrapf(ErrMalformed, "type %q", raw.Type)
	}
	t := &Topology{Objects: make(map[string]*Object, len(raw.Objects))}
	t.Arcs = make([][]orb.Point, len(raw.Arcs))
	for i, arc := range raw.Arcs {
		if len(arc) == 0 {
			return nil, errors.Wrapf(ErrMalformed, "arc %d is empty", i)
		}
		pts := make([]orb.Point, len(arc))
		var x, y float64
		for j, pos := range arc {
			if len(pos) < 2 {
				return nil, errors.Wrapf(ErrMalformed, "arc %d position %d", i, j)
			}
			if raw.Transform != nil {
				x, y = x+pos[0], y+pos[1]
			} else {
				x, y = pos[0], pos[1]
			}
			pts[j] = raw.Transform.apply(orb.Point{x, y})
		}
		t.Arcs[i] = pts
	}
	for name, ro := range raw.Objects {
		o, err := decodeObject(ro, raw.Transform, len(t.Arcs))
		if err != nil {
			return nil, errors.Wrapf(err, "object %q", name)
		}
		t.Objects[name] = o
	}
	return t, nil
}

func decodeObject(ro *rawObject, tr *Transform, narcs int) (*Object, error) {
	if ro == nil {
		return &Object{}, nil
	}
	o := &Object{Type: ro.Type, ID: ro.ID, Properties: ro.Properties}
	checkRing := func(ring []int) error {
		for _, a := range ring {
			if i := arcIndex(a); i >= narcs {
				return errors.Wrapf(ErrMalformed, "arc reference %d out of range", a)
			}
		}
		return nil
	}
	switch ro.Type {
	case "GeometryCollection":
		for _, g := range ro.Geometries {
			child, err := decodeObject(g, tr, narcs)
			if err != nil {
				return nil, err
			}
			o.Geometries = append(o.Geometries, child)
		}
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(ro.Arcs, &rings); err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
		o.Polygons = [][][]int{rings}
	case "MultiPolygon":
		if err := json.Unmarshal(ro.Arcs, &o.Polygons); err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
	case "LineString":
		var line []int
		if err := json.Unmarshal(ro.Arcs, &line); err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
		o.Lines = [][]int{line}
	case "MultiLineString":
		if err := json.Unmarshal(ro.Arcs, &o.Lines); err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
	case "Point":
		var pos []float64
		if err := json.Unmarshal(ro.Coordinates, &pos); err != nil || len(pos) < 2 {
			return nil, errors.Wrap(ErrMalformed, "point coordinates")
		}
		o.Points = []orb.Point{tr.apply(orb.Point{pos[0], pos[1]})}
	case "MultiPoint":
		var pos [][]float64
		if err := json.Unmarshal(ro.Coordinates, &pos); err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
		for _, p := range pos {
			if len(p) < 2 {
				return nil, errors.Wrap(ErrMalformed, "multipoint coordinates")
			}
			o.Points = append(o.Points, tr.apply(orb.Point{p[0], p[1]}))
		}
	case "", "null":
		// null geometry
	default:
		return nil, errors.Wrapf(ErrMalformed, "unsupported geometry type %q", ro.Type)
	}
	for _, poly := range o.Polygons {
		for _, ring := range poly {
			if err := checkRing(ring); err != nil {
				return nil, err
			}
		}
	}
	for _, line := range o.Lines {
		if err := checkRing(line); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// arcIndex resolves a possibly reversed (one's complement) arc reference.
func arcIndex(a int) int {
	if a < 0 {
		return ^a
	}
	return a
}

// Object returns the named object or ErrMissingObject.
func (t *Topology) Object(name string) (*Object, error) {
	o, ok := t.Objects[name]
	if !ok || o == nil {
		return nil, errors.Wrapf(ErrMissingObject, "%q", name)
	}
	return o, nil
}

// point returns arc point j of arc i in absolute coordinates.
func (t *Topology) point(i, j int) orb.Point {
	return t.Transform.apply(t.Arcs[i][j])
}

// Members flattens a GeometryCollection into its geometries; any other
// object is its own single member.
func (o *Object) Members() []*Object {
	if o.Type == "GeometryCollection" {
		return o.Geometries
	}
	return []*Object{o}
}

// MarshalJSON writes standard TopoJSON, delta encoding arcs when the
// topology is quantized.
func (t *Topology) MarshalJSON() ([]byte, error) {
	out := rawTopology{Type: "Topology", Transform: t.Transform, Objects: map[string]*rawObject{}}
	out.Arcs = make([][][]float64, len(t.Arcs))
	for i, arc := range t.Arcs {
		enc := make([][]float64, len(arc))
		var px, py float64
		for j, p := range arc {
			if t.Transform != nil {
				enc[j] = []float64{p[0] - px, p[1] - py}
				px, py = p[0], p[1]
			} else {
				enc[j] = []float64{p[0], p[1]}
			}
		}
		out.Arcs[i] = enc
	}
	for name, o := range t.Objects {
		ro, err := encodeObject(o)
		if err != nil {
			return nil, err
		}
		out.Objects[name] = ro
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func encodeObject(o *Object) (*rawObject, error) {
	ro := &rawObject{Type: o.Type, ID: o.ID, Properties: o.Properties}
	var v any
	switch o.Type {
	case "GeometryCollection":
		for _, g := range o.Geometries {
			child, err := encodeObject(g)
			if err != nil {
				return nil, err
			}
			ro.Geometries = append(ro.Geometries, child)
		}
		return ro, nil
	case "Polygon":
		if len(o.Polygons) > 0 {
			v = o.Polygons[0]
		}
	case "MultiPolygon":
		v = o.Polygons
	case "LineString":
		if len(o.Lines) > 0 {
			v = o.Lines[0]
		}
	case "MultiLineString":
		v = o.Lines
	case "Point", "MultiPoint":
		pos := make([][]float64, len(o.Points))
		for i, p := range o.Points {
			pos[i] = []float64{p[0], p[1]}
		}
		var c any = pos
		if o.Type == "Point" && len(pos) == 1 {
			c = pos[0]
		}
		b, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		ro.Coordinates = b
		return ro, nil
	default:
		return ro, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	ro.Arcs = b
	return ro, nil
}
