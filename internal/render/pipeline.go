package render

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"dkmap/internal/config"
	"dkmap/internal/geom"
	"dkmap/internal/route"
	"dkmap/internal/topo"
)

// Source supplies the raw topology of a layer.
type Source interface {
	Load(layer config.Layer) (*topo.Topology, error)
}

// Dir loads <dir>/<file>.topojson.
type Dir string

func (d Dir) Path(layer config.Layer) string {
	return filepath.Join(string(d), layer.File+".topojson")
}

func (d Dir) Load(layer config.Layer) (*topo.Topology, error) {
	return topo.Load(d.Path(layer))
}

// Result is everything a run produced, ready for the output writers.
type Result struct {
	Doc      *Document
	Path     *geom.Path
	Layers   []string
	Features map[string]*geojson.FeatureCollection
	Shapes   []Shape
}

// OrderLayers returns the requested layers in hierarchy order with the
// country outline always first.
func OrderLayers(names []string) []config.Layer {
	seen := map[string]bool{}
	out := []config.Layer{}
	add := func(n string) {
		l, ok := config.LookupLayer(n)
		if !ok || seen[l.Name] {
			return
		}
		seen[l.Name] = true
		out = append(out, l)
	}
	add(config.LayerCountry)
	for _, n := range names {
		add(n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

type run struct {
	cfg    config.Config
	src    Source
	log    *zap.Logger
	simple map[string]*topo.Topology
}

// simplified loads and simplifies a layer once per run.
func (r *run) simplified(l config.Layer) (*topo.Topology, error) {
	if t, ok := r.simple[l.Name]; ok {
		return t, nil
	}
	raw, err := r.src.Load(l)
	if err != nil {
		return nil, errors.Wrapf(err, "load layer %s (%s)", l.Name, l.File)
	}
	if _, err := raw.Object(l.Object); err != nil {
		return nil, errors.Wrapf(err, "layer %s (%s)", l.Name, l.File)
	}
	t, err := topo.Simplify(raw, r.cfg.Quality.Resolution, r.cfg.Quality.Tolerance)
	if err != nil {
		return nil, errors.Wrapf(err, "simplify layer %s", l.Name)
	}
	r.log.Debug("layer simplified", zap.String("layer", l.Name), zap.Int("arcs", len(t.Arcs)))
	r.simple[l.Name] = t
	return t, nil
}

// outline merges the base layer into the full country, the mainland and the
// outlier, the latter chosen by administrative code.
func (r *run) outline() (full, mainland, outlier orb.MultiPolygon, err error) {
	base, ok := config.LookupLayer(r.cfg.BaseLayer)
	if !ok {
		return nil, nil, nil, errors.Wrapf(config.ErrUnknownLayer, "base layer %q", r.cfg.BaseLayer)
	}
	t, err := r.simplified(base)
	if err != nil {
		return nil, nil, nil, err
	}
	obj, err := t.Object(base.Object)
	if err != nil {
		return nil, nil, nil, err
	}
	codes := map[string]bool{}
	for _, c := range r.cfg.Outlier.Codes {
		codes[c] = true
	}
	var in, out []*topo.Object
	for _, m := range obj.Members() {
		if codes[property(m.Properties, r.cfg.Outlier.CodeField)] {
			in = append(in, m)
		} else {
			out = append(out, m)
		}
	}
	return t.Merge(obj.Members()), t.Merge(out), t.Merge(in), nil
}

// Run executes the whole pipeline: load and simplify, fit the projection,
// then draw every layer in hierarchy order. Nothing is written to disk.
func Run(ctx context.Context, cfg config.Config, src Source, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &run{cfg: cfg, src: src, log: log, simple: map[string]*topo.Topology{}}

	full, mainland, outlier, err := r.outline()
	if err != nil {
		return nil, err
	}
	fitTo := full
	if cfg.Packed {
		fitTo = mainland
	}
	w, h := cfg.Viewport()
	path := geom.Fit(fitTo, w, h)
	router := route.New(outlier, path, cfg.Packed, cfg.OutlierSlack)
	rd := NewRenderer(NewDocument(w, h), path, router, cfg, log)

	res := &Result{Path: path, Features: map[string]*geojson.FeatureCollection{}}
	for _, l := range OrderLayers(cfg.Layers) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Layers = append(res.Layers, l.Name)
		if l.Name == config.LayerCountry {
			rd.RenderCountry(full, mainland, outlier)
			fc := geojson.NewFeatureCollection()
			f := geojson.NewFeature(full)
			f.Properties["navn"] = "Danmark"
			res.Features[l.Name] = fc.Append(f)
			continue
		}
		t, err := r.simplified(l)
		if err != nil {
			return nil, err
		}
		fc, err := topo.Feature(t, l.Object)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %s (%s)", l.Name, l.File)
		}
		n := rd.RenderLayer(l, fc)
		res.Features[l.Name] = fc
		log.Info("layer rendered", zap.String("layer", l.Name), zap.Int("features", n))
	}
	res.Doc = rd.Document()
	res.Shapes = rd.Shapes()
	return res, nil
}
