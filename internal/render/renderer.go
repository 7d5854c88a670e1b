// Package render draws simplified administrative layers into an SVG
// document, nesting each feature under its administrative ancestors.
package render

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"dkmap/internal/config"
	"dkmap/internal/geom"
	"dkmap/internal/route"
)

// Shape is a drawn geometry, kept for previews.
type Shape struct {
	Layer    string
	Inset    bool
	Geometry orb.Geometry
}

// Renderer writes layers into a Document with one shared projection.
type Renderer struct {
	doc    *Document
	path   *geom.Path
	router *route.Router
	cfg    config.Config
	log    *zap.Logger

	framed bool
	shapes []Shape
}

// NewRenderer binds a document to the run's projection and router.
func NewRenderer(doc *Document, p *geom.Path, r *route.Router, cfg config.Config, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{doc: doc, path: p, router: r, cfg: cfg, log: log}
}

// Document returns the drawing.
func (r *Renderer) Document() *Document { return r.doc }

// Shapes returns every geometry drawn so far in drawing order.
func (r *Renderer) Shapes() []Shape { return r.shapes }

func (r *Renderer) main() *etree.Element {
	return r.doc.Root(MainRoot, "denmark")
}

// inset returns the outlier root, creating it and its frame on first use.
func (r *Renderer) inset() *etree.Element {
	if r.doc.HasRoot(InsetRoot) {
		return r.doc.Root(InsetRoot, "denmark")
	}
	r.main()
	g := r.doc.Root(InsetRoot, "denmark")
	g.CreateAttr("transform", fmt.Sprintf("translate(%s,%s)", num(r.cfg.InsetOffset[0]), num(r.cfg.InsetOffset[1])))
	r.frame(g)
	return g
}

func (r *Renderer) frame(g *etree.Element) {
	if r.framed {
		return
	}
	b, ok := r.router.Frame()
	if !ok {
		return
	}
	m := r.cfg.InsetMargin
	rect := g.CreateElement("rect")
	rect.CreateAttr("stroke", "#bbbbbb")
	rect.CreateAttr("stroke-width", "0.5")
	rect.CreateAttr("fill", "transparent")
	rect.CreateAttr("width", fixed(b.Max[0]-b.Min[0]+2*m))
	rect.CreateAttr("height", fixed(b.Max[1]-b.Min[1]+2*m))
	rect.CreateAttr("x", fixed(b.Min[0]-m))
	rect.CreateAttr("y", fixed(b.Min[1]-m))
	r.framed = true
}

// RenderCountry draws the base outline. Packed maps split it into the
// mainland and the inset outlier; otherwise the whole country is one path.
func (r *Renderer) RenderCountry(full, mainland, outlier orb.MultiPolygon) {
	if !r.router.Packed() || len(outlier) == 0 {
		r.addShape(config.LayerCountry, r.main(), full, false)
		return
	}
	r.addShape(config.LayerCountry, r.main(), mainland, false)
	r.addShape(config.LayerCountry, r.inset(), outlier, true)
}

func (r *Renderer) addShape(layer string, parent *etree.Element, g orb.Geometry, inset bool) {
	r.doc.AddPath(parent, r.path.D(g), "denmark")
	r.shapes = append(r.shapes, Shape{Layer: layer, Inset: inset, Geometry: g})
}

// RenderLayer draws every feature of fc as a group holding one path and
// returns the number of features drawn.
func (r *Renderer) RenderLayer(desc config.Layer, fc *geojson.FeatureCollection) int {
	for i, f := range fc.Features {
		code := property(f.Properties, desc.CodeField)
		key := desc.KeyPrefix + code
		if code == "" {
			key = desc.KeyPrefix + "_" + strconv.Itoa(i)
		}

		root, inset := MainRoot, false
		if r.router.Outlier(f.Geometry) {
			r.inset()
			root, inset = InsetRoot, true
		} else {
			r.main()
		}

		ancestors := make([]string, 0, len(desc.Parents))
		for _, p := range desc.Parents {
			if v := property(f.Properties, p.Field); v != "" {
				ancestors = append(ancestors, p.KeyPrefix+v)
			}
		}
		g, created := r.doc.Group(root, key, ancestors)
		if created {
			g.CreateAttr("class", desc.Class+" "+key)
			if name := property(f.Properties, desc.NameField); name != "" {
				g.CreateAttr("data-name", name)
			}
			if code != "" {
				g.CreateAttr("data-code", code)
			}
			for _, refs := range [][]config.Parent{desc.Parents, desc.Refs} {
				for _, p := range refs {
					if v := property(f.Properties, p.Field); v != "" && p.Attr != "" {
						g.CreateAttr(p.Attr, v)
					}
				}
			}
		}

		d := r.path.D(f.Geometry)
		if d == "" {
			r.log.Debug("empty geometry", zap.String("layer", desc.Name), zap.String("key", key))
		}
		r.doc.AddPath(g, d, "")
		r.shapes = append(r.shapes, Shape{Layer: desc.Name, Inset: inset, Geometry: f.Geometry})
	}
	return len(fc.Features)
}

func property(props geojson.Properties, field string) string {
	if field == "" || props == nil {
		return ""
	}
	v, ok := props[field]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
