// Package preview draws a finished run as braille art for the terminal.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"dkmap/internal/config"
	"dkmap/internal/render"
)

// Default preview size in terminal cells.
const (
	DefaultWidth  = 60
	DefaultHeight = 30
)

type projector struct {
	res    *render.Result
	offset [2]float64
	sx, sy float64
}

// micro maps a lon/lat point onto the dot grid, shifting inset shapes the
// same way the SVG does.
func (p projector) micro(pt orb.Point, inset bool) [2]int {
	q := p.res.Path.Projection.Project(pt)
	if inset {
		q[0] += p.offset[0]
		q[1] += p.offset[1]
	}
	return [2]int{int(q[0] * p.sx), int(q[1] * p.sy)}
}

func (p projector) rings(g orb.Geometry, inset bool) [][][2]int {
	var out [][][2]int
	add := func(r []orb.Point) {
		if len(r) < 2 {
			return
		}
		pts := make([][2]int, len(r))
		for i, pt := range r {
			pts[i] = p.micro(pt, inset)
		}
		out = append(out, pts)
	}
	switch g := g.(type) {
	case orb.Polygon:
		for _, r := range g {
			add(r)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			for _, r := range poly {
				add(r)
			}
		}
	case orb.LineString:
		add(g)
	case orb.MultiLineString:
		for _, l := range g {
			add(l)
		}
	case orb.Ring:
		add(g)
	case orb.Point:
		add([]orb.Point{g, g})
	case orb.MultiPoint:
		for _, pt := range g {
			add([]orb.Point{pt, pt})
		}
	case orb.Collection:
		for _, c := range g {
			out = append(out, p.rings(c, inset)...)
		}
	}
	return out
}

// Render returns the map as w x h cells of braille. The country outline is
// filled; every other layer contributes its edges.
func Render(res *render.Result, cfg config.Config, w, h int) []string {
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	c := newCanvas(w, h)
	vw, vh := res.Doc.Width, res.Doc.Height
	if vw <= 0 || vh <= 0 {
		return c.lines()
	}
	p := projector{
		res:    res,
		offset: cfg.InsetOffset,
		sx:     float64(w*2-1) / vw,
		sy:     float64(h*4-1) / vh,
	}
	for _, s := range res.Shapes {
		rings := p.rings(s.Geometry, s.Inset)
		if s.Layer == config.LayerCountry {
			c.fill(rings)
		}
		for _, r := range rings {
			c.ring(r)
		}
	}
	return c.lines()
}

func summary(res *render.Result, cfg config.Config) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("dkmap"))
	b.WriteString("\n")
	row := func(k, v string) {
		fmt.Fprintf(&b, "%s %s\n", dimStyle.Render(fmt.Sprintf("%-9s", k)), v)
	}
	row("quality", cfg.Quality.Name)
	row("layout", layout(cfg))
	row("paths", fmt.Sprint(res.Doc.Paths()))
	for _, name := range res.Layers {
		n := 0
		if fc, ok := res.Features[name]; ok {
			n = len(fc.Features)
		}
		row(name, fmt.Sprint(n))
	}
	inset := 0
	for _, s := range res.Shapes {
		if s.Inset {
			inset++
		}
	}
	if inset > 0 {
		row("inset", insetStyle.Render(fmt.Sprintf("%d shapes", inset)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func layout(cfg config.Config) string {
	if cfg.Packed {
		return "packed"
	}
	return "geographic"
}

// View composes the map and the run summary side by side.
func View(res *render.Result, cfg config.Config, w, h int) string {
	art := mapStyle.Render(strings.Join(Render(res, cfg, w, h), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, boxStyle.Render(art), boxStyle.Render(summary(res, cfg)))
}
