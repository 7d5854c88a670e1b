package render

import (
	"bytes"
	"strconv"

	"github.com/beevik/etree"
)

// Root group ids.
const (
	MainRoot  = "dk_main"
	InsetRoot = "dk_bornholm"
)

// Document is the SVG tree under construction. Groups are addressed by root
// id and key; looking a group up twice returns the same element.
type Document struct {
	doc    *etree.Document
	svg    *etree.Element
	roots  map[string]*etree.Element
	groups map[string]*etree.Element
	paths  int

	Width, Height float64
}

// NewDocument starts an SVG with a responsive viewBox and no fixed size.
func NewDocument(w, h float64) *Document {
	d := &Document{
		doc:    etree.NewDocument(),
		roots:  map[string]*etree.Element{},
		groups: map[string]*etree.Element{},
		Width:  w,
		Height: h,
	}
	d.svg = d.doc.CreateElement("svg")
	d.svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	d.svg.CreateAttr("viewBox", "0 0 "+num(w)+" "+num(h))
	return d
}

// Root returns the top-level group with the given id, creating it on first
// use with the given class.
func (d *Document) Root(id, class string) *etree.Element {
	if g, ok := d.roots[id]; ok {
		return g
	}
	g := d.svg.CreateElement("g")
	g.CreateAttr("id", id)
	if class != "" {
		g.CreateAttr("class", class)
	}
	d.roots[id] = g
	return g
}

// HasRoot reports whether a root group exists.
func (d *Document) HasRoot(id string) bool {
	_, ok := d.roots[id]
	return ok
}

// Group looks up key under root, or creates it beneath the deepest ancestor
// key that already exists under the same root. Ancestors are ordered from the
// top of the hierarchy down. The second result is true when the group is new.
func (d *Document) Group(root, key string, ancestors []string) (*etree.Element, bool) {
	id := root + "/" + key
	if g, ok := d.groups[id]; ok {
		return g, false
	}
	parent, ok := d.roots[root]
	if !ok {
		parent = d.Root(root, "")
	}
	for _, a := range ancestors {
		if g, ok := d.groups[root+"/"+a]; ok {
			parent = g
		}
	}
	g := parent.CreateElement("g")
	d.groups[id] = g
	return g, true
}

// Lookup returns an existing group.
func (d *Document) Lookup(root, key string) (*etree.Element, bool) {
	g, ok := d.groups[root+"/"+key]
	return g, ok
}

// AddPath appends a path element to parent.
func (d *Document) AddPath(parent *etree.Element, data, class string) *etree.Element {
	p := parent.CreateElement("path")
	if class != "" {
		p.CreateAttr("class", class)
	}
	p.CreateAttr("d", data)
	d.paths++
	return p
}

// Paths counts the path elements written so far.
func (d *Document) Paths() int { return d.paths }

// SVG serializes the drawing as a standalone svg element.
func (d *Document) SVG() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Tree returns a deep copy of the underlying XML document.
func (d *Document) Tree() *etree.Document { return d.doc.Copy() }

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
