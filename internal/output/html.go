package output

import (
	"bytes"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

// container builds <div id=...><meta charset="utf-8">svg</div>.
func container(svg []byte, id string) (*html.Node, error) {
	div := element(atom.Div, html.Attribute{Key: "id", Val: id})
	div.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	nodes, err := html.ParseFragment(bytes.NewReader(svg), element(atom.Div))
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		div.AppendChild(n)
	}
	return div, nil
}

// Container returns the drawing wrapped in its container div, ready to be
// embedded in another page.
func Container(svg []byte, id string) ([]byte, error) {
	div, err := container(svg, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, div); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Page returns a complete HTML document holding the container.
func Page(svg []byte, id string) ([]byte, error) {
	div, err := container(svg, id)
	if err != nil {
		return nil, err
	}
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html)
	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	body := element(atom.Body)
	body.AppendChild(div)
	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
