// Package svg parses SVG documents just far enough for embroidery planning:
// element trees with resolved styles, path data flattened to point loops, and
// the Ink/Stitch specific companions of an element (pattern shapes, command
// markers and document guides).
package svg

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// Point is a 2D coordinate in SVG user units.
type Point struct {
	X, Y float64
}

// Element is a node in the parsed SVG tree.
type Element struct {
	Tag      string
	Attr     map[string]string
	Parent   *Element
	Children []*Element

	doc *Document
}

// Document is a parsed SVG document.
type Document struct {
	Root   *Element
	Width  float64
	Height float64

	// stylesheet rules from <style> blocks, selector to declarations in
	// document order
	styles         map[string][]string
	styleSelectors []string

	byID map[string]*Element
}

// Parse reads an SVG document into an element tree. Parsing is forgiving:
// anything that lexes as XML is accepted, unknown tags are kept in the tree.
func Parse(r io.Reader) (*Document, error) {
	z := parse.NewInput(r)
	defer z.Restore()

	doc := &Document{
		styles: map[string][]string{},
		byID:   map[string]*Element{},
	}

	l := xml.NewLexer(z)
	var cur *Element
	instyle := false
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return nil, l.Err()
			}
			if doc.Root == nil {
				return nil, fmt.Errorf("expected svg tag")
			}
			return doc, nil
		case xml.StartTagToken:
			attrs := map[string]string{}
			for {
				tt, _ = l.Next()
				if tt != xml.AttributeToken {
					break
				}
				val := l.AttrVal()
				val = val[1 : len(val)-1]
				attrs[string(l.Text())] = string(val)
			}

			tag := strings.TrimPrefix(string(data[1:]), "svg:")
			el := &Element{Tag: tag, Attr: attrs, Parent: cur, doc: doc}
			if cur != nil {
				cur.Children = append(cur.Children, el)
			} else if tag == "svg" {
				doc.Root = el
				doc.Width = parseFloatAttr(attrs["width"])
				doc.Height = parseFloatAttr(attrs["height"])
			}
			if id, ok := attrs["id"]; ok {
				doc.byID[id] = el
			}
			if tag == "style" {
				instyle = true
			}
			if tt != xml.StartTagCloseVoidToken {
				cur = el
			}
		case xml.EndTagToken:
			if cur != nil {
				if cur.Tag == "style" {
					instyle = false
				}
				cur = cur.Parent
			}
		case xml.TextToken, xml.CDATAToken:
			if instyle {
				doc.parseStylesheet(string(data))
			}
		}
	}
}

// ElementByID returns the element carrying the given id attribute.
func (doc *Document) ElementByID(id string) *Element {
	return doc.byID[id]
}

// Descendants returns el and all elements below it in document order.
func (el *Element) Descendants() []*Element {
	els := []*Element{el}
	for _, child := range el.Children {
		els = append(els, child.Descendants()...)
	}
	return els
}

// ID returns the element's id attribute.
func (el *Element) ID() string {
	return el.Attr["id"]
}

// Label returns the Inkscape label if present, otherwise the id.
func (el *Element) Label() string {
	if label, ok := el.Attr["inkscape:label"]; ok {
		return label
	}
	return el.ID()
}
