package svg

import "strings"

// PatternMarker is the marker reference that tags an element as a pattern
// source for its siblings.
const PatternMarker = "marker-start:url(#inkstitch-pattern-marker)"

// embroiderableTags are the element types that can carry embroidery or
// pattern geometry.
var embroiderableTags = map[string]bool{
	"path":     true,
	"rect":     true,
	"circle":   true,
	"ellipse":  true,
	"line":     true,
	"polyline": true,
	"polygon":  true,
}

// Embroiderable returns true when the element type can carry stitchable
// geometry.
func (el *Element) Embroiderable() bool {
	return embroiderableTags[el.Tag]
}

// IsPattern returns true when the element is a pattern source rather than an
// embroidery element, recognized by the pattern marker in its style.
func (el *Element) IsPattern() bool {
	if !el.Embroiderable() {
		return false
	}
	return strings.Contains(el.Attr["style"], PatternMarker)
}

// PatternSiblings returns the pattern source elements that apply to el: all
// marker-tagged elements sharing el's parent group.
func (el *Element) PatternSiblings() []*Element {
	if el.Parent == nil {
		return nil
	}
	patterns := []*Element{}
	for _, sibling := range el.Parent.Children {
		if sibling.IsPattern() {
			patterns = append(patterns, sibling)
		}
	}
	return patterns
}

// CommandTarget finds the target point of a command (such as "fill_start" or
// "fill_end") attached to el. A command is a use element carrying an
// inkstitch:command attribute, attached by a connector element whose
// inkscape:connection-start references the command and whose
// inkscape:connection-end references el.
func (doc *Document) CommandTarget(el *Element, command string) (Point, bool) {
	id := el.ID()
	if id == "" || doc.Root == nil {
		return Point{}, false
	}
	for _, node := range doc.Root.Descendants() {
		if node.Attr["inkscape:connection-end"] != "#"+id {
			continue
		}
		start := strings.TrimPrefix(node.Attr["inkscape:connection-start"], "#")
		symbol := doc.ElementByID(start)
		if symbol == nil || symbol.Attr["inkstitch:command"] != command {
			continue
		}
		return Point{
			parseFloatAttr(symbol.Attr["x"]),
			parseFloatAttr(symbol.Attr["y"]),
		}, true
	}
	return Point{}, false
}

// Guide is an Inkscape guide line.
type Guide struct {
	Label     string
	Position  Point
	Direction Point
}

// Guides returns the document's Inkscape guides. Guide positions are stored
// in Inkscape's coordinate system whose Y axis is reversed from SVG's, and
// the orientation vector components come swapped; both are corrected here.
func (doc *Document) Guides() []Guide {
	if doc.Root == nil {
		return nil
	}
	guides := []Guide{}
	for _, node := range doc.Root.Descendants() {
		if node.Tag != "sodipodi:namedview" {
			continue
		}
		for _, child := range node.Children {
			if child.Tag != "sodipodi:guide" {
				continue
			}
			pos := parseFloats(child.Attr["position"])
			orient := parseFloats(child.Attr["orientation"])
			if len(pos) < 2 || len(orient) < 2 {
				continue
			}
			guides = append(guides, Guide{
				Label:     child.Attr["inkscape:label"],
				Position:  Point{pos[0], doc.Height - pos[1]},
				Direction: Point{orient[1], orient[0]},
			})
		}
	}
	return guides
}
