package svg

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func TestInlineStyle(t *testing.T) {
	styles := inlineStyle("fill:#ff0000; stroke : blue ;broken;stroke-width:2")
	test.String(t, styles["fill"], "#ff0000")
	test.String(t, styles["stroke"], "blue")
	test.String(t, styles["stroke-width"], "2")
	_, ok := styles["broken"]
	test.That(t, !ok)
}

func TestStylePrecedence(t *testing.T) {
	data := `<svg width="10" height="10">
		<style>
			path { fill: red; }
			.wide { stroke: blue; }
			#special { fill: green; }
		</style>
		<path id="inline" style="fill:#111111" fill="#222222" d=""/>
		<path id="attr" fill="#222222" d=""/>
		<path id="sheet" d=""/>
		<path id="special" d=""/>
		<path id="classy" class="wide other" d=""/>
		<rect id="bare" x="0" y="0" width="1" height="1"/>
	</svg>`
	doc, err := Parse(strings.NewReader(data))
	test.Error(t, err)

	var tts = []struct {
		id, key, val string
	}{
		{"inline", "fill", "#111111"}, // inline beats everything
		{"attr", "fill", "red"},       // stylesheet beats the attribute
		{"sheet", "fill", "red"},
		{"special", "fill", "green"}, // id rule comes later and wins
		{"classy", "stroke", "blue"},
		{"bare", "fill", "fallback"}, // no rule matches a rect
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			test.String(t, doc.ElementByID(tt.id).Style(tt.key, "fallback"), tt.val)
		})
	}
}

func TestHasStyle(t *testing.T) {
	data := `<svg width="10" height="10">
		<path id="filled" style="fill:#ff0000" d=""/>
		<path id="none" style="fill:none" d=""/>
		<path id="attr" fill="#ff0000" d=""/>
		<path id="bare" d=""/>
	</svg>`
	doc, err := Parse(strings.NewReader(data))
	test.Error(t, err)

	test.That(t, doc.ElementByID("filled").HasStyle("fill"))
	test.That(t, !doc.ElementByID("filled").HasStyle("stroke"))
	test.That(t, !doc.ElementByID("none").HasStyle("fill"))
	test.That(t, doc.ElementByID("attr").HasStyle("fill"))
	test.That(t, !doc.ElementByID("bare").HasStyle("fill"))
}
