package svg

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// parseStylesheet collects the rules of a <style> block. Only simple tag,
// class and id selectors are supported, which covers what vector editors
// emit.
func (doc *Document) parseStylesheet(data string) {
	parser := css.NewParser(parse.NewInputString(data), false)
	selectors := []string{}
	styles := []string{}
	for {
		gt, _, data := parser.Next()
		if gt == css.QualifiedRuleGrammar || gt == css.BeginRulesetGrammar {
			selector := []string{}
			for _, v := range parser.Values() {
				if v.TokenType == css.DelimToken || v.TokenType == css.IdentToken || v.TokenType == css.HashToken {
					selector = append(selector, string(v.Data))
				} else if v.TokenType == css.WhitespaceToken {
					selector = append(selector, " ")
				}
			}
			if sel := strings.TrimSpace(strings.Join(selector, "")); sel != "" {
				selectors = append(selectors, sel)
			}
		}

		if gt == css.DeclarationGrammar {
			values := ""
			for _, value := range parser.Values() {
				values += string(value.Data)
			}
			styles = append(styles, fmt.Sprintf("%s:%s", string(data), values))
		}

		if gt == css.ErrorGrammar || gt == css.EndRulesetGrammar {
			for _, sel := range selectors {
				doc.styles[sel] = styles
				doc.styleSelectors = append(doc.styleSelectors, sel)
			}
			selectors = []string{}
			styles = []string{}
		}

		if gt == css.ErrorGrammar {
			break
		}
	}
}

// Style resolves a style property for the element: the inline style attribute
// wins, then stylesheet rules, then the presentation attribute. Returns def
// when the property is not set anywhere.
func (el *Element) Style(key, def string) string {
	if val, ok := inlineStyle(el.Attr["style"])[key]; ok {
		return val
	}
	if el.doc != nil {
		for i := len(el.doc.styleSelectors) - 1; 0 <= i; i-- {
			sel := el.doc.styleSelectors[i]
			if !el.matchesSelector(sel) {
				continue
			}
			for _, decl := range el.doc.styles[sel] {
				if keyVal := strings.SplitN(decl, ":", 2); len(keyVal) == 2 && strings.TrimSpace(keyVal[0]) == key {
					return strings.TrimSpace(keyVal[1])
				}
			}
		}
	}
	if val, ok := el.Attr[key]; ok {
		return val
	}
	return def
}

// HasStyle returns true if the property is set on the element itself, either
// inline or as a presentation attribute, and is not "none".
func (el *Element) HasStyle(key string) bool {
	val := el.Style(key, "")
	return val != "" && val != "none"
}

func (el *Element) matchesSelector(sel string) bool {
	switch {
	case strings.HasPrefix(sel, "."):
		for _, class := range strings.Fields(el.Attr["class"]) {
			if class == sel[1:] {
				return true
			}
		}
		return false
	case strings.HasPrefix(sel, "#"):
		return el.ID() == sel[1:]
	default:
		return el.Tag == sel
	}
}

func inlineStyle(style string) map[string]string {
	styles := map[string]string{}
	for _, item := range strings.Split(style, ";") {
		if keyVal := strings.SplitN(item, ":", 2); len(keyVal) == 2 {
			styles[strings.TrimSpace(keyVal[0])] = strings.TrimSpace(keyVal[1])
		}
	}
	return styles
}
