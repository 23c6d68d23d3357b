// Package parser turns fetched HTML into records using declarative CSS
// selector specs. A selector spec is a compact string naming a CSS selector
// plus how to read a value from the first element it matches: an attribute
// (`a.link@href`, `img::attr(src)`) or the element's collapsed text
// (`h1.title::text`, or just `h1.title`).
package parser

import "strings"

// Spec is a parsed selector spec: the CSS selector, the attribute to read
// (empty for none), and whether the element's text content is the value.
type Spec struct {
	Selector string
	Attr     string
	Text     bool
}

// FieldSelector pairs an output field name with its raw selector spec, in
// configuration order.
type FieldSelector struct {
	Field string
	Spec  string
}

// ParseSpec parses a raw selector spec string. Any input is syntactically
// acceptable; an invalid CSS selector only surfaces later, at selection
// time. The forms are checked in precedence order:
//
//	sel::attr(name)  -> attribute extraction
//	sel@name         -> attribute extraction (split on the last @)
//	sel::text        -> text extraction
//	sel              -> text extraction (default)
//
// The @ split uses the rightmost @ so that attribute-selector syntax inside
// the CSS part survives; selectors containing a literal trailing @ are
// pathological and intentionally left ambiguous.
func ParseSpec(raw string) Spec {
	if idx := strings.Index(raw, "::attr("); idx >= 0 && strings.HasSuffix(raw, ")") {
		return Spec{
			Selector: raw[:idx],
			Attr:     raw[idx+len("::attr(") : len(raw)-1],
		}
	}

	if idx := strings.LastIndex(raw, "@"); idx >= 0 {
		return Spec{
			Selector: raw[:idx],
			Attr:     raw[idx+1:],
		}
	}

	if sel, found := strings.CutSuffix(raw, "::text"); found {
		return Spec{Selector: sel, Text: true}
	}

	return Spec{Selector: raw, Text: true}
}
