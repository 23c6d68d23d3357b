package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"prodscrape/record"
)

// CanonicalFields are the detail fields every detail record carries, in
// order, whether or not a selector is configured for them.
var CanonicalFields = []string{"title", "price", "image_url", "description"}

// DetailExtractor extracts one flat record from a product detail page using
// a field-to-selector-spec mapping.
type DetailExtractor struct {
	selectors []FieldSelector
}

// NewDetailExtractor creates an extractor for the given selector mapping.
// The mapping may leave canonical fields unset; they still appear in every
// extracted record, without a value.
func NewDetailExtractor(selectors []FieldSelector) *DetailExtractor {
	return &DetailExtractor{selectors: selectors}
}

// Extract parses the HTML and returns one record. Field order is the
// canonical fields followed by extra configured fields in configuration
// order, duplicates removed with the first occurrence winning.
func (e *DetailExtractor) Extract(html string) (*record.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	specs := make(map[string]string, len(e.selectors))
	for _, fs := range e.selectors {
		if _, seen := specs[fs.Field]; !seen {
			specs[fs.Field] = fs.Spec
		}
	}

	rec := record.New()
	for _, field := range e.fieldOrder() {
		value, ok := extractField(doc.Selection, field, specs[field])
		if !ok {
			rec.SetMissing(field)
			continue
		}
		rec.Set(field, value)
	}
	return rec, nil
}

// fieldOrder returns canonical fields followed by extra configured fields,
// each at most once.
func (e *DetailExtractor) fieldOrder() []string {
	order := make([]string, 0, len(CanonicalFields)+len(e.selectors))
	seen := make(map[string]bool, len(CanonicalFields)+len(e.selectors))
	for _, field := range CanonicalFields {
		order = append(order, field)
		seen[field] = true
	}
	for _, fs := range e.selectors {
		if seen[fs.Field] {
			continue
		}
		order = append(order, fs.Field)
		seen[fs.Field] = true
	}
	return order
}

// extractField evaluates a raw selector spec against a selection root and
// returns the trimmed field value. The second return is false when the spec
// is empty, nothing matches, the requested attribute is absent, or the
// value is empty after trimming.
func extractField(root *goquery.Selection, field, rawSpec string) (string, bool) {
	if rawSpec == "" {
		return "", false
	}

	spec := ParseSpec(rawSpec)
	sel := root.Find(spec.Selector).First()
	if sel.Length() == 0 {
		return "", false
	}

	var value string
	switch {
	case spec.Attr != "":
		attr, ok := sel.Attr(spec.Attr)
		if !ok {
			return "", false
		}
		value = attr
	case field == "image_url":
		// Compatibility rule: an image_url field without an explicit
		// attribute reads src first and falls back to text.
		if src, ok := sel.Attr("src"); ok && src != "" {
			value = src
		} else {
			value = collapseText(sel)
		}
	default:
		value = collapseText(sel)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// collapseText returns the selection's text with surrounding whitespace
// trimmed and internal runs of whitespace collapsed to single spaces.
func collapseText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
