package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"prodscrape/record"
)

// ListItemExtractor extracts complete records directly from repeated item
// containers on a list page, without following links to detail pages.
type ListItemExtractor struct {
	containerSelector string
	fields            []FieldSelector
}

// NewListItemExtractor creates an extractor that treats every element
// matched by containerSelector as one item and evaluates the field
// selectors relative to it.
func NewListItemExtractor(containerSelector string, fields []FieldSelector) *ListItemExtractor {
	return &ListItemExtractor{
		containerSelector: containerSelector,
		fields:            fields,
	}
}

// Extract returns one record per matched container, in document order. Only
// configured fields appear, in configuration order; there is no canonical
// field defaulting in this mode.
func (e *ListItemExtractor) Extract(html string) ([]*record.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	fields := dedupeFields(e.fields)

	var records []*record.Record
	doc.Find(e.containerSelector).Each(func(_ int, container *goquery.Selection) {
		rec := record.New()
		for _, fs := range fields {
			value, ok := extractField(container, fs.Field, fs.Spec)
			if !ok {
				rec.SetMissing(fs.Field)
				continue
			}
			rec.Set(fs.Field, value)
		}
		records = append(records, rec)
	})
	return records, nil
}

// dedupeFields removes repeated field names, keeping the first occurrence.
func dedupeFields(fields []FieldSelector) []FieldSelector {
	out := make([]FieldSelector, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, fs := range fields {
		if seen[fs.Field] {
			continue
		}
		out = append(out, fs)
		seen[fs.Field] = true
	}
	return out
}
