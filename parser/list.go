package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListLinkExtractor pulls detail-page link targets out of a list page using
// a single CSS selector for anchor-like elements.
type ListLinkExtractor struct {
	selector string
}

// NewListLinkExtractor creates an extractor for the given link selector.
func NewListLinkExtractor(selector string) *ListLinkExtractor {
	return &ListLinkExtractor{selector: selector}
}

// Extract returns the trimmed href of every matching element in document
// order. Elements without an href, or with an href that is empty after
// trimming, are skipped. Duplicates are preserved.
func (e *ListLinkExtractor) Extract(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var links []string
	doc.Find(e.selector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		links = append(links, href)
	})
	return links, nil
}
