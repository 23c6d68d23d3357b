package pipeline

import (
	"net/url"
	"strings"

	"prodscrape/record"
)

// ResolveLink turns a raw link target from a list page into a fetchable
// URL. Targets that already start with http (case-insensitively) pass
// through unchanged; anything else is joined against the list page URL.
func ResolveLink(base, link string) string {
	link = strings.TrimSpace(link)
	if strings.HasPrefix(strings.ToLower(link), "http") {
		return link
	}
	return joinURL(base, link)
}

// NormalizeRecordURLs rewrites, in place, every field whose name ends in
// "_url" and has a non-empty value, resolving relative values against base.
// Absolute values are left untouched.
func NormalizeRecordURLs(rec *record.Record, base string) {
	for _, field := range rec.Fields() {
		if !strings.HasSuffix(field, "_url") {
			continue
		}
		value, ok := rec.Get(field)
		if !ok || value == "" {
			continue
		}
		if ref, err := url.Parse(value); err == nil && ref.IsAbs() {
			continue
		}
		rec.Set(field, joinURL(base, value))
	}
}

// joinURL resolves ref against base with standard relative resolution,
// returning ref unchanged when either side fails to parse.
func joinURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
