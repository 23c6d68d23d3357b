package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prodscrape/record"
)

// TestResolveLink_PassThrough verifies absolute links are untouched
func TestResolveLink_PassThrough(t *testing.T) {
	assert.Equal(t, "https://other.com/p/1",
		ResolveLink("https://example.com/products", "https://other.com/p/1"))
	assert.Equal(t, "HTTP://OTHER.COM/P/1",
		ResolveLink("https://example.com/products", "HTTP://OTHER.COM/P/1"),
		"http prefix check should be case-insensitive")
}

// TestResolveLink_RelativeJoined verifies relative links are joined against
// the list URL
func TestResolveLink_RelativeJoined(t *testing.T) {
	assert.Equal(t, "https://example.com/product/1",
		ResolveLink("https://example.com/products", "product/1"))
	assert.Equal(t, "https://example.com/p/2",
		ResolveLink("https://example.com/products/", "/p/2"))
}

// TestNormalizeRecordURLs_RelativeResolved verifies *_url fields are
// resolved against the base
func TestNormalizeRecordURLs_RelativeResolved(t *testing.T) {
	rec := record.New()
	rec.Set("title", "Widget")
	rec.Set("image_url", "/img/a.jpg")
	rec.Set("manual_url", "docs/manual.pdf")

	NormalizeRecordURLs(rec, "https://example.com/p/widget")

	img, _ := rec.Get("image_url")
	assert.Equal(t, "https://example.com/img/a.jpg", img)
	manual, _ := rec.Get("manual_url")
	assert.Equal(t, "https://example.com/p/docs/manual.pdf", manual)

	title, _ := rec.Get("title")
	assert.Equal(t, "Widget", title, "non-_url fields must not be touched")
}

// TestNormalizeRecordURLs_AbsoluteUnchanged verifies absolute values stay
// byte-identical
func TestNormalizeRecordURLs_AbsoluteUnchanged(t *testing.T) {
	rec := record.New()
	rec.Set("image_url", "https://cdn.example.com/a.jpg?size=large")

	NormalizeRecordURLs(rec, "https://example.com/p/widget")

	img, _ := rec.Get("image_url")
	assert.Equal(t, "https://cdn.example.com/a.jpg?size=large", img)
}

// TestNormalizeRecordURLs_SchemeRelative verifies scheme-relative values
// are joined against the base scheme
func TestNormalizeRecordURLs_SchemeRelative(t *testing.T) {
	rec := record.New()
	rec.Set("image_url", "//cdn.example.com/a.jpg")

	NormalizeRecordURLs(rec, "https://example.com/p/widget")

	img, _ := rec.Get("image_url")
	assert.Equal(t, "https://cdn.example.com/a.jpg", img)
}

// TestNormalizeRecordURLs_MissingAndEmptySkipped verifies valueless fields
// are left alone
func TestNormalizeRecordURLs_MissingAndEmptySkipped(t *testing.T) {
	rec := record.New()
	rec.SetMissing("image_url")

	NormalizeRecordURLs(rec, "https://example.com")

	_, ok := rec.Get("image_url")
	assert.False(t, ok, "missing field should stay missing")
}

// TestNormalizeRecordURLs_SuffixIsCaseSensitive verifies only lowercase
// _url suffixes are rewritten
func TestNormalizeRecordURLs_SuffixIsCaseSensitive(t *testing.T) {
	rec := record.New()
	rec.Set("image_URL", "/a.jpg")

	NormalizeRecordURLs(rec, "https://example.com")

	v, _ := rec.Get("image_URL")
	assert.Equal(t, "/a.jpg", v)
}
