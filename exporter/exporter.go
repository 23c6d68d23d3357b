// Package exporter persists scraped record sequences. Every sink renders
// records through the same header contract: the union of field names across
// all records, in first-seen order, with missing values rendered as empty.
package exporter

import (
	"os"
	"path/filepath"

	"prodscrape/record"
)

// headerFields returns the union of field names across all records, in the
// order they were first seen.
func headerFields(records []*record.Record) []string {
	var header []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, field := range rec.Fields() {
			if seen[field] {
				continue
			}
			header = append(header, field)
			seen[field] = true
		}
	}
	return header
}

// ensureParentDir creates the directory holding path if needed.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
