package exporter

import (
	"encoding/json"
	"fmt"
	"os"

	"prodscrape/record"
)

// JSON writes records as a JSON array of objects. Fields without a value
// are rendered as null.
type JSON struct {
	Path string
}

// NewJSON creates a JSON exporter writing to path.
func NewJSON(path string) *JSON {
	return &JSON{Path: path}
}

// Export writes all records. An empty record set produces an empty array.
func (e *JSON) Export(records []*record.Record) error {
	if err := ensureParentDir(e.Path); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	objects := make([]map[string]*string, 0, len(records))
	for _, rec := range records {
		obj := make(map[string]*string, rec.Len())
		for _, field := range rec.Fields() {
			if value, ok := rec.Get(field); ok {
				v := value
				obj[field] = &v
			} else {
				obj[field] = nil
			}
		}
		objects = append(objects, obj)
	}

	data, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	if err := os.WriteFile(e.Path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
