package exporter

import (
	"encoding/csv"
	"fmt"
	"os"

	"prodscrape/record"
)

// CSV writes records to a CSV file: one header row of the field union, one
// data row per record, missing values as empty cells.
type CSV struct {
	Path string
}

// NewCSV creates a CSV exporter writing to path.
func NewCSV(path string) *CSV {
	return &CSV{Path: path}
}

// Export writes all records. An empty record set still produces the output
// file, with no content.
func (e *CSV) Export(records []*record.Record) error {
	if err := ensureParentDir(e.Path); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(e.Path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if len(records) == 0 {
		return nil
	}

	header := headerFields(records)
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(header))
	for _, rec := range records {
		for i, field := range header {
			value, _ := rec.Get(field)
			row[i] = value
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
