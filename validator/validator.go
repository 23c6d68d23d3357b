// Package validator computes data quality summaries over scraped record
// sets and renders them as plain-text reports.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"prodscrape/record"
)

// Summary is a read-only snapshot of data quality across one run's records:
// the record count, the sorted union of field names, and how many records
// are missing a value for each field.
type Summary struct {
	TotalRecords  int
	Fields        []string
	MissingCounts map[string]int
}

// Validate computes the summary for a record set. A value counts as missing
// when the field is absent from a record, has no value, or is an empty
// string.
func Validate(records []*record.Record) *Summary {
	fieldSet := make(map[string]bool)
	for _, rec := range records {
		for _, field := range rec.Fields() {
			fieldSet[field] = true
		}
	}

	summary := &Summary{
		TotalRecords:  len(records),
		Fields:        []string{},
		MissingCounts: make(map[string]int),
	}
	if len(records) == 0 {
		return summary
	}

	for field := range fieldSet {
		summary.Fields = append(summary.Fields, field)
	}
	sort.Strings(summary.Fields)

	for _, field := range summary.Fields {
		summary.MissingCounts[field] = 0
	}
	for _, rec := range records {
		for _, field := range summary.Fields {
			value, ok := rec.Get(field)
			if !ok || value == "" {
				summary.MissingCounts[field]++
			}
		}
	}

	return summary
}

// Format renders the summary as a deterministic multi-line report: the
// total, the comma-joined sorted field list, then one indented count line
// per field in the same order.
func Format(summary *Summary) string {
	lines := []string{
		fmt.Sprintf("total_records: %d", summary.TotalRecords),
		fmt.Sprintf("fields: %s", strings.Join(summary.Fields, ", ")),
		"missing_counts:",
	}
	for _, field := range summary.Fields {
		lines = append(lines, fmt.Sprintf("  %s: %d", field, summary.MissingCounts[field]))
	}
	return strings.Join(lines, "\n")
}
