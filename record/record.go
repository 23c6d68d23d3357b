// Package record provides the insertion-ordered field mapping that flows
// through the scraping pipeline from extraction to export.
package record

// Record is an ordered mapping from field name to an optional string value.
// Fields keep the order in which they were first set; setting a field again
// replaces its value without moving it. A field can be present with no value
// (extraction found nothing), which is distinct from the field being absent
// entirely.
type Record struct {
	fields []string
	values map[string]*string
}

// New creates an empty record.
func New() *Record {
	return &Record{
		values: make(map[string]*string),
	}
}

// Set stores a value for the given field, appending the field to the order
// on first use.
func (r *Record) Set(field, value string) {
	if _, seen := r.values[field]; !seen {
		r.fields = append(r.fields, field)
	}
	v := value
	r.values[field] = &v
}

// SetMissing marks the field as present but without a value.
func (r *Record) SetMissing(field string) {
	if _, seen := r.values[field]; !seen {
		r.fields = append(r.fields, field)
	}
	r.values[field] = nil
}

// Get returns the value for a field. The second return is false when the
// field is absent or has no value.
func (r *Record) Get(field string) (string, bool) {
	v, seen := r.values[field]
	if !seen || v == nil {
		return "", false
	}
	return *v, true
}

// Has reports whether the field exists in the record, with or without a
// value.
func (r *Record) Has(field string) bool {
	_, seen := r.values[field]
	return seen
}

// Fields returns the field names in first-set order. The returned slice is a
// copy and safe to mutate.
func (r *Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of fields in the record.
func (r *Record) Len() int {
	return len(r.fields)
}
