// Package dataset holds the in-memory table of streaming records for a
// single run, plus the pure filter transforms applied to it.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"
)

// Record is one streaming event. Fields vary between export files: a
// field missing from the source row has no map entry at all, which is
// distinct from a field that was present but null in the JSON (stored
// as a nil value).
type Record map[string]any

// Dataset is an ordered sequence of records. Its column set is the
// union of the field sets of every record appended, in first-seen
// order (alphabetical within a single record, since Go maps have no
// stable key order).
type Dataset struct {
	columns []string
	colSet  map[string]bool
	rows    []Record
}

func New() *Dataset {
	return &Dataset{colSet: make(map[string]bool)}
}

func (d *Dataset) Len() int {
	return len(d.rows)
}

func (d *Dataset) Row(i int) Record {
	return d.rows[i]
}

// Columns returns the ordered column union.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

func (d *Dataset) HasColumn(name string) bool {
	return d.colSet[name]
}

// Append adds a record, extending the column union with any fields not
// seen before.
func (d *Dataset) Append(r Record) {
	fields := make([]string, 0, len(r))
	for f := range r {
		if !d.colSet[f] {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)
	for _, f := range fields {
		d.colSet[f] = true
		d.columns = append(d.columns, f)
	}
	d.rows = append(d.rows, r)
}

// Merge concatenates the given datasets in order, preserving row order
// within each. No rows are dropped or deduplicated.
func Merge(parts []*Dataset) *Dataset {
	out := New()
	for _, p := range parts {
		if p == nil {
			continue
		}
		for _, c := range p.columns {
			if !out.colSet[c] {
				out.colSet[c] = true
				out.columns = append(out.columns, c)
			}
		}
		out.rows = append(out.rows, p.rows...)
	}
	return out
}

// Has reports whether the field exists on this record, even with a
// null value.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Missing reports whether the field is absent or null. This is what
// "no value" means for filtering purposes.
func (r Record) Missing(field string) bool {
	v, ok := r[field]
	return !ok || v == nil
}

func (r Record) String(field string) (string, bool) {
	s, ok := r[field].(string)
	return s, ok
}

func (r Record) Int(field string) (int64, bool) {
	switch v := r[field].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

func (r Record) Bool(field string) (bool, bool) {
	b, ok := r[field].(bool)
	return b, ok
}

// Timestamp layouts seen in Spotify exports. The extended history uses
// RFC3339 with a Z suffix; older account-data exports use a naive
// "YYYY-MM-DD HH:MM" form.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a record's timestamp value. zoned reports
// whether the value carried timezone information. Naive values are
// read as UTC so that comparison against naive bounds is direct.
func ParseTimestamp(v any) (t time.Time, zoned bool, ok bool) {
	s, isStr := v.(string)
	if !isStr {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true, true
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, false, true
		}
	}
	return time.Time{}, false, false
}

// Time parses the named field as a timestamp.
func (r Record) Time(field string) (time.Time, bool) {
	t, _, ok := ParseTimestamp(r[field])
	return t, ok
}

// WriteCSV writes the dataset to path with the column union as header.
// Absent and null cells both render as empty strings; the distinction
// only exists in memory, the CSV is an export artifact.
func (d *Dataset) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(d.columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(d.columns))
	for _, r := range d.rows {
		for i, col := range d.columns {
			row[i] = cellString(r[col])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case bool:
		return strconv.FormatBool(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}
