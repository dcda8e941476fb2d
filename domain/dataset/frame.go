package dataset

import (
	"plaquerisk/domain/feature"
)

// Frame is a small column-ordered table of typed feature values. It is the
// shape historical cohort data arrives in and the shape classifier queries
// are built from.
type Frame struct {
	Columns []string
	Rows    [][]feature.Value
}

// NewFrame creates an empty frame with the given column order.
func NewFrame(columns []string) *Frame {
	copied := make([]string, len(columns))
	copy(copied, columns)
	return &Frame{Columns: copied}
}

// AppendRow adds one row. Rows shorter than the column list are padded with
// missing values so column access stays total.
func (f *Frame) AppendRow(row []feature.Value) {
	padded := make([]feature.Value, len(f.Columns))
	for i := range padded {
		if i < len(row) {
			padded[i] = row[i]
		} else {
			padded[i] = feature.NewMissingValue()
		}
	}
	f.Rows = append(f.Rows, padded)
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return len(f.Rows) }

// ColumnIndex returns the position of a named column.
func (f *Frame) ColumnIndex(name string) (int, bool) {
	for i, c := range f.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Column returns all values of a named column, or false when the column is
// absent from the frame.
func (f *Frame) Column(name string) ([]feature.Value, bool) {
	idx, ok := f.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	out := make([]feature.Value, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// NonMissing filters a column down to its present values, preserving row
// order so mode tie-breaks stay deterministic.
func NonMissing(values []feature.Value) []feature.Value {
	out := make([]feature.Value, 0, len(values))
	for _, v := range values {
		if !v.IsMissing {
			out = append(out, v)
		}
	}
	return out
}

// FromProfiles builds a query frame in schema column order from one or more
// profiles. This is the single place where profile data is laid out for a
// classifier, so every query shares the same column order.
func FromProfiles(schema feature.Schema, profiles ...feature.Profile) *Frame {
	f := NewFrame(schema.Names())
	for _, p := range profiles {
		row := make([]feature.Value, schema.Len())
		for i := 0; i < schema.Len(); i++ {
			row[i] = p.ValueAt(i)
		}
		f.Rows = append(f.Rows, row)
	}
	return f
}
