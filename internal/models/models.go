package models

import "time"

// TimeRange bounds a query window.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// LastPeriod returns the window of length d ending at now.
func LastPeriod(now time.Time, d time.Duration) TimeRange {
	return TimeRange{Start: now.Add(-d), End: now}
}

// TableRef identifies a physical table taking part in a UNION. PartitionTag
// is only used by host-group reports to alias the joined tables.
type TableRef struct {
	Name         string
	PartitionTag string
}

// Row is one result row: an ordered mapping from column name to value.
type Row struct {
	columns []string
	values  map[string]any
}

// NewRow builds a row from parallel column and value slices.
func NewRow(columns []string, values []any) *Row {
	r := &Row{
		columns: make([]string, len(columns)),
		values:  make(map[string]any, len(columns)),
	}
	copy(r.columns, columns)
	for i, col := range columns {
		if i < len(values) {
			r.values[col] = values[i]
		} else {
			r.values[col] = nil
		}
	}
	return r
}

// RowFromMap builds a row from a mapping, ordered by columns.
func RowFromMap(columns []string, m map[string]any) *Row {
	values := make([]any, len(columns))
	for i, col := range columns {
		values[i] = m[col]
	}
	return NewRow(columns, values)
}

// Columns returns the column names in result order.
func (r *Row) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Get returns the value stored under name and whether the column exists.
func (r *Row) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the value stored under name, or nil.
func (r *Row) Value(name string) any {
	return r.values[name]
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.columns)
}

// Shape selects how a result set is rendered.
type Shape int

const (
	ShapeTable Shape = iota
	ShapeMelt
	ShapeJSON
)

func (s Shape) String() string {
	switch s {
	case ShapeMelt:
		return "melt"
	case ShapeJSON:
		return "json"
	default:
		return "table"
	}
}

// ReportSpec describes how a report renders. It is built once per invocation.
type ReportSpec struct {
	Columns ColumnSet
	Shape   Shape
	// Parse disables width padding for table and melt shapes.
	Parse bool
	// IDColumn and TimeColumn identify rows in the melt shape.
	IDColumn   string
	TimeColumn string
}
