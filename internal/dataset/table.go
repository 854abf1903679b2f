// Package dataset loads heterogeneous tabular source files and normalizes
// them to a canonical schema: period, account, amount, currency, entity.
//
// Tables are dynamic: column names come from the input file and cells hold
// string, float64, time.Time, or nil. Normalization adds canonical columns
// without discarding the originals.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row maps a column name to a cell value (string, float64, time.Time, or nil).
type Row map[string]interface{}

// Table is an ordered collection of columns over rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given column order.
func NewTable(columns []string) *Table {
	return &Table{Columns: columns, Rows: []Row{}}
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn registers a column name if not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		copied := make(Row, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out.Rows[i] = copied
	}
	return out
}

// Filter returns a new table containing the rows for which keep returns true.
// Column order is shared with the receiver.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// IsNumericColumn reports whether every non-empty cell in the column holds a
// numeric value and at least one such cell exists.
func (t *Table) IsNumericColumn(name string) bool {
	seen := false
	for _, row := range t.Rows {
		v := row[name]
		if v == nil {
			continue
		}
		if _, ok := v.(float64); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// CellFloat extracts a numeric value from a cell, parsing strings when
// necessary. Thousands separators are tolerated.
func CellFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CellString renders a cell as text for fuzzy matching and re-parsing.
func CellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", x)
	}
}

// CellTime extracts a time value from a cell.
func CellTime(v interface{}) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

// MonthStart truncates a time to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
