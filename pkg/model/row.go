// pkg/model/row.go
package model

import "strings"

// Row is a single record keyed by upper-cased column name
type Row map[string]interface{}

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	clone := make(Row, len(r))
	for col, val := range r {
		clone[col] = val
	}
	return clone
}

// RowSet is an ordered set of rows sharing a column list.
// Column names are normalized to upper case on construction so reads
// from any backing store compare consistently.
type RowSet struct {
	Columns []string
	Rows    []Row
}

// NewRowSet builds a row set with normalized column names.
// Row keys are normalized as well; rows may carry fewer columns than
// the column list (missing values read back as nil).
func NewRowSet(columns []string, rows []Row) *RowSet {
	normalized := make([]string, len(columns))
	for i, col := range columns {
		normalized[i] = NormalizeColumn(col)
	}

	normalizedRows := make([]Row, len(rows))
	for i, row := range rows {
		nr := make(Row, len(row))
		for col, val := range row {
			nr[NormalizeColumn(col)] = val
		}
		normalizedRows[i] = nr
	}

	return &RowSet{
		Columns: normalized,
		Rows:    normalizedRows,
	}
}

// Len returns the number of rows
func (rs *RowSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// HasColumn reports whether the set carries the named column
func (rs *RowSet) HasColumn(name string) bool {
	target := NormalizeColumn(name)
	for _, col := range rs.Columns {
		if col == target {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the row set. Used to keep the edit
// baseline independent from the row set handed to the caller.
func (rs *RowSet) Clone() *RowSet {
	if rs == nil {
		return nil
	}

	columns := make([]string, len(rs.Columns))
	copy(columns, rs.Columns)

	rows := make([]Row, len(rs.Rows))
	for i, row := range rs.Rows {
		rows[i] = row.Clone()
	}

	return &RowSet{Columns: columns, Rows: rows}
}

// NormalizeColumn converts a column name to its canonical form
func NormalizeColumn(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
