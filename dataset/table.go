package dataset

import (
	"fmt"
)

/*
Table is a rectangular collection of raw text cells under a header, as read
from a CSV file or a database. The empty string stands for a missing value.
*/
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

/*
NewTable takes a header and a slice of rows and returns a table with them.
Rows shorter than the header are padded with empty cells and cells beyond
the header are dropped. An error is returned if the header is empty or
repeats a column name.
*/
func NewTable(headers []string, rows [][]string) (*Table, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("table has no columns")
	}
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if seen[h] {
			return nil, fmt.Errorf("table header repeats column %q", h)
		}
		seen[h] = true
	}
	normalized := make([][]string, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, fitRow(row, len(headers)))
	}
	return &Table{Headers: headers, Rows: normalized}, nil
}

func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	result := make([]string, width)
	copy(result, row)
	return result
}

// Columns returns the column names in header order.
func (t *Table) Columns() []string {
	return t.Headers
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	return len(t.Rows)
}

/*
Index returns the position of the named column in the header or -1 if the
table has no such column.
*/
func (t *Table) Index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

/*
Cells returns the values of the named column, or nil if the table has no
such column.
*/
func (t *Table) Cells(name string) []string {
	i := t.Index(name)
	if i < 0 {
		return nil
	}
	result := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		result = append(result, cell(row, i))
	}
	return result
}

// Row returns the i-th row as a map from column name to cell.
func (t *Table) Row(i int) map[string]string {
	result := make(map[string]string, len(t.Headers))
	for j, h := range t.Headers {
		result[h] = cell(t.Rows[i], j)
	}
	return result
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
