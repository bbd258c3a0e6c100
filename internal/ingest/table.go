// Package ingest loads raw per-wave survey extracts into in-memory tables.
//
// Extracts arrive as CSV or Excel files, one file per survey module per
// wave. Column naming drifts across waves (the rounds were independently
// designed), so lookups go through alias lists rather than fixed positions:
// the first alias present in a table's header wins. A column absent under
// every alias is schema drift, reported by the builders and absorbed as
// missing values, never an error.
package ingest

import (
	"strings"

	"panelcli/internal/normalize"
)

// RawTable is one rectangular extract: a header row plus data rows, all
// cells as received. Row order is preserved; the duplicate-key and
// mother-selection tie-break policies are defined over it.
type RawTable struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewRawTable builds a table and its case-insensitive header index. When the
// same header appears twice the first occurrence wins.
func NewRawTable(name string, columns []string, rows [][]string) *RawTable {
	t := &RawTable{
		Name:    name,
		Columns: columns,
		Rows:    rows,
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		key := canonicalHeader(col)
		if _, exists := t.index[key]; !exists {
			t.index[key] = i
		}
	}
	return t
}

// canonicalHeader lowercases and strips whitespace and underscores so that
// "Member ID", "member_id" and "MEMBERID" all resolve to the same column.
func canonicalHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// Column returns the index of the first alias present in the header.
func (t *RawTable) Column(aliases ...string) (int, bool) {
	for _, alias := range aliases {
		if idx, ok := t.index[canonicalHeader(alias)]; ok {
			return idx, true
		}
	}
	return 0, false
}

// HasColumn reports whether any alias resolves to a column.
func (t *RawTable) HasColumn(aliases ...string) bool {
	_, ok := t.Column(aliases...)
	return ok
}

// Cell returns the trimmed cell text at (row, col); out-of-range access
// yields an empty string, since ragged rows are routine in raw exports.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Field resolves a cell through the alias list into a RawValue. A missing
// column or empty cell is a missing value.
func (t *RawTable) Field(row int, aliases ...string) normalize.RawValue {
	col, ok := t.Column(aliases...)
	if !ok {
		return normalize.Missing()
	}
	return normalize.FromCell(t.Cell(row, col))
}

// Text resolves a cell through the alias list as plain trimmed text.
func (t *RawTable) Text(row int, aliases ...string) string {
	col, ok := t.Column(aliases...)
	if !ok {
		return ""
	}
	return t.Cell(row, col)
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	return len(t.Rows)
}
