// Package ingest turns raw CSV bytes into a normalized table.
//
// The pipeline is deliberately forgiving: the file's text encoding is
// detected statistically, the field delimiter is sniffed from a decoded
// sample, undecodable bytes are replaced rather than rejected, and rows
// with the wrong field count are dropped with a warning instead of
// failing the whole file.
package ingest

import (
	"strconv"
	"strings"
)

// Table is an ordered set of named columns over string cells.
// Every row has exactly len(Columns) cells; cells are raw text with no
// type coercion applied.
type Table struct {
	Columns []string
	Rows    [][]string
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex maps each column name to its position.
func (t *Table) ColumnIndex() map[string]int {
	idx := make(map[string]int, len(t.Columns))
	for i, name := range t.Columns {
		idx[name] = i
	}
	return idx
}

// Result is the outcome of parsing one file: the table plus the
// encoding and delimiter that were used to read it. The caller must
// reuse both verbatim when the same file is re-read, so that the column
// set and row alignment stay identical between passes.
type Result struct {
	Table       *Table
	Encoding    string
	Delimiter   rune
	SkippedRows int
}

// cleanHeader strips a UTF-8 byte-order-mark and surrounding whitespace
// from a header cell.
func cleanHeader(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
}

// dedupeHeaders makes column names unique by suffixing repeats with
// ".1", ".2" and so on, preserving file order.
func dedupeHeaders(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		if n, dup := seen[name]; dup {
			for {
				candidate := name + "." + strconv.Itoa(n)
				if _, taken := seen[candidate]; !taken {
					seen[name] = n + 1
					name = candidate
					break
				}
				n++
			}
		}
		seen[name] = 1
		out[i] = name
	}
	return out
}
