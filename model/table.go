package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Table is a recovered table: named columns plus data rows. It carries shape
// only; cell values are kept as the strings they were extracted as.
type Table struct {
	Headers []string
	Rows    [][]string
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns.
func (t *Table) ColCount() int {
	return len(t.Headers)
}

// Records serializes each data row as "<row_index>: {header: value, ...}".
// The leading index lets a windowed slice of the table report which rows it
// covers. Empty cells are written as null.
func (t *Table) Records() []string {
	records := make([]string, 0, len(t.Rows))
	for i, row := range t.Rows {
		records = append(records, strconv.Itoa(i)+": "+t.rowJSON(row))
	}
	return records
}

// rowJSON renders one row as a JSON object with keys in column order.
func (t *Table) rowJSON(row []string) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for j, h := range t.Headers {
		if j > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(jsonString(h))
		sb.WriteString(": ")
		if j < len(row) && strings.TrimSpace(row[j]) != "" {
			sb.WriteString(jsonString(row[j]))
		} else {
			sb.WriteString("null")
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

// jsonString quotes s as a JSON string without HTML escaping.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Matrix is a raw grid of cell strings as read from a source, before a
// header row has been chosen.
type Matrix [][]string

// Pad returns a copy of m where every row has the width of the widest row.
func (m Matrix) Pad() Matrix {
	width := 0
	for _, row := range m {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make(Matrix, len(m))
	for i, row := range m {
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

// DropEmptyColumns removes columns that are blank in every row.
func (m Matrix) DropEmptyColumns() Matrix {
	m = m.Pad()
	if len(m) == 0 {
		return m
	}

	keep := make([]int, 0, len(m[0]))
	for col := range m[0] {
		for _, row := range m {
			if strings.TrimSpace(row[col]) != "" {
				keep = append(keep, col)
				break
			}
		}
	}

	out := make(Matrix, len(m))
	for i, row := range m {
		kept := make([]string, len(keep))
		for j, col := range keep {
			kept[j] = row[col]
		}
		out[i] = kept
	}
	return out
}

// IsBlankRow reports whether every field of row is empty after trimming.
func IsBlankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// TableWithHeader promotes the first row of m to column names and keeps the
// remaining rows as data.
func TableWithHeader(m Matrix) *Table {
	if len(m) == 0 {
		return &Table{}
	}
	return &Table{
		Headers: UniqueHeaders(m[0]),
		Rows:    m[1:],
	}
}

// TableWithoutHeader keeps every row of m as data and names the columns
// col_0, col_1, ...
func TableWithoutHeader(m Matrix) *Table {
	cols := 0
	if len(m) > 0 {
		cols = len(m[0])
	}
	return &Table{
		Headers: SyntheticHeaders(cols),
		Rows:    m,
	}
}

// SyntheticHeaders returns col_0 ... col_{n-1}.
func SyntheticHeaders(n int) []string {
	headers := make([]string, n)
	for i := range headers {
		headers[i] = fmt.Sprintf("col_%d", i)
	}
	return headers
}

// UniqueHeaders trims header cells, names blank ones by position and suffixes
// repeats with _1, _2, ... so every column can be addressed by name.
func UniqueHeaders(row []string) []string {
	seen := make(map[string]int, len(row))
	out := make([]string, len(row))
	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("col_%d", i)
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			out[i] = fmt.Sprintf("%s_%d", h, n+1)
			continue
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}
