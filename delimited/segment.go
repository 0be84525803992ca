// Package delimited splits flat delimited files (CSV, TSV and friends) into
// the separate tables they contain.
//
// Spreadsheet exports often stack several tables in one file, separated by a
// blank line or a row of empty fields. Segment treats either as a boundary
// and returns each block as its own table, first row as the header.
package delimited

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/docingest/model"
)

// Segment reads delimited records from r and returns the tables they form,
// in file order. A blank line or a record whose fields are all empty ends
// the current table. Blocks with fewer than two rows (a header and at least
// one data row) are dropped.
//
// A malformed input aborts the whole read.
func Segment(r io.Reader, delim rune) ([]*model.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		tables  []*model.Table
		buf     model.Matrix
		lastEnd int
	)

	flush := func() {
		if t := blockToTable(buf); t != nil {
			tables = append(tables, t)
		}
		buf = nil
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing delimited input: %w", err)
		}

		startLine, _ := cr.FieldPos(0)
		// encoding/csv skips empty lines without reporting them; a gap in
		// line numbers is the only trace they leave.
		if lastEnd > 0 && startLine > lastEnd+1 {
			flush()
		}
		lastEnd = endLine(cr, record)

		if model.IsBlankRow(record) {
			flush()
			continue
		}
		buf = append(buf, record)
	}
	flush()

	return tables, nil
}

// endLine returns the line on which the most recently read record ends,
// accounting for newlines embedded in its last quoted field.
func endLine(cr *csv.Reader, record []string) int {
	last := len(record) - 1
	line, _ := cr.FieldPos(last)
	return line + strings.Count(record[last], "\n")
}

// blockToTable turns one contiguous block of records into a table, or nil
// when the block cannot hold a header and a data row.
func blockToTable(block model.Matrix) *model.Table {
	if len(block) < 2 {
		return nil
	}
	m := block.DropEmptyColumns()
	if len(m) == 0 || len(m[0]) == 0 {
		return nil
	}
	return model.TableWithHeader(m)
}
