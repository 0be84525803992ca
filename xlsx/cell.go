package xlsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/docingest/model"
)

// CellType represents the type of data in a cell.
type CellType int

const (
	// CellTypeEmpty indicates an empty cell.
	CellTypeEmpty CellType = iota
	// CellTypeString indicates a string value.
	CellTypeString
	// CellTypeNumber indicates a numeric value.
	CellTypeNumber
	// CellTypeBoolean indicates a boolean value.
	CellTypeBoolean
	// CellTypeFormula indicates a formula without a cached result.
	CellTypeFormula
	// CellTypeError indicates an error value such as #DIV/0!.
	CellTypeError
)

// String returns the string representation of the cell type.
func (t CellType) String() string {
	switch t {
	case CellTypeEmpty:
		return "empty"
	case CellTypeString:
		return "string"
	case CellTypeNumber:
		return "number"
	case CellTypeBoolean:
		return "boolean"
	case CellTypeFormula:
		return "formula"
	case CellTypeError:
		return "error"
	default:
		return "unknown"
	}
}

// Cell is one worksheet cell. Numbers keep their stored representation.
type Cell struct {
	Value string
	Type  CellType
}

// IsEmpty returns true if the cell has no value.
func (c Cell) IsEmpty() bool {
	return c.Type == CellTypeEmpty || strings.TrimSpace(c.Value) == ""
}

// Sheet represents a worksheet in the workbook.
type Sheet struct {
	Name  string
	Index int

	// Rows is dense from A1 to the last used cell.
	Rows [][]Cell
}

// Matrix returns the cell values of the used rows. Blank rows before the
// first and after the last non-empty row are dropped; blank rows in between
// are kept so row positions stay meaningful.
func (s *Sheet) Matrix() model.Matrix {
	first, last := -1, -1
	for i, row := range s.Rows {
		for _, c := range row {
			if !c.IsEmpty() {
				if first < 0 {
					first = i
				}
				last = i
				break
			}
		}
	}
	if first < 0 {
		return nil
	}

	m := make(model.Matrix, 0, last-first+1)
	for _, row := range s.Rows[first : last+1] {
		values := make([]string, len(row))
		for j, c := range row {
			values[j] = c.Value
		}
		m = append(m, values)
	}
	return m.Pad()
}

// ParseCellRef parses a cell reference like "A1" or "AA100" into column and row indices (0-indexed).
func ParseCellRef(ref string) (col, row int, err error) {
	if ref == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}

	// Find where letters end and numbers begin
	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}

	if i == 0 {
		return 0, 0, fmt.Errorf("invalid cell reference: no column letters")
	}
	if i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference: no row number")
	}

	col = ColumnToIndex(ref[:i])
	if col < 0 {
		return 0, 0, fmt.Errorf("invalid column: %s", ref[:i])
	}

	rowNum, err := strconv.Atoi(ref[i:])
	if err != nil || rowNum < 1 {
		return 0, 0, fmt.Errorf("invalid row: %s", ref[i:])
	}

	return col, rowNum - 1, nil
}

// ColumnToIndex converts a column letter(s) to a 0-indexed column number.
// A=0, B=1, ..., Z=25, AA=26, AB=27, etc.
func ColumnToIndex(col string) int {
	col = strings.ToUpper(col)
	result := 0
	for _, c := range col {
		if c < 'A' || c > 'Z' {
			return -1
		}
		result = result*26 + int(c-'A') + 1
	}
	return result - 1
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
