package xlsx

import "testing"

func TestParseCellRef(t *testing.T) {
	tests := []struct {
		ref     string
		wantCol int
		wantRow int
		wantErr bool
	}{
		{"A1", 0, 0, false},
		{"B1", 1, 0, false},
		{"Z1", 25, 0, false},
		{"AA1", 26, 0, false},
		{"AB1", 27, 0, false},
		{"AZ1", 51, 0, false},
		{"BA1", 52, 0, false},
		{"A10", 0, 9, false},
		{"C100", 2, 99, false},
		{"AA100", 26, 99, false},
		{"XFD1048576", 16383, 1048575, false}, // Max Excel cell
		{"", 0, 0, true},
		{"1", 0, 0, true},
		{"A", 0, 0, true},
		{"A0", 0, 0, true},
		{"A-1", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			col, row, err := ParseCellRef(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseCellRef(%q) expected error, got col=%d, row=%d", tt.ref, col, row)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseCellRef(%q) unexpected error: %v", tt.ref, err)
				return
			}
			if col != tt.wantCol {
				t.Errorf("ParseCellRef(%q) col = %d, want %d", tt.ref, col, tt.wantCol)
			}
			if row != tt.wantRow {
				t.Errorf("ParseCellRef(%q) row = %d, want %d", tt.ref, row, tt.wantRow)
			}
		})
	}
}

func TestColumnToIndex(t *testing.T) {
	tests := []struct {
		col  string
		want int
	}{
		{"A", 0},
		{"B", 1},
		{"Z", 25},
		{"AA", 26},
		{"AB", 27},
		{"AZ", 51},
		{"BA", 52},
		{"ZZ", 701},
		{"AAA", 702},
		{"XFD", 16383}, // Excel max column
		{"a", 0},       // Lowercase
		{"aa", 26},
	}

	for _, tt := range tests {
		t.Run(tt.col, func(t *testing.T) {
			got := ColumnToIndex(tt.col)
			if got != tt.want {
				t.Errorf("ColumnToIndex(%q) = %d, want %d", tt.col, got, tt.want)
			}
		})
	}
}

func TestCellType_String(t *testing.T) {
	tests := []struct {
		ct   CellType
		want string
	}{
		{CellTypeString, "string"},
		{CellTypeNumber, "number"},
		{CellTypeBoolean, "boolean"},
		{CellTypeFormula, "formula"},
		{CellTypeError, "error"},
		{CellTypeEmpty, "empty"},
		{CellType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.ct.String(); got != tt.want {
				t.Errorf("CellType(%d).String() = %q, want %q", tt.ct, got, tt.want)
			}
		})
	}
}

func TestCell_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want bool
	}{
		{"zero", Cell{}, true},
		{"blank string", Cell{Value: "  ", Type: CellTypeString}, true},
		{"formula without result", Cell{Type: CellTypeFormula}, true},
		{"number", Cell{Value: "0", Type: CellTypeNumber}, false},
		{"boolean", Cell{Value: "FALSE", Type: CellTypeBoolean}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSheet_Matrix(t *testing.T) {
	str := func(v string) Cell { return Cell{Value: v, Type: CellTypeString} }

	sheet := &Sheet{
		Name: "Data",
		Rows: [][]Cell{
			{{}, {}},
			{str("a"), str("b")},
			{str("1")},
			{{}, {}},
			{{}, str("2")},
			{{}, {}},
		},
	}

	m := sheet.Matrix()
	want := [][]string{
		{"a", "b"},
		{"1", ""},
		{"", ""},
		{"", "2"},
	}
	if len(m) != len(want) {
		t.Fatalf("Matrix() has %d rows, want %d: %q", len(m), len(want), m)
	}
	for i := range want {
		for j := range want[i] {
			if m[i][j] != want[i][j] {
				t.Errorf("m[%d][%d] = %q, want %q", i, j, m[i][j], want[i][j])
			}
		}
	}
}

func TestSheet_Matrix_Empty(t *testing.T) {
	sheet := &Sheet{Rows: [][]Cell{{{}, {Type: CellTypeFormula}}}}
	if m := sheet.Matrix(); m != nil {
		t.Errorf("Matrix() = %q, want nil", m)
	}
}
