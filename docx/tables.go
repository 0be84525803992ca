package docx

import (
	"strconv"
	"strings"
)

// parseTable resolves a table into rows of trimmed cell texts laid out on
// the table grid. A cell spanning several grid columns repeats its text in
// each, and a vertically merged continuation cell repeats the text of the
// cell above it.
func parseTable(tbl tableXML) [][]string {
	var rows [][]string
	var prev []string

	for _, row := range tbl.Rows {
		var cells []string
		for _, cell := range row.Cells {
			text := cellText(cell)
			col := len(cells)
			if isMergedContinuation(cell) && col < len(prev) {
				text = prev[col]
			}
			for i := 0; i < colSpan(cell); i++ {
				cells = append(cells, text)
			}
		}
		rows = append(rows, cells)
		prev = cells
	}
	return rows
}

// cellText joins the paragraphs of a cell with newlines.
func cellText(cell tableCellXML) string {
	parts := make([]string, 0, len(cell.Paragraphs))
	for _, p := range cell.Paragraphs {
		parts = append(parts, paragraphText(p))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// colSpan returns the number of grid columns a cell covers (gridSpan).
func colSpan(cell tableCellXML) int {
	if span, err := strconv.Atoi(cell.Properties.GridSpan.Val); err == nil && span > 0 {
		return span
	}
	return 1
}

// isMergedContinuation reports whether a cell continues a vertical merge:
// a vMerge element whose val is empty or "continue".
func isMergedContinuation(cell tableCellXML) bool {
	vm := cell.Properties.VMerge
	return vm != nil && (vm.Val == "" || vm.Val == "continue")
}
