// Package xlsx reads Office Open XML workbooks and turns each worksheet into
// a table unit.
package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// Reader provides access to XLSX workbook content. Worksheets are parsed on
// demand so that one damaged sheet does not prevent reading the others.
type Reader struct {
	zipReader     *zip.ReadCloser
	files         map[string]*zip.File
	workbook      *workbookXML
	sharedStrings []string
	sheetRels     map[string]string // RID -> target path
}

// Open opens an XLSX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
		sheetRels: make(map[string]string),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	if err := r.parseRelationships(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	if err := r.parseWorkbook(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing workbook: %w", err)
	}

	if err := r.parseSharedStrings(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing shared strings: %w", err)
	}

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// validate checks that required XLSX files exist.
func (r *Reader) validate() error {
	for _, name := range []string{"[Content_Types].xml", "xl/workbook.xml"} {
		if _, ok := r.files[name]; !ok {
			return fmt.Errorf("missing required file: %s", name)
		}
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseRelationships parses the workbook relationships file.
func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent("xl/_rels/workbook.xml.rels")
	if err != nil {
		return nil // Relationships are optional
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}
	for _, rel := range rels.Relationship {
		r.sheetRels[rel.ID] = rel.Target
	}
	return nil
}

// parseWorkbook parses the main workbook file.
func (r *Reader) parseWorkbook() error {
	data, err := r.getFileContent("xl/workbook.xml")
	if err != nil {
		return err
	}

	r.workbook = &workbookXML{}
	return xml.Unmarshal(data, r.workbook)
}

// parseSharedStrings parses the shared strings table.
func (r *Reader) parseSharedStrings() error {
	data, err := r.getFileContent("xl/sharedStrings.xml")
	if err != nil {
		return nil // Shared strings are optional
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return err
	}

	r.sharedStrings = make([]string, len(sst.SI))
	for i := range sst.SI {
		r.sharedStrings[i] = sst.SI[i].text()
	}
	return nil
}

// SheetCount returns the number of sheets listed in the workbook.
func (r *Reader) SheetCount() int {
	return len(r.workbook.Sheets.Sheet)
}

// SheetNames returns the names of all sheets in workbook order.
func (r *Reader) SheetNames() []string {
	names := make([]string, len(r.workbook.Sheets.Sheet))
	for i, s := range r.workbook.Sheets.Sheet {
		names[i] = s.Name
	}
	return names
}

// Sheet parses and returns the sheet at the given index (0-indexed).
func (r *Reader) Sheet(index int) (*Sheet, error) {
	refs := r.workbook.Sheets.Sheet
	if index < 0 || index >= len(refs) {
		return nil, fmt.Errorf("sheet index %d out of range (0-%d)", index, len(refs)-1)
	}
	ref := refs[index]

	data, err := r.getFileContent(r.sheetPath(ref.RID, index))
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", ref.Name, err)
	}

	sheet, err := r.parseWorksheet(data, ref.Name, index)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", ref.Name, err)
	}
	return sheet, nil
}

// sheetPath resolves a sheet relationship to a path inside the archive.
func (r *Reader) sheetPath(rid string, index int) string {
	target := r.sheetRels[rid]
	if target == "" {
		target = fmt.Sprintf("worksheets/sheet%d.xml", index+1)
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return path.Join("xl", target)
}

// parseWorksheet parses a single worksheet into a dense cell grid. Rows and
// cells without an explicit reference follow the previous one.
func (r *Reader) parseWorksheet(data []byte, name string, index int) (*Sheet, error) {
	var ws worksheetXML
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, err
	}

	type placed struct {
		row, col int
		cell     Cell
	}
	var cells []placed
	maxRow, maxCol := -1, -1

	rowIdx := -1
	for _, row := range ws.SheetData.Rows {
		if row.R > 0 {
			rowIdx = row.R - 1
		} else {
			rowIdx++
		}

		colIdx := -1
		for _, cx := range row.Cells {
			if cx.R != "" {
				col, _, err := ParseCellRef(cx.R)
				if err != nil {
					return nil, fmt.Errorf("cell reference %q: %w", cx.R, err)
				}
				colIdx = col
			} else {
				colIdx++
			}

			cell := r.cellValue(cx)
			if cell.Type == CellTypeEmpty {
				continue
			}
			cells = append(cells, placed{rowIdx, colIdx, cell})
			maxRow = max(maxRow, rowIdx)
			maxCol = max(maxCol, colIdx)
		}
	}

	sheet := &Sheet{Name: name, Index: index}
	if maxRow < 0 {
		return sheet, nil
	}

	sheet.Rows = make([][]Cell, maxRow+1)
	for i := range sheet.Rows {
		sheet.Rows[i] = make([]Cell, maxCol+1)
	}
	for _, p := range cells {
		sheet.Rows[p.row][p.col] = p.cell
	}
	return sheet, nil
}

// cellValue resolves a cell's displayed value from its type.
func (r *Reader) cellValue(cx cellXML) Cell {
	switch cx.T {
	case "s": // Shared string
		idx, err := strconv.Atoi(strings.TrimSpace(cx.V))
		if err != nil || idx < 0 || idx >= len(r.sharedStrings) {
			return Cell{}
		}
		return Cell{Value: r.sharedStrings[idx], Type: CellTypeString}
	case "b":
		if cx.V == "1" {
			return Cell{Value: "TRUE", Type: CellTypeBoolean}
		}
		return Cell{Value: "FALSE", Type: CellTypeBoolean}
	case "e":
		return Cell{Value: cx.V, Type: CellTypeError}
	case "str": // Cached string result of a formula
		return Cell{Value: cx.V, Type: CellTypeString}
	case "inlineStr":
		return Cell{Value: cx.Is.text(), Type: CellTypeString}
	default:
		if cx.V != "" {
			return Cell{Value: cx.V, Type: CellTypeNumber}
		}
		if cx.F != "" {
			return Cell{Type: CellTypeFormula}
		}
		return Cell{}
	}
}
