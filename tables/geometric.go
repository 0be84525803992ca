package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/docingest/model"
)

// GeometricDetector implements table detection using geometric heuristics.
// It groups text fragments into baseline rows, splits rows into cells at
// wide horizontal gaps, and treats runs of multi-cell rows as tables whose
// columns are the whitespace-separated bands of the run.
type GeometricDetector struct {
	config Config
}

// NewGeometricDetector creates a new geometric table detector with default configuration.
func NewGeometricDetector() *GeometricDetector {
	return &GeometricDetector{config: DefaultConfig()}
}

// NewGeometricDetectorWithConfig creates a detector with custom configuration.
func NewGeometricDetectorWithConfig(config Config) *GeometricDetector {
	return &GeometricDetector{config: config}
}

// Name returns the detector's identifier ("geometric").
func (d *GeometricDetector) Name() string {
	return "geometric"
}

// textRow is one baseline of text split into cells.
type textRow struct {
	top    float64
	bottom float64
	cells  []model.TextFragment
}

// Detect finds tables in a region. Tables are returned top to bottom.
func (d *GeometricDetector) Detect(region Region) ([]*Detected, error) {
	if len(region.Fragments) == 0 {
		return nil, nil
	}

	rows := d.groupRows(region.Fragments)

	var tables []*Detected
	for _, run := range d.findRuns(rows) {
		if t := d.detectTableInRun(run, region.Lines); t != nil {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// groupRows clusters fragments sharing a baseline, top row first, and
// merges neighbouring fragments of each row into cells.
func (d *GeometricDetector) groupRows(fragments []model.TextFragment) []textRow {
	sorted := make([]model.TextFragment, len(fragments))
	copy(sorted, fragments)

	// Sort by Y position (top to bottom)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y > sorted[j].BBox.Y
	})

	var rows []textRow
	var current []model.TextFragment
	flush := func() {
		if len(current) > 0 {
			rows = append(rows, d.makeRow(current))
			current = nil
		}
	}

	for _, frag := range sorted {
		if len(current) > 0 && math.Abs(current[0].BBox.Y-frag.BBox.Y) > d.rowTolerance(current[0]) {
			flush()
		}
		current = append(current, frag)
	}
	flush()

	return rows
}

// rowTolerance is the baseline drift allowed within one row.
func (d *GeometricDetector) rowTolerance(frag model.TextFragment) float64 {
	return math.Max(d.config.AlignmentTolerance, frag.FontSize*0.3)
}

// makeRow merges the fragments of one baseline into cells.
func (d *GeometricDetector) makeRow(frags []model.TextFragment) textRow {
	sort.Slice(frags, func(i, j int) bool {
		return frags[i].BBox.X < frags[j].BBox.X
	})

	row := textRow{
		top:    frags[0].BBox.Top(),
		bottom: frags[0].BBox.Bottom(),
	}

	cell := frags[0]
	for _, frag := range frags[1:] {
		row.top = math.Max(row.top, frag.BBox.Top())
		row.bottom = math.Min(row.bottom, frag.BBox.Bottom())

		if frag.BBox.Left()-cell.BBox.Right() <= d.cellGap(cell) {
			cell.Text = joinCellText(cell.Text, frag.Text)
			cell.BBox = cell.BBox.Union(frag.BBox)
			continue
		}
		row.cells = append(row.cells, cell)
		cell = frag
	}
	row.cells = append(row.cells, cell)

	return row
}

// cellGap is the widest gap still read as a space within one cell.
func (d *GeometricDetector) cellGap(frag model.TextFragment) float64 {
	return math.Max(d.config.MaxCellGap, frag.FontSize*0.6)
}

func joinCellText(a, b string) string {
	if a == "" || strings.HasSuffix(a, " ") || strings.HasPrefix(b, " ") {
		return a + b
	}
	return a + " " + b
}

// findRuns returns maximal sequences of vertically close rows having at
// least MinCols cells. A single sparser row is kept inside a run when the
// run resumes right after it.
func (d *GeometricDetector) findRuns(rows []textRow) [][]textRow {
	var runs [][]textRow
	var run []textRow

	flush := func() {
		if len(run) >= d.config.MinRows {
			runs = append(runs, run)
		}
		run = nil
	}

	for i := 0; i < len(rows); i++ {
		r := rows[i]
		if len(run) > 0 && run[len(run)-1].bottom-r.top > d.config.MaxRowGap {
			flush()
		}

		if len(r.cells) >= d.config.MinCols {
			run = append(run, r)
			continue
		}

		if len(run) > 0 && i+1 < len(rows) && len(rows[i+1].cells) >= d.config.MinCols &&
			r.bottom-rows[i+1].top <= d.config.MaxRowGap {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()

	return runs
}

// detectTableInRun builds a grid over a run of rows, scores it and fills
// the cell matrix.
func (d *GeometricDetector) detectTableInRun(run []textRow, lines []model.Line) *Detected {
	grid := d.buildGrid(run)
	if grid == nil || grid.RowCount() < d.config.MinRows || grid.ColCount() < d.config.MinCols {
		return nil
	}

	matrix := make(model.Matrix, grid.RowCount())
	for i, row := range run {
		matrix[i] = make([]string, grid.ColCount())
		for _, cell := range row.cells {
			col := d.findColumn(cell.BBox.Center().X, grid)
			if col < 0 {
				continue
			}
			matrix[i][col] = joinCellText(matrix[i][col], strings.TrimSpace(cell.Text))
		}
	}

	hLines := d.detectHorizontalLines(grid.Rows, lines)
	vLines := d.detectVerticalLines(grid.Cols, lines)

	confidence := d.calculateConfidence(grid, run, matrix, hLines, vLines)
	if confidence < d.config.MinConfidence {
		return nil
	}

	return &Detected{
		Matrix:     matrix,
		Grid:       grid,
		BBox:       d.calculateTableBBox(grid),
		Confidence: confidence,
		HasGrid:    visibleFraction(hLines, vLines) >= 0.5,
	}
}

// buildGrid derives row and column boundaries from a run. Columns are the
// horizontal bands covered by cells of the multi-cell rows; the boundary
// between two bands is the middle of the gap separating them.
func (d *GeometricDetector) buildGrid(run []textRow) *model.TableGrid {
	type span struct{ lo, hi float64 }
	var spans []span
	for _, r := range run {
		if len(r.cells) < d.config.MinCols {
			continue
		}
		for _, c := range r.cells {
			spans = append(spans, span{c.BBox.Left(), c.BBox.Right()})
		}
	}
	if len(spans) == 0 {
		return nil
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })

	bands := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &bands[len(bands)-1]
		if s.lo <= last.hi+d.config.AlignmentTolerance {
			last.hi = math.Max(last.hi, s.hi)
			continue
		}
		bands = append(bands, s)
	}

	grid := &model.TableGrid{}
	grid.Cols = append(grid.Cols, bands[0].lo)
	for i := 1; i < len(bands); i++ {
		grid.Cols = append(grid.Cols, (bands[i-1].hi+bands[i].lo)/2)
	}
	grid.Cols = append(grid.Cols, bands[len(bands)-1].hi)

	grid.Rows = append(grid.Rows, run[0].top)
	for i := 1; i < len(run); i++ {
		grid.Rows = append(grid.Rows, (run[i-1].bottom+run[i].top)/2)
	}
	grid.Rows = append(grid.Rows, run[len(run)-1].bottom)

	return grid
}

// findColumn returns the column containing x, clamping to the outer
// columns for content that overhangs the grid.
func (d *GeometricDetector) findColumn(x float64, grid *model.TableGrid) int {
	n := grid.ColCount()
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		if x < grid.Cols[i+1] {
			return i
		}
	}
	return n - 1
}

// detectHorizontalLines determines which row boundaries have visible horizontal
// graphical lines within the alignment tolerance.
func (d *GeometricDetector) detectHorizontalLines(yCoords []float64, lines []model.Line) []bool {
	hasLines := make([]bool, len(yCoords))

	for i, y := range yCoords {
		for _, line := range lines {
			if line.IsHorizontal(d.config.AlignmentTolerance) &&
				math.Abs(line.Start.Y-y) < d.config.AlignmentTolerance*2 {
				hasLines[i] = true
				break
			}
		}
	}

	return hasLines
}

// detectVerticalLines determines which column boundaries have visible vertical
// graphical lines within the alignment tolerance.
func (d *GeometricDetector) detectVerticalLines(xCoords []float64, lines []model.Line) []bool {
	hasLines := make([]bool, len(xCoords))

	for i, x := range xCoords {
		for _, line := range lines {
			if line.IsVertical(d.config.AlignmentTolerance) &&
				math.Abs(line.Start.X-x) < d.config.AlignmentTolerance*2 {
				hasLines[i] = true
				break
			}
		}
	}

	return hasLines
}

// calculateConfidence computes a confidence score (0.0-1.0) for the detected table.
// The score combines row regularity (30%), column consistency (30%), line
// presence (20%) and cell occupancy (20%).
func (d *GeometricDetector) calculateConfidence(grid *model.TableGrid, run []textRow, matrix model.Matrix, hLines, vLines []bool) float64 {
	score := 0.0

	score += d.calculateRowRegularity(grid) * 0.3
	score += d.calculateColumnConsistency(run, grid.ColCount()) * 0.3
	score += visibleFraction(hLines, vLines) * 0.2
	score += calculateCellOccupancy(matrix) * 0.2

	return score
}

// calculateRowRegularity scores how even the row heights are, using the
// coefficient of variation. Lower variance results in a higher score.
func (d *GeometricDetector) calculateRowRegularity(grid *model.TableGrid) float64 {
	if grid.RowCount() < 2 {
		return 0
	}

	heights := make([]float64, grid.RowCount())
	for i := range heights {
		heights[i] = grid.Rows[i] - grid.Rows[i+1]
	}

	m := mean(heights)
	if m <= 0 {
		return 0
	}
	return math.Max(0, 1-math.Sqrt(variance(heights))/m)
}

// calculateColumnConsistency measures the fraction of rows that have one
// cell per column.
func (d *GeometricDetector) calculateColumnConsistency(run []textRow, cols int) float64 {
	if len(run) == 0 {
		return 0
	}
	full := 0
	for _, r := range run {
		if len(r.cells) == cols {
			full++
		}
	}
	return float64(full) / float64(len(run))
}

// calculateCellOccupancy measures the fraction of cells holding text.
func calculateCellOccupancy(matrix model.Matrix) float64 {
	total, filled := 0, 0
	for _, row := range matrix {
		for _, cell := range row {
			total++
			if cell != "" {
				filled++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(filled) / float64(total)
}

// visibleFraction returns the share of grid boundaries backed by drawn lines.
func visibleFraction(hLines, vLines []bool) float64 {
	total := len(hLines) + len(vLines)
	if total == 0 {
		return 0
	}
	visible := 0
	for _, has := range hLines {
		if has {
			visible++
		}
	}
	for _, has := range vLines {
		if has {
			visible++
		}
	}
	return float64(visible) / float64(total)
}

// calculateTableBBox computes the overall bounding box of the table from the grid.
func (d *GeometricDetector) calculateTableBBox(grid *model.TableGrid) model.BBox {
	if grid.RowCount() == 0 || grid.ColCount() == 0 {
		return model.BBox{}
	}

	return model.BBox{
		X:      grid.Cols[0],
		Y:      grid.Rows[len(grid.Rows)-1],
		Width:  grid.Cols[len(grid.Cols)-1] - grid.Cols[0],
		Height: grid.Rows[0] - grid.Rows[len(grid.Rows)-1],
	}
}

// mean computes the arithmetic mean of a slice of float64 values.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance computes the population variance of a slice of float64 values.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		diff := v - m
		sum += diff * diff
	}
	return sum / float64(len(values))
}
