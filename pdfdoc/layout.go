package pdfdoc

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/docingest/model"
)

const (
	// wordGapRatio is the horizontal gap, relative to font size, that ends a word.
	wordGapRatio = 0.25

	// glyphWidthRatio estimates the advance of glyphs whose font has no widths.
	glyphWidthRatio = 0.5

	// paragraphGapRatio is the baseline distance, relative to font size,
	// above which consecutive lines are separated by a blank line.
	paragraphGapRatio = 1.8

	// rulingThickness is the maximum thickness of a rectangle read as a line.
	rulingThickness = 2.0
)

// buildFragments merges the per-glyph text of a page into word fragments.
// Glyphs arrive in drawing order; a word ends at a space, at a baseline
// change or at a horizontal jump.
func buildFragments(glyphs []pdf.Text) []model.TextFragment {
	var frags []model.TextFragment

	var (
		word      strings.Builder
		x0, x1, y float64
		size      float64
		open      bool
	)
	flush := func() {
		if open && strings.TrimSpace(word.String()) != "" {
			frags = append(frags, model.TextFragment{
				Text:     word.String(),
				BBox:     model.BBox{X: x0, Y: y, Width: x1 - x0, Height: size},
				FontSize: size,
			})
		}
		word.Reset()
		open = false
	}

	// Fonts without a widths array leave every glyph of a string at the same
	// origin; lay those out with an estimated advance.
	var lastX, lastY, cursor float64
	haveLast := false

	for _, g := range glyphs {
		gs := math.Abs(g.FontSize)
		if gs == 0 {
			gs = 1
		}
		width := g.W
		synthetic := width <= 0
		if synthetic {
			width = gs * glyphWidthRatio
		}

		x := g.X
		if synthetic && haveLast && near(g.X, lastX) && near(g.Y, lastY) {
			x = cursor
		}
		lastX, lastY, haveLast = g.X, g.Y, true
		cursor = x + width

		if g.S == "\n" {
			flush()
			haveLast = false
			continue
		}
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}

		if open {
			gap := x - x1
			if math.Abs(g.Y-y) > gs*0.3 || gap > gs*wordGapRatio || gap < -gs {
				flush()
			}
		}
		if !open {
			x0, x1, y, size = x, x, g.Y, gs
			open = true
		}
		word.WriteString(g.S)
		x1 = x + width
		size = math.Max(size, gs)
	}
	flush()

	return frags
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// layoutText rebuilds reading-order text from word fragments: lines top to
// bottom, words left to right, and a blank line where the vertical gap
// suggests a paragraph break.
func layoutText(frags []model.TextFragment) string {
	if len(frags) == 0 {
		return ""
	}

	sorted := make([]model.TextFragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y > sorted[j].BBox.Y
	})

	type line struct {
		y, size float64
		words   []model.TextFragment
	}
	var lines []*line
	for _, f := range sorted {
		if n := len(lines); n > 0 {
			last := lines[n-1]
			if math.Abs(last.y-f.BBox.Y) <= math.Max(2, last.size*0.3) {
				last.words = append(last.words, f)
				continue
			}
		}
		lines = append(lines, &line{y: f.BBox.Y, size: f.FontSize, words: []model.TextFragment{f}})
	}

	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			if lines[i-1].y-l.y > paragraphGapRatio*math.Max(l.size, lines[i-1].size) {
				sb.WriteString("\n\n")
			} else {
				sb.WriteString("\n")
			}
		}
		sort.SliceStable(l.words, func(a, b int) bool {
			return l.words[a].BBox.X < l.words[b].BBox.X
		})
		for j, w := range l.words {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strings.TrimSpace(w.Text))
		}
	}
	return strings.TrimSpace(sb.String())
}

// rulingLines turns drawn rectangles into line segments. Thin rectangles are
// single rules; larger ones contribute their four edges.
func rulingLines(rects []pdf.Rect) []model.Line {
	var lines []model.Line
	for _, r := range rects {
		x0, x1 := math.Min(r.Min.X, r.Max.X), math.Max(r.Min.X, r.Max.X)
		y0, y1 := math.Min(r.Min.Y, r.Max.Y), math.Max(r.Min.Y, r.Max.Y)
		w, h := x1-x0, y1-y0

		switch {
		case h <= rulingThickness && w > rulingThickness:
			mid := (y0 + y1) / 2
			lines = append(lines, model.Line{Start: model.Point{X: x0, Y: mid}, End: model.Point{X: x1, Y: mid}})
		case w <= rulingThickness && h > rulingThickness:
			mid := (x0 + x1) / 2
			lines = append(lines, model.Line{Start: model.Point{X: mid, Y: y0}, End: model.Point{X: mid, Y: y1}})
		case w > rulingThickness && h > rulingThickness:
			lines = append(lines,
				model.Line{Start: model.Point{X: x0, Y: y0}, End: model.Point{X: x1, Y: y0}},
				model.Line{Start: model.Point{X: x0, Y: y1}, End: model.Point{X: x1, Y: y1}},
				model.Line{Start: model.Point{X: x0, Y: y0}, End: model.Point{X: x0, Y: y1}},
				model.Line{Start: model.Point{X: x1, Y: y0}, End: model.Point{X: x1, Y: y1}},
			)
		}
	}
	return lines
}
