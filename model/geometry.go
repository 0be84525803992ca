package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// BBox represents a bounding box (rectangle)
type BBox struct {
	X      float64 // Left
	Y      float64 // Bottom (PDF coordinate system)
	Width  float64
	Height float64
}

// NewBBoxFromPoints creates a bounding box from two points
func NewBBoxFromPoints(p1, p2 Point) BBox {
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	width := math.Abs(p2.X - p1.X)
	height := math.Abs(p2.Y - p1.Y)
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y + b.Height
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Union returns the smallest box containing both b and other.
func (b BBox) Union(other BBox) BBox {
	if b.Width == 0 && b.Height == 0 {
		return other
	}
	left := math.Min(b.Left(), other.Left())
	bottom := math.Min(b.Bottom(), other.Bottom())
	right := math.Max(b.Right(), other.Right())
	top := math.Max(b.Top(), other.Top())
	return BBox{X: left, Y: bottom, Width: right - left, Height: top - bottom}
}

// TextFragment is a run of text placed on a page, as produced by merging
// adjacent glyphs on one baseline.
type TextFragment struct {
	Text     string
	BBox     BBox
	FontSize float64
}

// Line is a ruling segment drawn on a page (a table border, for instance).
type Line struct {
	Start Point
	End   Point
}

// IsHorizontal reports whether the line is flat within tol points.
func (l Line) IsHorizontal(tol float64) bool {
	return math.Abs(l.Start.Y-l.End.Y) <= tol
}

// IsVertical reports whether the line is upright within tol points.
func (l Line) IsVertical(tol float64) bool {
	return math.Abs(l.Start.X-l.End.X) <= tol
}

// TableGrid represents the detected grid structure
type TableGrid struct {
	Rows []float64 // Y-coordinates of row boundaries, top first
	Cols []float64 // X-coordinates of column boundaries, left first
}

// RowCount returns the number of rows
func (g *TableGrid) RowCount() int {
	if len(g.Rows) <= 1 {
		return 0
	}
	return len(g.Rows) - 1
}

// ColCount returns the number of columns
func (g *TableGrid) ColCount() int {
	if len(g.Cols) <= 1 {
		return 0
	}
	return len(g.Cols) - 1
}
