package tables

import (
	"github.com/tsawler/docingest/model"
)

// Region is the positioned content of one page handed to a detector.
type Region struct {
	// Fragments are word-level text runs in PDF user space
	Fragments []model.TextFragment

	// Lines are ruling segments drawn on the page
	Lines []model.Line
}

// Detected is a table found in a region, before header handling.
type Detected struct {
	// Matrix holds the cell text, top row first
	Matrix model.Matrix

	Grid       *model.TableGrid
	BBox       model.BBox
	Confidence float64

	// HasGrid reports that most grid boundaries coincide with drawn lines
	HasGrid bool
}

// Detector is the interface for table detection algorithms
type Detector interface {
	// Detect finds tables in a region, top of page first
	Detect(region Region) ([]*Detected, error)

	// Name returns the detector name
	Name() string
}

// Config holds detector configuration
type Config struct {
	// Minimum rows for a valid table
	MinRows int

	// Minimum columns for a valid table
	MinCols int

	// Minimum confidence threshold (0-1)
	MinConfidence float64

	// Maximum horizontal gap between fragments of the same cell (points)
	MaxCellGap float64

	// Maximum vertical gap between consecutive rows of one table (points)
	MaxRowGap float64

	// Tolerance for row/column alignment (points)
	AlignmentTolerance float64
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		MinConfidence:      0.5,
		MaxCellGap:         5.0,
		MaxRowGap:          50.0,
		AlignmentTolerance: 2.0,
	}
}
