// Package tables recovers tables from positioned PDF text.
//
// Most PDF tables carry no structure beyond where their text is drawn, and
// many have no ruling lines at all. Detection therefore works from text
// geometry, using drawn lines only as supporting evidence.
//
// # Detectors
//
// Table detection is performed by types implementing the [Detector] interface.
// The package provides [GeometricDetector]:
//
//	detector := tables.NewGeometricDetector()
//	found, err := detector.Detect(tables.Region{Fragments: frags, Lines: lines})
//
// # Geometric Detection
//
// The [GeometricDetector] uses a multi-step algorithm:
//
//  1. Fragments sharing a baseline form a row
//  2. Wide horizontal gaps split a row into cells
//  3. Runs of multi-cell rows become table candidates
//  4. Columns are the whitespace-separated bands of a candidate
//  5. Confidence scoring
//
// Detection confidence (0-1) is based on:
//
//   - Row regularity (30%)
//   - Column consistency (30%)
//   - Line presence (20%)
//   - Cell occupancy (20%)
//
// # Headers
//
// A [HeaderPolicy] decides whether the first row of a detected table names
// its columns. [Apply] drops empty columns and builds the final table:
//
//	t := tables.Apply(tables.DistinctHalf{}, found[0].Matrix)
package tables
