// Package pdfdoc extracts text, tables and image markers from PDF files.
//
// Every page goes through three passes:
//
//   - Text: glyph positions are regrouped into lines and paragraphs; when a
//     page has no text and OCR is enabled, its images are recognized instead.
//   - Tables: word fragments and ruling lines are handed to a
//     [tables.Detector] and each result to a [tables.HeaderPolicy].
//   - Figures: image XObjects are counted and reported with [FigureMarker].
//
// A pass that fails on malformed content is logged and yields nothing for
// that page; the other passes and pages still run.
package pdfdoc
