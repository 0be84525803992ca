// Package rag cuts extracted units into bounded, overlapping windows and
// attaches the provenance a retrieval index needs to cite them.
//
// # Windowing
//
// A [Windower] splits text into windows of at most Size runes. Consecutive
// windows share exactly Overlap runes, and cuts prefer paragraph breaks,
// then line breaks, then sentence ends, then whitespace:
//
//	w, err := rag.NewWindower(550, 100)
//	windows := w.Split(unit.Text)
//
// # Chunk Metadata
//
// A [Builder] turns the windows of one unit into [Chunk] values:
//
//	b := rag.Builder{Source: "report.pdf", Format: "pdf"}
//	chunks := b.Build(unit, windows, ordinal)
//
// Each chunk records:
//
//   - key: the sanitized source name followed by the chunk index
//   - id: a name-based UUID that is stable across re-extraction
//   - page, table, figure and sheet provenance where the format has it
//   - row_range: which table records a table chunk covers
//
// Keys restart with every unit, so they are not unique within a document.
// Use the id when a unique handle is required.
//
// # Export Formats
//
// [Exporter] writes chunks as JSON Lines, a JSON array, CSV or TSV, using
// the same field names as [Chunk.Payload].
package rag
