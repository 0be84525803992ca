package rag

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ExportFormat defines the available export formats
type ExportFormat int

const (
	// ExportFormatJSONL exports as JSON Lines (one JSON object per line)
	ExportFormatJSONL ExportFormat = iota
	// ExportFormatJSON exports as a JSON array
	ExportFormatJSON
	// ExportFormatCSV exports as comma-separated values
	ExportFormatCSV
	// ExportFormatTSV exports as tab-separated values
	ExportFormatTSV
)

// String returns a human-readable representation of the export format
func (ef ExportFormat) String() string {
	switch ef {
	case ExportFormatJSONL:
		return "jsonl"
	case ExportFormatJSON:
		return "json"
	case ExportFormatCSV:
		return "csv"
	case ExportFormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (ef ExportFormat) FileExtension() string {
	switch ef {
	case ExportFormatJSONL:
		return ".jsonl"
	case ExportFormatJSON:
		return ".json"
	case ExportFormatCSV:
		return ".csv"
	case ExportFormatTSV:
		return ".tsv"
	default:
		return ".txt"
	}
}

// ExportConfig holds configuration options for export
type ExportConfig struct {
	// Format specifies the export format
	Format ExportFormat

	// IncludeText includes the chunk text content
	IncludeText bool

	// IncludeHeader includes header row in CSV/TSV exports
	IncludeHeader bool

	// PrettyPrint enables pretty printing for JSON formats
	PrettyPrint bool
}

// DefaultExportConfig returns JSON Lines with text included.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Format:        ExportFormatJSONL,
		IncludeText:   true,
		IncludeHeader: true,
	}
}

// Exporter writes chunks in one of the export formats.
type Exporter struct {
	config ExportConfig
}

// NewExporter creates a new exporter with default configuration
func NewExporter() *Exporter {
	return &Exporter{config: DefaultExportConfig()}
}

// NewExporterWithConfig creates an exporter with custom configuration
func NewExporterWithConfig(config ExportConfig) *Exporter {
	return &Exporter{config: config}
}

// Export exports chunks to the specified writer
func (e *Exporter) Export(chunks []Chunk, w io.Writer) error {
	switch e.config.Format {
	case ExportFormatJSONL:
		return e.exportJSONL(chunks, w)
	case ExportFormatJSON:
		return e.exportJSON(chunks, w)
	case ExportFormatCSV:
		return e.exportCSV(chunks, w, ',')
	case ExportFormatTSV:
		return e.exportCSV(chunks, w, '\t')
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile exports chunks to a file
func (e *Exporter) ExportToFile(chunks []Chunk, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := e.Export(chunks, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportToString exports chunks to a string
func (e *Exporter) ExportToString(chunks []Chunk) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(chunks, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// record is the exported form of a chunk: its payload plus id and text.
func (e *Exporter) record(c *Chunk) map[string]any {
	rec := c.Payload()
	rec["id"] = c.ID
	if e.config.IncludeText {
		rec["text"] = c.Text
	}
	return rec
}

// exportJSONL exports chunks as JSON Lines (one JSON object per line)
func (e *Exporter) exportJSONL(chunks []Chunk, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}

	for i := range chunks {
		if err := encoder.Encode(e.record(&chunks[i])); err != nil {
			return fmt.Errorf("encoding chunk %d: %w", i, err)
		}
	}
	return nil
}

// exportJSON exports chunks as a JSON array
func (e *Exporter) exportJSON(chunks []Chunk, w io.Writer) error {
	records := make([]map[string]any, len(chunks))
	for i := range chunks {
		records[i] = e.record(&chunks[i])
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(records)
}

// csvColumns is the fixed column order of CSV/TSV exports.
var csvColumns = []string{
	"id", "key", "source", "chunk_index", "chunk_count", "file_format",
	"content_type", "page_num", "table_id", "figure_id", "sheet_name",
	"headers", "row_range",
}

// exportCSV exports chunks as CSV or TSV
func (e *Exporter) exportCSV(chunks []Chunk, w io.Writer, delim rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delim

	columns := csvColumns
	if e.config.IncludeText {
		columns = append(append([]string(nil), csvColumns...), "text")
	}

	if e.config.IncludeHeader {
		if err := csvWriter.Write(columns); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}

	for i := range chunks {
		if err := csvWriter.Write(e.csvRow(&chunks[i])); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func (e *Exporter) csvRow(c *Chunk) []string {
	page := ""
	if c.PageNum != nil {
		page = strconv.Itoa(*c.PageNum)
	}
	row := []string{
		c.ID, c.Key, c.Source,
		strconv.Itoa(c.ChunkIndex), strconv.Itoa(c.ChunkCount),
		c.FileFormat, c.ContentType, page,
		c.TableID, c.FigureID, c.SheetName,
		strings.Join(c.Headers, "|"), c.RowRange,
	}
	if e.config.IncludeText {
		row = append(row, c.Text)
	}
	return row
}

// StreamExporter writes chunks one at a time as JSON Lines, for callers
// that process documents incrementally.
type StreamExporter struct {
	encoder *json.Encoder
	config  ExportConfig
}

// NewStreamExporter creates a new stream exporter
func NewStreamExporter(w io.Writer) *StreamExporter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &StreamExporter{encoder: enc, config: DefaultExportConfig()}
}

// WriteChunks writes each chunk as one JSON line.
func (se *StreamExporter) WriteChunks(chunks []Chunk) error {
	exporter := NewExporterWithConfig(se.config)
	for i := range chunks {
		if err := se.encoder.Encode(exporter.record(&chunks[i])); err != nil {
			return fmt.Errorf("encoding chunk %s: %w", chunks[i].Key, err)
		}
	}
	return nil
}
