package rag

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/docingest/model"
)

func createTestChunks() []Chunk {
	return []Chunk{
		{
			Text:        "First page <b>text</b>.",
			Source:      "doc.pdf",
			Key:         "docpdf0",
			ID:          PointID("doc.pdf", 0),
			ChunkCount:  1,
			FileFormat:  "pdf",
			ContentType: ContentText,
			PageNum:     model.Int(1),
			RowRange:    RowRangeText,
		},
		{
			Text:        `0: {"a": "1"}`,
			Source:      "doc.pdf",
			Key:         "docpdf0",
			ID:          PointID("doc.pdf", 1),
			ChunkCount:  1,
			FileFormat:  "pdf",
			ContentType: ContentTable,
			PageNum:     model.Int(2),
			TableID:     "table_0",
			Headers:     []string{"a", "b"},
			RowRange:    "0 - 0",
		},
		{
			Text:        "Page 2: 1 image(s) detected",
			Source:      "doc.pdf",
			Key:         "docpdf0",
			ID:          PointID("doc.pdf", 2),
			ChunkCount:  1,
			FileFormat:  "pdf",
			ContentType: ContentFigure,
			PageNum:     model.Int(2),
			FigureID:    "figure_0",
			RowRange:    RowRangeFigure,
		},
	}
}

func TestExportFormat_String(t *testing.T) {
	tests := []struct {
		format ExportFormat
		want   string
		ext    string
	}{
		{ExportFormatJSONL, "jsonl", ".jsonl"},
		{ExportFormatJSON, "json", ".json"},
		{ExportFormatCSV, "csv", ".csv"},
		{ExportFormatTSV, "tsv", ".tsv"},
		{ExportFormat(99), "unknown", ".txt"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if got := tt.format.FileExtension(); got != tt.ext {
			t.Errorf("FileExtension() = %q, want %q", got, tt.ext)
		}
	}
}

func TestExporter_ExportJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter().Export(createTestChunks(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not JSON: %v", err)
	}
	if first["text"] != "First page <b>text</b>." {
		t.Errorf("text = %v", first["text"])
	}
	if first["page_num"] != float64(1) || first["content_type"] != "text" {
		t.Errorf("record = %v", first)
	}
	if !strings.Contains(lines[0], "<b>") {
		t.Error("HTML should not be escaped")
	}

	var second map[string]any
	json.Unmarshal([]byte(lines[1]), &second)
	if second["table_id"] != "table_0" || second["row_range"] != "0 - 0" {
		t.Errorf("table record = %v", second)
	}
}

func TestExporter_ExportJSON(t *testing.T) {
	config := DefaultExportConfig()
	config.Format = ExportFormatJSON
	config.PrettyPrint = true
	config.IncludeText = false

	out, err := NewExporterWithConfig(config).ExportToString(createTestChunks())
	if err != nil {
		t.Fatalf("ExportToString() error = %v", err)
	}

	var records []map[string]any
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if _, ok := records[0]["text"]; ok {
		t.Error("text should be omitted")
	}
	if records[2]["figure_id"] != "figure_0" {
		t.Errorf("figure record = %v", records[2])
	}
}

func TestExporter_ExportCSV(t *testing.T) {
	config := DefaultExportConfig()
	config.Format = ExportFormatCSV

	out, err := NewExporterWithConfig(config).ExportToString(createTestChunks())
	if err != nil {
		t.Fatalf("ExportToString() error = %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(rows))
	}
	if rows[0][0] != "id" || rows[0][len(rows[0])-1] != "text" {
		t.Errorf("header = %q", rows[0])
	}
	if rows[2][11] != "a|b" {
		t.Errorf("headers column = %q, want a|b", rows[2][11])
	}
}

func TestExporter_ExportTSV(t *testing.T) {
	config := DefaultExportConfig()
	config.Format = ExportFormatTSV
	config.IncludeHeader = false

	out, err := NewExporterWithConfig(config).ExportToString(createTestChunks()[:1])
	if err != nil {
		t.Fatalf("ExportToString() error = %v", err)
	}
	if !strings.HasPrefix(out, PointID("doc.pdf", 0)+"\t") {
		t.Errorf("TSV row = %q", out)
	}
}

func TestExporter_UnsupportedFormat(t *testing.T) {
	config := DefaultExportConfig()
	config.Format = ExportFormat(99)
	if err := NewExporterWithConfig(config).Export(nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestExporter_ExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.jsonl")
	if err := NewExporter().ExportToFile(createTestChunks(), path); err != nil {
		t.Fatalf("ExportToFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(data), "\n") != 3 {
		t.Errorf("file has %d lines, want 3", strings.Count(string(data), "\n"))
	}
}

func TestStreamExporter_WriteChunks(t *testing.T) {
	var buf bytes.Buffer
	se := NewStreamExporter(&buf)
	chunks := createTestChunks()

	if err := se.WriteChunks(chunks[:1]); err != nil {
		t.Fatal(err)
	}
	if err := se.WriteChunks(chunks[1:]); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("stream has %d lines, want 3", strings.Count(buf.String(), "\n"))
	}
}

func TestChunkCollection_Filters(t *testing.T) {
	cc := NewChunkCollection(createTestChunks())

	if got := cc.FilterByPage(2).Count(); got != 2 {
		t.Errorf("FilterByPage(2) = %d, want 2", got)
	}
	if got := cc.FilterByContentType(ContentFigure).Count(); got != 1 {
		t.Errorf("FilterByContentType(figure) = %d, want 1", got)
	}
	if got := cc.FilterBySource("other.pdf").Count(); got != 0 {
		t.Errorf("FilterBySource(other) = %d, want 0", got)
	}
	if tables := cc.Tables(); len(tables) != 1 || len(tables["table_0"]) != 1 {
		t.Errorf("Tables() = %v", tables)
	}

	out, err := cc.ToJSONL()
	if err != nil || strings.Count(out, "\n") != 3 {
		t.Errorf("ToJSONL() = %q, %v", out, err)
	}
	csvOut, err := cc.ToCSV()
	if err != nil || !strings.HasPrefix(csvOut, "id,key,source") {
		t.Errorf("ToCSV() = %q, %v", csvOut, err)
	}
}
