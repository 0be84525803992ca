package rag

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tsawler/docingest/model"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Report (final).pdf", "Reportfinalpdf"},
		{"data_2024-01.csv", "data202401csv"},
		{"résumé.docx", "rsumdocx"},
		{"...", ""},
		{"ABC123", "ABC123"},
	}

	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKey(t *testing.T) {
	if got := Key("Report (final).pdf", 2); got != "Reportfinalpdf2" {
		t.Errorf("Key() = %q, want Reportfinalpdf2", got)
	}
}

func TestKey_Collisions(t *testing.T) {
	// names that differ only in punctuation share keys
	if Key("a-b.pdf", 0) != Key("ab.pdf", 0) {
		t.Error("expected sanitized names to collide")
	}
	// index 1 of "x1" and index 11 of "x" are indistinguishable
	if Key("x1", 1) != Key("x", 11) {
		t.Error("expected concatenated keys to collide")
	}
}

func TestPointID(t *testing.T) {
	a := PointID("report.pdf", 0)
	if a != PointID("report.pdf", 0) {
		t.Error("PointID is not deterministic")
	}
	if a == PointID("report.pdf", 1) {
		t.Error("PointID should differ between ordinals")
	}
	if a == PointID("other.pdf", 0) {
		t.Error("PointID should differ between sources")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("PointID() = %q is not a UUID: %v", a, err)
	}
}

func TestBuilder_TextUnit(t *testing.T) {
	b := Builder{Source: "notes.txt", Format: "txt"}
	unit := model.NewTextUnit("first window second window", nil)
	windows := []Window{
		{Text: "first window", LineAligned: true},
		{Text: "second window"},
	}

	chunks := b.Build(unit, windows, 5)
	if len(chunks) != 2 {
		t.Fatalf("Build() returned %d chunks, want 2", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkIndex != i || c.ChunkCount != 2 {
			t.Errorf("chunk %d index/count = %d/%d", i, c.ChunkIndex, c.ChunkCount)
		}
		if c.Key != fmt.Sprintf("notestxt%d", i) {
			t.Errorf("chunk %d key = %q", i, c.Key)
		}
		if c.ID != PointID("notes.txt", 5+i) {
			t.Errorf("chunk %d id not derived from ordinal %d", i, 5+i)
		}
		if c.ContentType != ContentText || c.RowRange != RowRangeText {
			t.Errorf("chunk %d type/range = %q/%q", i, c.ContentType, c.RowRange)
		}
		if c.PageNum != nil || c.TableID != "" || c.FigureID != "" {
			t.Errorf("chunk %d has unexpected provenance: %+v", i, c)
		}
		if c.FileFormat != "txt" || c.Source != "notes.txt" {
			t.Errorf("chunk %d source/format = %q/%q", i, c.Source, c.FileFormat)
		}
	}
}

func TestBuilder_TableUnit(t *testing.T) {
	tbl := &model.Table{Headers: []string{"k"}}
	for i := 0; i < 20; i++ {
		tbl.Rows = append(tbl.Rows, []string{strings.Repeat("v", 10)})
	}
	unit := model.NewTableUnit(tbl, 3, model.Int(4))

	w := &Windower{Size: 80, Overlap: 15}
	chunks := Builder{Source: "r.pdf", Format: "pdf"}.Build(unit, w.Split(unit.Text), 0)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	if chunks[0].RowRange == RowRangeUnknown || !strings.HasPrefix(chunks[0].RowRange, "0 - ") {
		t.Errorf("first chunk row range = %q, want 0 - n", chunks[0].RowRange)
	}
	for i, c := range chunks {
		if c.TableID != "table_3" {
			t.Errorf("chunk %d table id = %q", i, c.TableID)
		}
		if c.PageNum == nil || *c.PageNum != 4 {
			t.Errorf("chunk %d page = %v, want 4", i, c.PageNum)
		}
		if !reflect.DeepEqual(c.Headers, []string{"k"}) {
			t.Errorf("chunk %d headers = %q", i, c.Headers)
		}
		if c.ContentType != ContentTable {
			t.Errorf("chunk %d content type = %q", i, c.ContentType)
		}
		var first, last int
		if c.RowRange != RowRangeUnknown {
			if _, err := fmt.Sscanf(c.RowRange, "%d - %d", &first, &last); err != nil || first > last {
				t.Errorf("chunk %d row range %q is malformed", i, c.RowRange)
			}
		}
	}
}

func TestBuilder_FigureUnit(t *testing.T) {
	unit := model.Unit{
		Text:     "Page 2: 3 image(s) detected",
		Kind:     model.KindFigure,
		PageNum:  model.Int(2),
		FigureID: model.Int(0),
	}

	chunks := Builder{Source: "r.pdf", Format: "pdf"}.Build(unit, []Window{{Text: unit.Text, LineAligned: true}}, 9)
	if len(chunks) != 1 {
		t.Fatalf("Build() returned %d chunks", len(chunks))
	}
	c := chunks[0]
	if c.FigureID != "figure_0" || c.RowRange != RowRangeFigure || c.ContentType != ContentFigure {
		t.Errorf("figure chunk = %+v", c)
	}
}

func TestBuilder_SheetUnit(t *testing.T) {
	unit := model.NewTableUnit(&model.Table{Headers: []string{"a"}, Rows: [][]string{{"1"}}}, 0, nil)
	unit.Sheet = "Q1"

	c := Builder{Source: "b.xlsx", Format: "xlsx"}.Build(unit, []Window{{Text: unit.Text, LineAligned: true}}, 0)[0]
	if c.SheetName != "Q1" || c.RowRange != "0 - 0" {
		t.Errorf("sheet chunk = %+v", c)
	}
}

func TestBuilder_NoWindows(t *testing.T) {
	if got := (Builder{}).Build(model.NewTextUnit("x", nil), nil, 0); got != nil {
		t.Errorf("Build() with no windows = %v, want nil", got)
	}
}

func TestPayload(t *testing.T) {
	c := Chunk{
		Source:      "a.csv",
		Key:         "acsv0",
		FileFormat:  "csv",
		ContentType: ContentTable,
		TableID:     "table_0",
		Headers:     []string{"x"},
		RowRange:    "0 - 1",
	}

	p := c.Payload()
	if _, ok := p["page_num"]; ok {
		t.Error("page_num should be absent for page-less chunks")
	}
	if _, ok := p["figure_id"]; ok {
		t.Error("figure_id should be absent")
	}
	if p["table_id"] != "table_0" || p["row_range"] != "0 - 1" || p["chunk_index"] != 0 {
		t.Errorf("Payload() = %v", p)
	}

	c.PageNum = model.Int(3)
	if got := c.Payload()["page_num"]; got != 3 {
		t.Errorf("page_num = %v, want 3", got)
	}
}
