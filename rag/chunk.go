package rag

// Content types recorded on each chunk.
const (
	ContentText   = "text"
	ContentTable  = "table"
	ContentFigure = "figure"
)

// Chunk is one bounded window of a unit's text, plus the provenance needed
// to locate it in its source document.
type Chunk struct {
	// Text is the window content
	Text string `json:"text"`

	// Source is the base name of the input file
	Source string `json:"source"`

	// Key is Sanitize(Source) followed by ChunkIndex
	Key string `json:"key"`

	// ID is a deterministic UUID derived from Source and the chunk's
	// position in the document
	ID string `json:"id"`

	// ChunkIndex is the position of the window within its unit
	ChunkIndex int `json:"chunk_index"`

	// ChunkCount is the number of windows the unit produced
	ChunkCount int `json:"chunk_count"`

	// FileFormat is the lower-case extension, "pdf" after conversion
	FileFormat string `json:"file_format"`

	// ContentType is one of ContentText, ContentTable, ContentFigure
	ContentType string `json:"content_type"`

	// PageNum is 1-based; nil for formats without pages
	PageNum *int `json:"page_num,omitempty"`

	TableID   string   `json:"table_id,omitempty"`
	FigureID  string   `json:"figure_id,omitempty"`
	SheetName string   `json:"sheet_name,omitempty"`
	Headers   []string `json:"headers,omitempty"`

	// RowRange is "first - last" for table slices, or one of RowRangeText,
	// RowRangeFigure, RowRangeUnknown
	RowRange string `json:"row_range"`
}

// Payload flattens the chunk metadata into the shape stored alongside the
// chunk text in a search index. Optional fields are present only when set.
func (c *Chunk) Payload() map[string]any {
	p := map[string]any{
		"source":       c.Source,
		"key":          c.Key,
		"chunk_index":  c.ChunkIndex,
		"chunk_count":  c.ChunkCount,
		"file_format":  c.FileFormat,
		"content_type": c.ContentType,
		"row_range":    c.RowRange,
	}
	if c.PageNum != nil {
		p["page_num"] = *c.PageNum
	}
	if c.TableID != "" {
		p["table_id"] = c.TableID
	}
	if c.FigureID != "" {
		p["figure_id"] = c.FigureID
	}
	if c.SheetName != "" {
		p["sheet_name"] = c.SheetName
	}
	if len(c.Headers) > 0 {
		p["headers"] = append([]string(nil), c.Headers...)
	}
	return p
}
