package rag

// ChunkCollection provides filtering over the chunks of one or more
// documents.
type ChunkCollection struct {
	Chunks []Chunk
}

// NewChunkCollection creates a new collection from chunks
func NewChunkCollection(chunks []Chunk) *ChunkCollection {
	return &ChunkCollection{Chunks: chunks}
}

// Filter returns chunks matching a predicate
func (cc *ChunkCollection) Filter(predicate func(*Chunk) bool) *ChunkCollection {
	var filtered []Chunk
	for i := range cc.Chunks {
		if predicate(&cc.Chunks[i]) {
			filtered = append(filtered, cc.Chunks[i])
		}
	}
	return &ChunkCollection{Chunks: filtered}
}

// FilterByPage returns chunks on a specific page
func (cc *ChunkCollection) FilterByPage(page int) *ChunkCollection {
	return cc.Filter(func(c *Chunk) bool {
		return c.PageNum != nil && *c.PageNum == page
	})
}

// FilterByContentType returns chunks of one content type
func (cc *ChunkCollection) FilterByContentType(contentType string) *ChunkCollection {
	return cc.Filter(func(c *Chunk) bool {
		return c.ContentType == contentType
	})
}

// FilterBySource returns chunks that came from one input file
func (cc *ChunkCollection) FilterBySource(source string) *ChunkCollection {
	return cc.Filter(func(c *Chunk) bool {
		return c.Source == source
	})
}

// Tables groups table chunks by table id.
func (cc *ChunkCollection) Tables() map[string][]Chunk {
	tables := make(map[string][]Chunk)
	for _, c := range cc.Chunks {
		if c.TableID != "" {
			tables[c.TableID] = append(tables[c.TableID], c)
		}
	}
	return tables
}

// Count returns the number of chunks
func (cc *ChunkCollection) Count() int {
	return len(cc.Chunks)
}

// ToJSONL exports the collection as JSON Lines
func (cc *ChunkCollection) ToJSONL() (string, error) {
	return NewExporter().ExportToString(cc.Chunks)
}

// ToCSV exports the collection as CSV
func (cc *ChunkCollection) ToCSV() (string, error) {
	config := DefaultExportConfig()
	config.Format = ExportFormatCSV
	return NewExporterWithConfig(config).ExportToString(cc.Chunks)
}
