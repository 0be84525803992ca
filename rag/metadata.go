package rag

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tsawler/docingest/model"
)

// Sanitize drops every rune outside [A-Za-z0-9] from name.
func Sanitize(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Key returns the chunk key for the chunkIndex-th window of a unit from
// source. Keys restart with each unit and sources that sanitize to the same
// string produce the same keys; use ID where uniqueness matters.
func Key(source string, chunkIndex int) string {
	return Sanitize(source) + strconv.Itoa(chunkIndex)
}

// PointID returns a name-based UUID for the chunk at ordinal within source.
// It is stable across re-extraction of an unchanged file.
func PointID(source string, ordinal int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(source+"#"+strconv.Itoa(ordinal))).String()
}

// Builder attaches provenance to windows. It holds no state between calls.
type Builder struct {
	// Source is the input file's base name
	Source string

	// Format is the file_format value written on every chunk
	Format string
}

// Build returns one chunk per window of unit. ordinal is the position of
// the unit's first chunk within the whole document and seeds the chunk IDs.
func (b Builder) Build(unit model.Unit, windows []Window, ordinal int) []Chunk {
	if len(windows) == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, len(windows))
	for i, w := range windows {
		c := Chunk{
			Text:        w.Text,
			Source:      b.Source,
			Key:         Key(b.Source, i),
			ID:          PointID(b.Source, ordinal+i),
			ChunkIndex:  i,
			ChunkCount:  len(windows),
			FileFormat:  b.Format,
			ContentType: unit.Kind.String(),
			SheetName:   unit.Sheet,
		}
		if unit.PageNum != nil {
			c.PageNum = model.Int(*unit.PageNum)
		}

		switch unit.Kind {
		case model.KindTable:
			if unit.TableID != nil {
				c.TableID = "table_" + strconv.Itoa(*unit.TableID)
			}
			if len(unit.Headers) > 0 {
				c.Headers = append([]string(nil), unit.Headers...)
			}
			c.RowRange = RowRange(w)
		case model.KindFigure:
			if unit.FigureID != nil {
				c.FigureID = "figure_" + strconv.Itoa(*unit.FigureID)
			}
			c.RowRange = RowRangeFigure
		default:
			c.RowRange = RowRangeText
		}

		chunks = append(chunks, c)
	}
	return chunks
}
