package model

import "strings"

// Kind identifies what an extracted unit represents.
type Kind int

const (
	// KindText is running text: a page, a whole document, a message body.
	KindText Kind = iota
	// KindTable is a table serialized as one indexed record per line.
	KindTable
	// KindFigure is a marker noting that images were found.
	KindFigure
)

// String returns the content type name used in chunk metadata.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTable:
		return "table"
	case KindFigure:
		return "figure"
	default:
		return "unknown"
	}
}

// Unit is one undivided piece of extracted content before windowing.
// Extractors create one per page, table, figure marker or whole document.
type Unit struct {
	Text string
	Kind Kind

	// PageNum is 1-based; nil for formats without pages.
	PageNum *int

	// TableID is the table's sequence number within the file.
	TableID *int

	// FigureID is the figure marker's sequence number within the file.
	FigureID *int

	// Headers are the column names of a table unit.
	Headers []string

	// Sheet is the worksheet a spreadsheet table came from.
	Sheet string
}

// IsBlank reports whether the unit carries no text after trimming.
func (u Unit) IsBlank() bool {
	return strings.TrimSpace(u.Text) == ""
}

// NewTextUnit returns a text unit. page may be nil.
func NewTextUnit(text string, page *int) Unit {
	return Unit{Text: text, Kind: KindText, PageNum: page}
}

// NewTableUnit returns a table unit for the given table.
func NewTableUnit(t *Table, id int, page *int) Unit {
	return Unit{
		Text:    strings.Join(t.Records(), "\n"),
		Kind:    KindTable,
		PageNum: page,
		TableID: Int(id),
		Headers: append([]string(nil), t.Headers...),
	}
}

// NewFigureUnit returns a figure marker unit.
func NewFigureUnit(text string, id int, page *int) Unit {
	return Unit{Text: text, Kind: KindFigure, PageNum: page, FigureID: Int(id)}
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
