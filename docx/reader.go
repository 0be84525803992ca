// Package docx reads the text of DOCX (Office Open XML) documents.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Reader provides access to DOCX document content.
type Reader struct {
	zipReader *zip.ReadCloser
	document  *documentXML
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
	}

	// Validate required files exist
	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	if err := r.parseDocument(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	if r.getFile("word/document.xml") == nil {
		return fmt.Errorf("missing required file: %s", "word/document.xml")
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f := r.getFile(name)
	if f == nil {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// getFile returns a zip.File by name.
func (r *Reader) getFile(name string) *zip.File {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// parseDocument parses the main document content.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent("word/document.xml")
	if err != nil {
		return err
	}

	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}
	return nil
}

// Paragraphs returns the trimmed text of the non-empty top-level paragraphs
// in document order. Paragraphs inside tables are not included.
func (r *Reader) Paragraphs() []string {
	if r.document == nil || r.document.Body == nil {
		return nil
	}

	var out []string
	for _, p := range r.document.Body.Paragraphs {
		if text := strings.TrimSpace(paragraphText(p)); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// TableRows returns every row of every top-level table as its cell texts
// joined with " | ". Rows whose joined text is blank are dropped.
func (r *Reader) TableRows() []string {
	if r.document == nil || r.document.Body == nil {
		return nil
	}

	var out []string
	for _, tbl := range r.document.Body.Tables {
		for _, row := range parseTable(tbl) {
			if text := strings.Join(row, " | "); strings.TrimSpace(text) != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

// Text returns the paragraphs followed by the table rows, one per line.
func (r *Reader) Text() (string, error) {
	if r.document == nil {
		return "", fmt.Errorf("document not parsed")
	}

	lines := append(r.Paragraphs(), r.TableRows()...)
	return strings.Join(lines, "\n"), nil
}

// paragraphText concatenates the runs of a paragraph, including runs nested
// in hyperlinks and tracked insertions.
func paragraphText(p paragraphXML) string {
	var sb strings.Builder
	for _, c := range p.Children {
		writeRuns(&sb, c)
	}
	return sb.String()
}

func writeRuns(sb *strings.Builder, c paraChildXML) {
	switch c.XMLName.Local {
	case "r":
		writeRunText(sb, c.Content)
	case "hyperlink", "ins", "smartTag", "fldSimple":
		for _, r := range c.Runs {
			writeRuns(sb, r)
		}
	}
}

// writeRunText writes the text-bearing elements of a run in order.
func writeRunText(sb *strings.Builder, content []runChildXML) {
	for _, el := range content {
		switch el.XMLName.Local {
		case "t":
			sb.WriteString(el.Value)
		case "tab":
			sb.WriteString("\t")
		case "br", "cr":
			sb.WriteString("\n")
		case "noBreakHyphen":
			sb.WriteString("-")
		}
	}
}
