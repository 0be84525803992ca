// Package format maps input files to the extractor role that handles them.
package format

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when a file's extension has no extractor
// or is not in the configured set of accepted extensions.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Role is the extractor family a file is routed to.
type Role int

const (
	// Unknown indicates an unrecognized format.
	Unknown Role = iota
	// PDF indicates a PDF document.
	PDF
	// Delimited indicates a flat delimited text file (csv, tsv).
	Delimited
	// OfficeDoc indicates a word-processing document (docx, doc).
	OfficeDoc
	// OfficeSlides indicates a presentation (pptx, ppt).
	OfficeSlides
	// Spreadsheet indicates an Excel workbook (xlsx).
	Spreadsheet
	// PlainText indicates plain text or markdown.
	PlainText
	// HTML indicates an HTML document.
	HTML
	// Email indicates a single message (eml) or a mailbox (mbox).
	Email
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case PDF:
		return "PDF"
	case Delimited:
		return "Delimited"
	case OfficeDoc:
		return "OfficeDoc"
	case OfficeSlides:
		return "OfficeSlides"
	case Spreadsheet:
		return "Spreadsheet"
	case PlainText:
		return "PlainText"
	case HTML:
		return "HTML"
	case Email:
		return "Email"
	default:
		return "Unknown"
	}
}

// roles maps a lower-case extension without the dot to its role.
var roles = map[string]Role{
	"pdf":  PDF,
	"csv":  Delimited,
	"tsv":  Delimited,
	"docx": OfficeDoc,
	"doc":  OfficeDoc,
	"pptx": OfficeSlides,
	"ppt":  OfficeSlides,
	"xlsx": Spreadsheet,
	"txt":  PlainText,
	"md":   PlainText,
	"msg":  PlainText,
	"html": HTML,
	"htm":  HTML,
	"eml":  Email,
	"mbox": Email,
}

// Supported reports whether ext (with or without the dot) has a role.
func Supported(ext string) bool {
	_, ok := roles[Ext(ext)]
	return ok
}

// NeedsConversion reports whether files with extension ext must be converted
// to PDF before extraction. docx is read natively.
func NeedsConversion(ext string) bool {
	switch Ext(ext) {
	case "doc", "ppt", "pptx":
		return true
	}
	return false
}

// Ext normalizes an extension or file name to its lower-case extension
// without the leading dot.
func Ext(name string) string {
	ext := filepath.Ext(name)
	if ext == "" && !strings.Contains(name, ".") {
		ext = name
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Detect determines the role for path from its extension alone; the file is
// never opened. accepted is the configured extension set (without dots); a
// nil set accepts every known extension.
//
// The returned extension is lower-case without the dot.
func Detect(path string, accepted []string) (Role, string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return Unknown, "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, filepath.Base(path))
	}

	role, ok := roles[ext]
	if !ok {
		return Unknown, ext, fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}

	if accepted != nil && !contains(accepted, ext) {
		return Unknown, ext, fmt.Errorf("%w: .%s is not enabled", ErrUnsupportedFormat, ext)
	}

	return role, ext, nil
}

func contains(set []string, ext string) bool {
	for _, s := range set {
		if strings.EqualFold(strings.TrimPrefix(s, "."), ext) {
			return true
		}
	}
	return false
}

// DetectFromMagic checks leading bytes to determine a role.
// Returns Unknown if the role cannot be determined from magic bytes alone;
// ZIP containers need DetectFromReader.
func DetectFromMagic(data []byte) Role {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	if isZIP(data) {
		return Unknown
	}

	if detectHTMLMagic(data) {
		return HTML
	}

	return Unknown
}

// isZIP reports the PK\x03\x04 local file header signature.
func isZIP(data []byte) bool {
	return len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start >= len(data) {
		return false
	}
	data = data[start:]
	if len(data) > 512 {
		data = data[:512]
	}

	upper := strings.ToUpper(string(data))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XHTML
	return strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML")
}

// DetectFromReader inspects content to determine a role. Unlike Detect it
// can tell the OOXML containers apart. Extractors use it to flag files whose
// extension disagrees with their content.
func DetectFromReader(r io.ReaderAt, size int64) (Role, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if isZIP(magic) {
		return detectZIPRole(r, size)
	}
	return DetectFromMagic(magic), nil
}

// DetectFile opens path and runs DetectFromReader on it.
func DetectFile(path string) (Role, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Unknown, err
	}
	return DetectFromReader(f, info.Size())
}

// detectZIPRole inspects an OOXML package to tell docx, xlsx and pptx apart.
func detectZIPRole(r io.ReaderAt, size int64) (Role, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, fmt.Errorf("opening ZIP archive: %w", err)
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return OfficeDoc, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return Spreadsheet, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return OfficeSlides, nil
		}
	}

	return Unknown, nil
}
