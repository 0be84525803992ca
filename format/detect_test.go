package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRole_String(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{PDF, "PDF"},
		{Delimited, "Delimited"},
		{OfficeDoc, "OfficeDoc"},
		{OfficeSlides, "OfficeSlides"},
		{Spreadsheet, "Spreadsheet"},
		{PlainText, "PlainText"},
		{HTML, "HTML"},
		{Email, "Email"},
		{Unknown, "Unknown"},
		{Role(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.role.String(); got != tt.want {
			t.Errorf("Role(%d).String() = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path    string
		role    Role
		ext     string
		wantErr bool
	}{
		{"report.pdf", PDF, "pdf", false},
		{"REPORT.PDF", PDF, "pdf", false},
		{"data.csv", Delimited, "csv", false},
		{"data.tsv", Delimited, "tsv", false},
		{"letter.docx", OfficeDoc, "docx", false},
		{"letter.doc", OfficeDoc, "doc", false},
		{"deck.pptx", OfficeSlides, "pptx", false},
		{"deck.ppt", OfficeSlides, "ppt", false},
		{"book.xlsx", Spreadsheet, "xlsx", false},
		{"notes.txt", PlainText, "txt", false},
		{"README.md", PlainText, "md", false},
		{"mail.msg", PlainText, "msg", false},
		{"page.htm", HTML, "htm", false},
		{"message.eml", Email, "eml", false},
		{"archive.mbox", Email, "mbox", false},
		{"/some/dir/x.y.pdf", PDF, "pdf", false},
		{"image.png", Unknown, "png", true},
		{"noext", Unknown, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			role, ext, err := Detect(tt.path, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Detect(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("error %v does not wrap ErrUnsupportedFormat", err)
			}
			if role != tt.role || ext != tt.ext {
				t.Errorf("Detect(%q) = %v, %q; want %v, %q", tt.path, role, ext, tt.role, tt.ext)
			}
		})
	}
}

func TestDetect_AcceptedSet(t *testing.T) {
	accepted := []string{"pdf", ".CSV"}

	if _, _, err := Detect("a.csv", accepted); err != nil {
		t.Errorf("csv should be accepted: %v", err)
	}
	_, _, err := Detect("a.docx", accepted)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("docx outside the set: got %v, want ErrUnsupportedFormat", err)
	}
}

func TestNeedsConversion(t *testing.T) {
	tests := map[string]bool{
		"doc":    true,
		".ppt":   true,
		"x.PPTX": true,
		"docx":   false,
		"pdf":    false,
		"csv":    false,
	}
	for ext, want := range tests {
		if got := NeedsConversion(ext); got != want {
			t.Errorf("NeedsConversion(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Role
	}{
		{"pdf", []byte("%PDF-1.7\n"), PDF},
		{"zip", []byte{0x50, 0x4B, 0x03, 0x04, 0x00}, Unknown},
		{"doctype", []byte("  <!DOCTYPE html><html>"), HTML},
		{"html", []byte("<html><body>"), HTML},
		{"xhtml", []byte(`<?xml version="1.0"?><html xmlns="x">`), HTML},
		{"short", []byte("%P"), Unknown},
		{"text", []byte("hello world"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_ZIP(t *testing.T) {
	tests := []struct {
		entry string
		want  Role
	}{
		{"word/document.xml", OfficeDoc},
		{"xl/workbook.xml", Spreadsheet},
		{"ppt/presentation.xml", OfficeSlides},
		{"other/thing.xml", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)
			w, err := zw.Create(tt.entry)
			if err != nil {
				t.Fatal(err)
			}
			w.Write([]byte("<x/>"))
			zw.Close()

			data := buf.Bytes()
			got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_PDF(t *testing.T) {
	data := []byte("%PDF-1.4\n%%EOF")
	got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if got != PDF {
		t.Errorf("DetectFromReader() = %v, want PDF", got)
	}
}

func TestSupported(t *testing.T) {
	for _, ext := range []string{"pdf", ".CSV", "mbox", "htm"} {
		if !Supported(ext) {
			t.Errorf("Supported(%q) = false", ext)
		}
	}
	for _, ext := range []string{"exe", "", "helm"} {
		if Supported(ext) {
			t.Errorf("Supported(%q) = true", ext)
		}
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "a.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4\n%%EOF"), 0644); err != nil {
		t.Fatal(err)
	}
	if got, err := DetectFile(pdf); err != nil || got != PDF {
		t.Errorf("DetectFile(pdf) = %v, %v; want PDF", got, err)
	}

	if _, err := DetectFile(filepath.Join(dir, "missing.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("DetectFile(missing) error = %v, want os.ErrNotExist", err)
	}
}
