package pdfdoc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testImage is an uncompressed grayscale image XObject.
type testImage struct {
	width, height int
	fill          byte
}

// testPage is the content stream and resources of one test page.
type testPage struct {
	content string
	image   *testImage
}

// buildPDF assembles a minimal PDF with one Helvetica font whose glyphs are
// all 500 units wide, so text positions are predictable.
func buildPDF(t *testing.T, pages ...testPage) []byte {
	t.Helper()

	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>",
	}

	var kids []string
	for _, p := range pages {
		xobj := ""
		if img := p.image; img != nil {
			data := bytes.Repeat([]byte{img.fill}, img.width*img.height)
			objs = append(objs, fmt.Sprintf(
				"<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray /BitsPerComponent 8 /Length %d >>\nstream\n%s\nendstream",
				img.width, img.height, len(data), data))
			xobj = fmt.Sprintf(" /XObject << /Im1 %d 0 R >>", len(objs))
		}

		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(p.content), p.content))
		contents := len(objs)

		objs = append(objs, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >>%s >> /Contents %d 0 R >>",
			xobj, contents))
		kids = append(kids, fmt.Sprintf("%d 0 R", len(objs)))
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)

	return buf.Bytes()
}

// textAt draws s with its baseline origin at (x, y) in 12pt Helvetica.
func textAt(x, y float64, s string) string {
	return fmt.Sprintf("1 0 0 1 %g %g Tm (%s) Tj\n", x, y, s)
}

// textBlock wraps draw operations in a text object using F1 at 12pt.
func textBlock(ops ...string) string {
	return "BT\n/F1 12 Tf\n" + strings.Join(ops, "") + "ET"
}

func tableContent() string {
	return textBlock(
		textAt(72, 700, "Name"), textAt(200, 700, "Qty"), textAt(330, 700, "Price"),
		textAt(72, 680, "Apple"), textAt(200, 680, "3"), textAt(330, 680, "1.20"),
		textAt(72, 660, "Pear"), textAt(200, 660, "5"), textAt(330, 660, "0.80"),
	)
}

func imageContent() string {
	return "q\n100 0 0 100 72 600 cm\n/Im1 Do\nQ"
}

func writePDF(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
