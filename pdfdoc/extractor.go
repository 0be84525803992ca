package pdfdoc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/docingest/format"
	"github.com/tsawler/docingest/model"
	"github.com/tsawler/docingest/tables"
)

// ErrOpen is returned when a file cannot be read as a PDF.
var ErrOpen = errors.New("cannot open PDF")

// Recognizer turns an image into text.
type Recognizer interface {
	RecognizeImage(imageData []byte) (string, error)
	Close() error
}

// Extractor runs the text, table and figure passes over every page of a PDF.
type Extractor struct {
	Logger *slog.Logger

	// Detector finds tables in positioned page text
	Detector tables.Detector

	// HeaderPolicy decides whether a detected table's first row is its header
	HeaderPolicy tables.HeaderPolicy

	// NewRecognizer, when set, enables OCR for pages whose text pass finds
	// nothing. One recognizer is created per extraction.
	NewRecognizer func() (Recognizer, error)
}

// NewExtractor returns an Extractor with the geometric table detector and
// the default header policy. OCR is disabled.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		Logger:       logger,
		Detector:     tables.NewGeometricDetector(),
		HeaderPolicy: tables.DistinctHalf{},
	}
}

// page holds what the passes read from one page.
type page struct {
	num       int
	pdf       pdf.Page
	fragments []model.TextFragment
	lines     []model.Line
}

// Extract returns the page texts, then the tables in discovery order, then
// one figure marker per page with images. Table ids run across the whole
// document. A failing pass is logged and contributes nothing; only a file
// that cannot be opened is an error.
func (e *Extractor) Extract(ctx context.Context, path string) ([]model.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	f, r, numPages, err := open(path, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, filepath.Base(path), err)
	}
	defer f.Close()

	log := e.Logger.With("file", filepath.Base(path))
	rec := e.recognizer(log)
	if rec != nil {
		defer rec.Close()
	}

	var texts, tbls, figures []model.Unit
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := e.loadPage(r, i)
		if err != nil {
			log.Warn("skipping page", "page", i, "error", err)
			continue
		}

		if text := e.textPass(log, p, rec); text != "" {
			texts = append(texts, model.NewTextUnit(text, model.Int(i)))
		}

		for _, t := range e.tablePass(log, p) {
			tbls = append(tbls, model.NewTableUnit(t, len(tbls), model.Int(i)))
		}

		if n := e.figurePass(log, p); n > 0 {
			marker := FigureText(i, n)
			figures = append(figures, model.NewFigureUnit(marker, len(figures), model.Int(ParseMarkerPage(marker))))
		}
	}

	log.Debug("pdf extracted",
		"pages", numPages,
		"text_units", len(texts),
		"tables", len(tbls),
		"figures", len(figures))

	units := make([]model.Unit, 0, len(texts)+len(tbls)+len(figures))
	units = append(units, texts...)
	units = append(units, tbls...)
	units = append(units, figures...)
	return units, nil
}

// open reads the document structure. The reader panics on some malformed
// input, so panics are returned as errors.
func open(path string, size int64) (f *os.File, r *pdf.Reader, numPages int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, err
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
		if err != nil {
			file.Close()
			f, r, numPages = nil, nil, 0
		}
	}()

	switch role, _ := format.DetectFromReader(file, size); role {
	case format.PDF:
	case format.Unknown:
		return nil, nil, 0, errors.New("missing %PDF header")
	default:
		return nil, nil, 0, fmt.Errorf("content is %s, not PDF", role)
	}

	r, err = pdf.NewReader(file, size)
	if err != nil {
		return nil, nil, 0, err
	}
	return file, r, r.NumPage(), nil
}

// guard runs fn, converting a panic inside the PDF reader into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()
	return fn()
}

// loadPage reads the glyphs and drawn rectangles of page num.
func (e *Extractor) loadPage(r *pdf.Reader, num int) (*page, error) {
	p := &page{num: num}
	err := guard(func() error {
		p.pdf = r.Page(num)
		if p.pdf.V.IsNull() {
			return fmt.Errorf("page %d not found", num)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Content failures leave the page without geometry; the text pass then
	// falls back to the plain text reader.
	_ = guard(func() error {
		content := p.pdf.Content()
		p.fragments = buildFragments(content.Text)
		p.lines = rulingLines(content.Rect)
		return nil
	})
	return p, nil
}

// textPass returns the trimmed text of a page, or "" when it has none.
func (e *Extractor) textPass(log *slog.Logger, p *page, rec Recognizer) string {
	text := layoutText(p.fragments)
	if text == "" {
		err := guard(func() error {
			plain, err := p.pdf.GetPlainText(nil)
			text = strings.TrimSpace(plain)
			return err
		})
		if err != nil {
			log.Warn("text pass failed", "page", p.num, "error", err)
			text = ""
		}
	}

	if text == "" && rec != nil {
		text = e.ocrPass(log, p, rec)
	}
	return text
}

// ocrPass recognizes the decodable images of a page.
func (e *Extractor) ocrPass(log *slog.Logger, p *page, rec Recognizer) string {
	var images []imageXObject
	if err := guard(func() error {
		images = findImages(p.pdf.Resources(), 0)
		return nil
	}); err != nil {
		log.Warn("ocr pass failed", "page", p.num, "error", err)
		return ""
	}

	var parts []string
	for _, x := range images {
		img, err := decodeImage(x)
		if err != nil {
			log.Debug("image not usable for ocr", "page", p.num, "image", x.name, "error", err)
			continue
		}
		data, err := img.PNG()
		if err != nil {
			log.Debug("image not usable for ocr", "page", p.num, "image", x.name, "error", err)
			continue
		}
		text, err := rec.RecognizeImage(data)
		if err != nil {
			log.Warn("ocr failed", "page", p.num, "image", x.name, "error", err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// tablePass detects tables in the page geometry and applies the header
// policy to each.
func (e *Extractor) tablePass(log *slog.Logger, p *page) []*model.Table {
	if len(p.fragments) == 0 || e.Detector == nil {
		return nil
	}

	var found []*tables.Detected
	err := guard(func() error {
		var err error
		found, err = e.Detector.Detect(tables.Region{Fragments: p.fragments, Lines: p.lines})
		return err
	})
	if err != nil {
		log.Warn("table pass failed", "page", p.num, "error", err)
		return nil
	}

	var out []*model.Table
	for _, d := range found {
		if t := tables.Apply(e.HeaderPolicy, d.Matrix); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// figurePass counts the images drawn on a page.
func (e *Extractor) figurePass(log *slog.Logger, p *page) int {
	var n int
	err := guard(func() error {
		n = countImages(p.pdf)
		return nil
	})
	if err != nil {
		log.Warn("figure pass failed", "page", p.num, "error", err)
		return 0
	}
	return n
}

// recognizer creates the OCR engine for one extraction, or returns nil when
// OCR is disabled or unavailable.
func (e *Extractor) recognizer(log *slog.Logger) Recognizer {
	if e.NewRecognizer == nil {
		return nil
	}
	rec, err := e.NewRecognizer()
	if err != nil {
		log.Warn("ocr unavailable", "error", err)
		return nil
	}
	return rec
}
