// Package docingest turns documents into ordered, windowed chunks that carry
// enough provenance to cite them: source file, page, table, figure or sheet,
// and which table records a chunk covers.
//
// Basic usage:
//
//	p, err := docingest.New(config.Default())
//	if err != nil {
//	    // handle error
//	}
//	chunks, err := p.ExtractAndChunk(ctx, "report.pdf")
//
// The extension picks the extractor: PDFs go through text, table and figure
// passes; csv and tsv files are split into tables; xlsx sheets, docx, plain
// text, HTML and e-mail each have their own extractor. doc, ppt and pptx are
// converted to PDF first with a [convert.Converter].
//
// With options:
//
//	p, err := docingest.New(cfg,
//	    docingest.WithLogger(logger),
//	    docingest.WithHeaderPolicy(tables.FirstRow{}),
//	    docingest.WithOCR(true),
//	)
//
// A Pipeline holds no per-call state and may be used from several goroutines.
// ExtractAll processes a batch concurrently.
package docingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/tsawler/docingest/config"
	"github.com/tsawler/docingest/convert"
	"github.com/tsawler/docingest/delimited"
	"github.com/tsawler/docingest/docx"
	"github.com/tsawler/docingest/format"
	"github.com/tsawler/docingest/htmldoc"
	"github.com/tsawler/docingest/maildoc"
	"github.com/tsawler/docingest/model"
	"github.com/tsawler/docingest/ocr"
	"github.com/tsawler/docingest/pdfdoc"
	"github.com/tsawler/docingest/rag"
	"github.com/tsawler/docingest/tables"
	"github.com/tsawler/docingest/textdoc"
	"github.com/tsawler/docingest/xlsx"
)

// Extractor reads one file into content units in document order. A file
// without content yields no units and no error.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]model.Unit, error)
}

// Pipeline dispatches files to extractors and windows the result.
type Pipeline struct {
	cfg        config.Config
	logger     *slog.Logger
	converter  convert.Converter
	extractors map[format.Role]Extractor
	windower   *rag.Windower

	headerPolicy tables.HeaderPolicy
	ocr          bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithConverter sets the converter used for doc, ppt and pptx inputs,
// replacing the one built from the configuration.
func WithConverter(c convert.Converter) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.converter = c
		}
	}
}

// WithHeaderPolicy sets how PDF tables decide whether their first row is a
// header. The default is tables.DistinctHalf.
func WithHeaderPolicy(policy tables.HeaderPolicy) Option {
	return func(p *Pipeline) {
		if policy != nil {
			p.headerPolicy = policy
		}
	}
}

// WithOCR enables or disables OCR of image-only PDF pages, overriding the
// configuration.
func WithOCR(enabled bool) Option {
	return func(p *Pipeline) {
		p.ocr = enabled
	}
}

// New validates cfg and builds a Pipeline.
func New(cfg config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	windower, err := rag.NewWindower(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:          cfg,
		logger:       slog.Default(),
		windower:     windower,
		headerPolicy: tables.DistinctHalf{},
		ocr:          cfg.OCR,
	}
	p.converter = converterFor(cfg.Converter)

	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.With("component", "docingest")
	p.extractors = p.buildExtractors()
	return p, nil
}

// converterFor returns the soffice converter described by cc, or one that
// always fails when no binary is configured.
func converterFor(cc config.ConverterConfig) convert.Converter {
	if cc.Binary == "" {
		return convert.Unavailable{}
	}
	return &convert.Soffice{
		Binary:  cc.Binary,
		OutDir:  cc.OutDir,
		Timeout: time.Duration(cc.Timeout),
	}
}

// buildExtractors returns the extractor for every role that has one.
// OfficeSlides has none: slides are always converted to PDF first.
func (p *Pipeline) buildExtractors() map[format.Role]Extractor {
	pdfx := pdfdoc.NewExtractor(p.logger)
	pdfx.HeaderPolicy = p.headerPolicy
	if p.ocr {
		if ocr.Available() {
			pdfx.NewRecognizer = newRecognizer
		} else {
			p.logger.Warn("ocr requested but not compiled in", "error", ocr.ErrOCRNotEnabled)
		}
	}

	return map[format.Role]Extractor{
		format.PDF:         pdfx,
		format.Delimited:   delimited.NewExtractor(p.logger),
		format.OfficeDoc:   docx.NewExtractor(p.logger),
		format.Spreadsheet: xlsx.NewExtractor(p.logger),
		format.PlainText:   textdoc.NewExtractor(p.logger),
		format.HTML:        htmldoc.NewExtractor(p.logger),
		format.Email:       maildoc.NewExtractor(p.logger),
	}
}

func newRecognizer() (pdfdoc.Recognizer, error) {
	c, err := ocr.New()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() config.Config {
	return p.cfg
}
