package docingest

import (
	"errors"

	"github.com/tsawler/docingest/config"
	"github.com/tsawler/docingest/convert"
	"github.com/tsawler/docingest/format"
	"github.com/tsawler/docingest/pdfdoc"
	"github.com/tsawler/docingest/rag"
	"github.com/tsawler/docingest/sniff"
)

// Errors returned by the pipeline. All are matched with errors.Is.
var (
	// ErrUnsupportedFormat: the extension has no extractor or is not enabled.
	ErrUnsupportedFormat = format.ErrUnsupportedFormat

	// ErrEncodingDetection: a text input's character encoding is unknown.
	ErrEncodingDetection = sniff.ErrEncodingDetection

	// ErrDelimiterDetection: no consistent field separator in a delimited file.
	ErrDelimiterDetection = sniff.ErrDelimiterDetection

	// ErrConversion: a doc, ppt or pptx input could not be converted to PDF.
	ErrConversion = convert.ErrConversion

	// ErrOpen: a PDF could not be opened.
	ErrOpen = pdfdoc.ErrOpen

	// ErrInvalidConfig: the configuration failed validation.
	ErrInvalidConfig = config.ErrInvalidConfig

	// ErrInvalidWindow: chunk size and overlap are inconsistent.
	ErrInvalidWindow = rag.ErrInvalidWindow

	// ErrIO: the input could not be read.
	ErrIO = errors.New("i/o error")
)
