package docx

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tsawler/docingest/format"
	"github.com/tsawler/docingest/model"
)

// Extractor returns the text of a DOCX file as a single unit: paragraphs
// first, then table rows.
type Extractor struct {
	Logger *slog.Logger
}

// NewExtractor returns an Extractor logging to logger, or to slog.Default
// when logger is nil.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{Logger: logger}
}

// Extract returns one text unit without a page number, or no units when the
// document has no text.
func (e *Extractor) Extract(ctx context.Context, path string) ([]model.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if role, err := format.DetectFile(path); err == nil && role != format.OfficeDoc {
		e.Logger.Warn("content does not match extension",
			"file", filepath.Base(path),
			"content", role.String())
	}

	r, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	defer r.Close()

	paragraphs := r.Paragraphs()
	rows := r.TableRows()
	e.Logger.Debug("docx extracted",
		"file", filepath.Base(path),
		"paragraphs", len(paragraphs),
		"table_rows", len(rows))

	text := strings.Join(append(paragraphs, rows...), "\n")
	if strings.TrimSpace(text) == "" {
		e.Logger.Warn("no text content in document", "file", filepath.Base(path))
		return nil, nil
	}
	return []model.Unit{model.NewTextUnit(text, nil)}, nil
}
