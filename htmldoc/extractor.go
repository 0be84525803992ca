package htmldoc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/docingest/model"
)

// Extractor reads an HTML file as one text unit.
type Extractor struct {
	Logger *slog.Logger

	// Options control which parts of the body are kept.
	Options ExtractOptions
}

// NewExtractor returns an Extractor that strips navigation blocks, logging
// to logger or to slog.Default when logger is nil.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		Logger:  logger,
		Options: ExtractOptions{StripNavigation: true},
	}
}

// Extract returns the body text of the file as a single unit without a page
// number. A document without readable text yields no units.
func (e *Extractor) Extract(ctx context.Context, path string) ([]model.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	r, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer r.Close()

	text := r.TextWithOptions(e.Options)
	if strings.TrimSpace(text) == "" {
		e.Logger.Warn("no text extracted", "file", name)
		return nil, nil
	}
	e.Logger.Debug("extracted html", "file", name, "title", r.Title(), "chars", len(text))
	return []model.Unit{model.NewTextUnit(text, nil)}, nil
}

// StringText returns the body text of an HTML fragment or document that is
// already decoded to UTF-8, such as the HTML part of an e-mail.
func StringText(s string, opts ExtractOptions) (string, error) {
	r, err := OpenReader(strings.NewReader(s))
	if err != nil {
		return "", err
	}
	return r.TextWithOptions(opts), nil
}
