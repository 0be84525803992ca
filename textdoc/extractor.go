// Package textdoc extracts plain text and markdown files as a single unit.
package textdoc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/docingest/model"
	"github.com/tsawler/docingest/sniff"
)

// Extractor reads a whole text file, decoding it from whatever encoding it
// appears to use.
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

// Extract returns the decoded file content as one text unit without a page
// number. A zero-byte or whitespace-only file yields no units and skips
// encoding detection. Encoding detection failure is an error for the file.
func (e *Extractor) Extract(ctx context.Context, path string) ([]model.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	text, enc, err := sniff.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	e.Logger.Debug("decoded text file", "file", filepath.Base(path), "encoding", enc)

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []model.Unit{model.NewTextUnit(text, nil)}, nil
}
