package delimited

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/docingest/format"
	"github.com/tsawler/docingest/model"
	"github.com/tsawler/docingest/sniff"
)

// Extractor produces one table unit per table found in a delimited file.
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

// Extract reads path, detects its encoding and delimiter, and returns its
// tables as units numbered from 0. An empty file yields no units.
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
		return nil, err
	}

	delim, err := sniff.SniffDelimiter(text)
	if err != nil {
		if !errors.Is(err, sniff.ErrDelimiterDetection) || format.Ext(path) != "tsv" {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		delim = '\t'
	}

	e.Logger.Debug("delimited input",
		"file", filepath.Base(path),
		"encoding", enc,
		"delimiter", string(delim))

	tables, err := Segment(strings.NewReader(text), delim)
	if err != nil {
		return nil, err
	}

	units := make([]model.Unit, 0, len(tables))
	for i, t := range tables {
		units = append(units, model.NewTableUnit(t, i, nil))
	}
	return units, nil
}
