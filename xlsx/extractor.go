package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/tsawler/docingest/format"
	"github.com/tsawler/docingest/model"
	"github.com/tsawler/docingest/tables"
)

// Extractor turns each worksheet into one table unit. The first non-empty
// row of a sheet names the columns.
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

// Extract returns one table unit per sheet that has at least one data row,
// in workbook order. A sheet that cannot be parsed is logged and skipped;
// failing to open the workbook is an error.
func (e *Extractor) Extract(ctx context.Context, path string) ([]model.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	if role, err := format.DetectFile(path); err == nil && role != format.Spreadsheet {
		e.Logger.Warn("content does not match extension",
			"file", filepath.Base(path),
			"content", role.String())
	}

	r, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer r.Close()

	var units []model.Unit
	for i, sheetName := range r.SheetNames() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sheet, err := r.Sheet(i)
		if err != nil {
			e.Logger.Warn("skipping unreadable sheet", "file", name, "sheet", sheetName, "error", err)
			continue
		}

		t := tables.Apply(tables.FirstRow{}, sheet.Matrix())
		if t == nil {
			e.Logger.Debug("skipping empty sheet", "file", name, "sheet", sheetName)
			continue
		}

		u := model.NewTableUnit(t, len(units), nil)
		u.Sheet = sheetName
		units = append(units, u)
	}

	if len(units) == 0 {
		e.Logger.Warn("workbook has no data", "file", name)
	}
	return units, nil
}
