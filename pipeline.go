package docingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/docingest/convert"
	"github.com/tsawler/docingest/format"
	"github.com/tsawler/docingest/model"
	"github.com/tsawler/docingest/rag"
)

// ExtractAndChunk resolves the extractor for path from its extension, then
// extracts and windows the file. An empty file yields no chunks and no
// error. On error no chunks are returned.
func (p *Pipeline) ExtractAndChunk(ctx context.Context, path string) ([]rag.Chunk, error) {
	role, ext, err := format.Detect(path, p.cfg.Extensions)
	if err != nil {
		return nil, err
	}
	p.logger.Info("resolved format", "file", filepath.Base(path), "ext", ext, "role", role)
	return p.ExtractAndChunkAs(ctx, role, path)
}

// ExtractAndChunkAs extracts path with the extractor for role, bypassing
// extension dispatch. Inputs whose extension needs conversion are converted
// to PDF first; their chunks then report file_format "pdf" and the PDF's
// base name as source.
func (p *Pipeline) ExtractAndChunkAs(ctx context.Context, role format.Role, path string) ([]rag.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if info.Size() == 0 {
		p.logger.Warn("skipping empty file", "file", filepath.Base(path))
		return nil, nil
	}

	fileFormat := format.Ext(path)
	if format.NeedsConversion(fileFormat) {
		converted, cleanup, err := p.converter.Convert(ctx, path)
		if err != nil {
			if !errors.Is(err, convert.ErrConversion) {
				err = fmt.Errorf("%w: %w", convert.ErrConversion, err)
			}
			return nil, err
		}
		if cleanup != nil {
			defer cleanup()
		}
		p.logger.Info("converted to pdf", "file", filepath.Base(path), "pdf", filepath.Base(converted))
		role, path, fileFormat = format.PDF, converted, "pdf"
	}

	extractor, ok := p.extractors[role]
	if !ok {
		return nil, fmt.Errorf("%w: no extractor for %s", format.ErrUnsupportedFormat, role)
	}

	units, err := extractor.Extract(ctx, path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) && !errors.Is(err, ErrIO) {
			err = fmt.Errorf("%w: %w", ErrIO, err)
		}
		return nil, err
	}

	chunks := p.chunk(rag.Builder{Source: filepath.Base(path), Format: fileFormat}, units)
	p.logger.Debug("chunked file",
		"file", filepath.Base(path),
		"units", len(units),
		"chunks", len(chunks))
	return chunks, nil
}

// chunk windows every unit and numbers the chunks across the document.
func (p *Pipeline) chunk(b rag.Builder, units []model.Unit) []rag.Chunk {
	var chunks []rag.Chunk
	for _, u := range units {
		if u.IsBlank() {
			continue
		}
		chunks = append(chunks, b.Build(u, p.windower.Split(u.Text), len(chunks))...)
	}
	return chunks
}

// Result is the outcome of one file in a batch.
type Result struct {
	Path   string
	Chunks []rag.Chunk
	Err    error
}

// ExtractAll runs ExtractAndChunk for each path with at most concurrency
// files in flight (GOMAXPROCS when concurrency < 1). Results are in input
// order. A failing file records its error and does not stop the others.
func (p *Pipeline) ExtractAll(ctx context.Context, paths []string, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(paths))
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			chunks, err := p.ExtractAndChunk(ctx, path)
			if err != nil {
				p.logger.Warn("extraction failed", "file", filepath.Base(path), "error", err)
			}
			results[i] = Result{Path: path, Chunks: chunks, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
