// Package convert turns office formats that have no native extractor into
// PDF so they can go through the PDF extraction path.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrConversion is returned when a document cannot be converted to PDF,
// including when no converter is available.
var ErrConversion = errors.New("conversion to pdf failed")

// Converter converts the document at path to PDF. It returns the PDF's path
// and a cleanup func that removes any temporary files behind it. cleanup is
// non-nil whenever err is nil.
type Converter interface {
	Convert(ctx context.Context, path string) (pdf string, cleanup func(), err error)
}

// DefaultTimeout bounds a single conversion when Soffice.Timeout is zero.
const DefaultTimeout = 2 * time.Minute

// Soffice converts documents with a headless LibreOffice. Every call gets
// its own LibreOffice profile, so concurrent conversions do not contend for
// one user installation.
type Soffice struct {
	// Binary is the soffice executable; "soffice" on PATH when empty.
	Binary string

	// OutDir receives the PDF. When empty the PDF goes to a temporary
	// directory that the returned cleanup removes.
	OutDir string

	Timeout time.Duration
}

// NewSoffice returns a converter using the soffice found on PATH.
func NewSoffice() *Soffice {
	return &Soffice{Binary: "soffice", Timeout: DefaultTimeout}
}

// pdfName returns the file name soffice gives the PDF for path.
func pdfName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
}

// Convert runs soffice on path. With OutDir set, an existing PDF of the same
// name there is removed first, so a stale file is never mistaken for a fresh
// conversion.
func (s *Soffice) Convert(ctx context.Context, path string) (string, func(), error) {
	if _, err := os.Stat(path); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}

	binary := s.Binary
	if binary == "" {
		binary = "soffice"
	}
	bin, err := exec.LookPath(binary)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}

	work, err := os.MkdirTemp("", "docingest-convert-*")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}
	cleanup := func() { os.RemoveAll(work) }

	outDir := s.OutDir
	if outDir == "" {
		outDir = filepath.Join(work, "out")
		if err := os.Mkdir(outDir, 0o755); err != nil {
			cleanup()
			return "", nil, fmt.Errorf("%w: %w", ErrConversion, err)
		}
	}
	out := filepath.Join(outDir, pdfName(path))
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		cleanup()
		return "", nil, fmt.Errorf("%w: removing stale output: %w", ErrConversion, err)
	}

	if err := s.run(ctx, bin, work, outDir, path); err != nil {
		cleanup()
		return "", nil, err
	}

	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		cleanup()
		return "", nil, fmt.Errorf("%w: %s: no pdf produced", ErrConversion, filepath.Base(path))
	}
	if s.OutDir != "" {
		// the PDF outlives the call; only the profile is temporary
		cleanup()
		return out, func() {}, nil
	}
	return out, cleanup, nil
}

func (s *Soffice) run(ctx context.Context, bin, work, outDir, path string) error {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	profile := (&url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(work, "profile"))}).String()
	cmd := exec.CommandContext(ctx, bin,
		"-env:UserInstallation="+profile,
		"--headless", "--convert-to", "pdf", "--outdir", outDir, path)
	// soffice forks helpers that may outlive it and hold stderr open
	cmd.WaitDelay = 5 * time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s: %w", ErrConversion, filepath.Base(path), ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		return fmt.Errorf("%w: %s: %w (%s)", ErrConversion, filepath.Base(path), err, msg)
	}
	return nil
}

// Unavailable is a Converter that always fails. It stands in when no
// converter has been configured.
type Unavailable struct{}

// Convert implements Converter.
func (Unavailable) Convert(_ context.Context, path string) (string, func(), error) {
	return "", nil, fmt.Errorf("%w: no converter configured for %s", ErrConversion, filepath.Base(path))
}
