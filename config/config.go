// Package config holds the settings the ingestion pipeline is built from.
// Values come from Default, optionally overlaid by a YAML file, and are
// passed explicitly to every component.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/tsawler/docingest/format"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the pipeline configuration.
type Config struct {
	// Extensions is the set of accepted file extensions, without dots.
	Extensions []string `yaml:"extensions"`

	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int `yaml:"chunk_size"`

	// ChunkOverlap is how many characters consecutive chunks share.
	ChunkOverlap int `yaml:"chunk_overlap"`

	// OCR enables text recognition on image-only PDF pages.
	OCR bool `yaml:"ocr"`

	Converter ConverterConfig `yaml:"converter"`
}

// ConverterConfig configures the LibreOffice converter used for doc, ppt
// and pptx inputs.
type ConverterConfig struct {
	// Binary is the soffice executable. Empty disables conversion.
	Binary string `yaml:"binary"`

	// OutDir keeps converted PDFs; a per-call temporary directory when empty.
	OutDir string `yaml:"out_dir"`

	Timeout Duration `yaml:"timeout"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Extensions: []string{
			"pdf", "csv", "tsv", "xlsx", "docx", "doc", "pptx", "ppt",
			"md", "txt", "msg", "html", "htm", "eml", "mbox",
		},
		ChunkSize:    550,
		ChunkOverlap: 100,
		Converter: ConverterConfig{
			Binary:  "soffice",
			Timeout: Duration(2 * time.Minute),
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the chunking bounds and that every extension is known.
func (c Config) Validate() error {
	var errs []error
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		errs = append(errs, fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", c.ChunkOverlap))
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, errors.New("extensions must not be empty"))
	}
	for _, ext := range c.Extensions {
		if !format.Supported(ext) {
			errs = append(errs, fmt.Errorf("unsupported extension %q", ext))
		}
	}
	if c.Converter.Timeout < 0 {
		errs = append(errs, errors.New("converter timeout must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
