// Package maildoc extracts e-mail messages from .eml files and mbox
// mailboxes. Each message becomes one text unit headed by its subject.
package maildoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-mbox"
	"github.com/jhillyerd/enmime"

	"github.com/tsawler/docingest/htmldoc"
	"github.com/tsawler/docingest/model"
)

// Extractor reads single messages and mailboxes. Files ending in .mbox are
// read as mailboxes; anything else as one RFC 5322 message.
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

// Extract returns one text unit per message, in file order.
func (e *Extractor) Extract(ctx context.Context, path string) ([]model.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".mbox") {
		return e.extractMailbox(ctx, name, f)
	}

	text, err := messageText(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if strings.TrimSpace(text) == "" {
		e.Logger.Warn("no text extracted", "file", name)
		return nil, nil
	}
	return []model.Unit{model.NewTextUnit(text, nil)}, nil
}

// extractMailbox reads every message of an mbox. A message that cannot be
// parsed is logged and skipped; a file that is not a mailbox at all is an
// error.
func (e *Extractor) extractMailbox(ctx context.Context, name string, r io.Reader) ([]model.Unit, error) {
	mr := mbox.NewReader(r)

	var units []model.Unit
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msg, err := mr.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if n == 0 {
				return nil, fmt.Errorf("%s: reading mailbox: %w", name, err)
			}
			e.Logger.Warn("stopping at malformed mailbox entry", "file", name, "message", n, "error", err)
			break
		}

		text, err := messageText(msg)
		if err != nil {
			e.Logger.Warn("skipping unreadable message", "file", name, "message", n, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		units = append(units, model.NewTextUnit(text, nil))
	}

	e.Logger.Debug("read mailbox", "file", name, "messages", len(units))
	return units, nil
}

// messageText renders a message as a Subject line followed by its body. The
// plain text body is preferred; an HTML-only message is converted with
// htmldoc.
func messageText(r io.Reader) (string, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return "", fmt.Errorf("parsing message: %w", err)
	}

	body := env.Text
	if env.HTML != "" && !hasPlainPart(env) {
		converted, err := htmldoc.StringText(env.HTML, htmldoc.ExtractOptions{})
		if err != nil {
			return "", fmt.Errorf("converting HTML body: %w", err)
		}
		body = converted
	}
	body = strings.TrimSpace(body)

	var buf bytes.Buffer
	if subject := strings.TrimSpace(env.GetHeader("Subject")); subject != "" {
		buf.WriteString("Subject: ")
		buf.WriteString(subject)
		if body != "" {
			buf.WriteString("\n\n")
		}
	}
	buf.WriteString(body)
	return buf.String(), nil
}

// hasPlainPart reports whether the message carries its own text/plain body,
// as opposed to one enmime derived from the HTML part.
func hasPlainPart(env *enmime.Envelope) bool {
	if env.Root == nil {
		return true
	}
	part := env.Root.BreadthMatchFirst(func(p *enmime.Part) bool {
		return p.ContentType == "text/plain" && p.Disposition != "attachment"
	})
	return part != nil
}
