package rag

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidWindow is returned for a window size or overlap that cannot
// produce forward progress.
var ErrInvalidWindow = errors.New("invalid window configuration")

// BreakType represents the kind of position a window may end at.
type BreakType int

const (
	// BreakNone indicates a hard cut at the size limit
	BreakNone BreakType = iota
	// BreakSpace indicates any whitespace
	BreakSpace
	// BreakSentence indicates a sentence ending followed by a space
	BreakSentence
	// BreakLine indicates a single newline
	BreakLine
	// BreakParagraph indicates a blank line
	BreakParagraph
)

// String returns a human-readable representation of the break type
func (bt BreakType) String() string {
	switch bt {
	case BreakNone:
		return "none"
	case BreakSpace:
		return "space"
	case BreakSentence:
		return "sentence"
	case BreakLine:
		return "line"
	case BreakParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Window is one slice of a unit's text. Start and End are rune offsets into
// the trimmed unit text.
type Window struct {
	Text  string
	Start int
	End   int

	// Break is how the window was ended; BreakNone for the final window.
	Break BreakType

	// LineAligned is true when the window starts at the beginning of a line.
	LineAligned bool
}

// Windower cuts text into windows of at most Size runes, consecutive windows
// sharing exactly Overlap runes.
//
// When text must be cut, the cut point is searched for in the last quarter
// of the window, preferring a paragraph break, then a line break, then a
// sentence end, then any whitespace. Without any, the window is cut at Size.
type Windower struct {
	Size    int
	Overlap int
}

// NewWindower returns a Windower after checking 0 <= overlap < size.
func NewWindower(size, overlap int) (*Windower, error) {
	w := &Windower{Size: size, Overlap: overlap}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate checks the window configuration.
func (w *Windower) Validate() error {
	if w.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidWindow, w.Size)
	}
	if w.Overlap < 0 || w.Overlap >= w.Size {
		return fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidWindow, w.Overlap, w.Size)
	}
	return nil
}

// Split returns the windows of text, trimmed of surrounding whitespace.
// Blank text yields no windows; text of at most Size runes yields one.
func (w *Windower) Split(text string) []Window {
	runes := []rune(strings.TrimSpace(text))
	n := len(runes)
	if n == 0 {
		return nil
	}
	if n <= w.Size {
		return []Window{{Text: string(runes), Start: 0, End: n, LineAligned: true}}
	}

	var windows []Window
	start := 0
	for {
		aligned := start == 0 || runes[start-1] == '\n'
		end := start + w.Size
		if end >= n {
			windows = append(windows, Window{
				Text:        string(runes[start:n]),
				Start:       start,
				End:         n,
				LineAligned: aligned,
			})
			return windows
		}

		lo := end - w.Size/4
		if floor := start + w.Overlap; lo < floor {
			lo = floor
		}
		cut, kind := findBreak(runes, lo, end)

		windows = append(windows, Window{
			Text:        string(runes[start:cut]),
			Start:       start,
			End:         cut,
			Break:       kind,
			LineAligned: aligned,
		})
		start = cut - w.Overlap
	}
}

// findBreak returns the exclusive end of the best cut whose last rune lies
// in runes[lo:end], and the kind of break found there.
func findBreak(runes []rune, lo, end int) (int, BreakType) {
	if lo >= end {
		return end, BreakNone
	}

	best, bestKind := -1, BreakNone
	for i := end - 1; i >= lo; i-- {
		kind := breakAt(runes, i)
		if kind > bestKind {
			best, bestKind = i, kind
			if kind == BreakParagraph {
				break
			}
		}
	}

	if best < 0 {
		return end, BreakNone
	}
	return best + 1, bestKind
}

// breakAt classifies the position after runes[i] as a cut point.
func breakAt(runes []rune, i int) BreakType {
	r := runes[i]
	switch {
	case r == '\n':
		if i > 0 && runes[i-1] == '\n' {
			return BreakParagraph
		}
		return BreakLine
	case (r == '.' || r == '!' || r == '?') && isSentenceEnd(runes, i):
		return BreakSentence
	case unicode.IsSpace(r):
		return BreakSpace
	}
	return BreakNone
}

// isSentenceEnd checks if the punctuation at runes[i] ends a sentence: it
// must be followed by whitespace and must not close a known abbreviation.
func isSentenceEnd(runes []rune, i int) bool {
	if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
		return false
	}
	if runes[i] == '.' && isAbbreviation(runes, i) {
		return false
	}
	return true
}

// abbreviations that end with a period and rarely end a sentence
var abbreviations = map[string]bool{
	"mr.": true, "mrs.": true, "ms.": true, "dr.": true, "prof.": true,
	"sr.": true, "jr.": true, "vs.": true, "e.g.": true, "i.e.": true,
	"st.": true, "no.": true, "vol.": true, "pp.": true, "pg.": true,
}

// isAbbreviation checks if the period at runes[i] is part of an abbreviation
func isAbbreviation(runes []rune, i int) bool {
	start := i
	for start > 0 && (unicode.IsLetter(runes[start-1]) || runes[start-1] == '.') {
		start--
	}
	if start >= i {
		return false
	}
	return abbreviations[strings.ToLower(string(runes[start:i+1]))]
}
