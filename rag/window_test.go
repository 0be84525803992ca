package rag

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewWindower(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{"defaults", 550, 100, false},
		{"no overlap", 10, 0, false},
		{"zero size", 0, 0, true},
		{"negative overlap", 10, -1, true},
		{"overlap equals size", 10, 10, true},
		{"overlap exceeds size", 10, 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindower(tt.size, tt.overlap)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWindow) {
					t.Errorf("NewWindower(%d, %d) error = %v, want ErrInvalidWindow", tt.size, tt.overlap, err)
				}
				return
			}
			if err != nil || w == nil {
				t.Fatalf("NewWindower(%d, %d) = %v, %v", tt.size, tt.overlap, w, err)
			}
		})
	}
}

func TestBreakType_String(t *testing.T) {
	tests := []struct {
		bt   BreakType
		want string
	}{
		{BreakNone, "none"},
		{BreakSpace, "space"},
		{BreakSentence, "sentence"},
		{BreakLine, "line"},
		{BreakParagraph, "paragraph"},
		{BreakType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.bt.String(); got != tt.want {
			t.Errorf("BreakType(%d).String() = %q, want %q", tt.bt, got, tt.want)
		}
	}
}

func TestSplit_Short(t *testing.T) {
	w := &Windower{Size: 10, Overlap: 2}

	got := w.Split("  hello \n")
	if len(got) != 1 {
		t.Fatalf("Split() returned %d windows, want 1", len(got))
	}
	if got[0].Text != "hello" || !got[0].LineAligned {
		t.Errorf("Split() = %+v, want single aligned \"hello\"", got[0])
	}

	exact := strings.Repeat("x", 10)
	if got := w.Split(exact); len(got) != 1 || got[0].Text != exact {
		t.Errorf("text of exactly Size runes should be one window, got %d", len(got))
	}
}

func TestSplit_Blank(t *testing.T) {
	w := &Windower{Size: 10, Overlap: 2}
	if got := w.Split(" \n\t "); got != nil {
		t.Errorf("Split(blank) = %v, want nil", got)
	}
}

func TestSplit_HardCut(t *testing.T) {
	w := &Windower{Size: 100, Overlap: 20}
	got := w.Split(strings.Repeat("x", 250))

	want := [][2]int{{0, 100}, {80, 180}, {160, 250}}
	if len(got) != len(want) {
		t.Fatalf("Split() returned %d windows, want %d", len(got), len(want))
	}
	for i, win := range got {
		if win.Start != want[i][0] || win.End != want[i][1] {
			t.Errorf("window %d = [%d,%d), want [%d,%d)", i, win.Start, win.End, want[i][0], want[i][1])
		}
	}
	if got[0].Break != BreakNone {
		t.Errorf("Break = %v, want none", got[0].Break)
	}
}

func TestSplit_BreakPriority(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantEnd  string
		wantKind BreakType
	}{
		{
			name:     "paragraph beats later line",
			text:     strings.Repeat("a", 78) + "\n\n" + "bbbbbb\ncc" + strings.Repeat("d", 60),
			wantEnd:  "a\n\n",
			wantKind: BreakParagraph,
		},
		{
			name:     "line beats later sentence",
			text:     strings.Repeat("a", 80) + "\nbb. cccc" + strings.Repeat("d", 60),
			wantEnd:  "a\n",
			wantKind: BreakLine,
		},
		{
			name:     "sentence beats later space",
			text:     strings.Repeat("a", 80) + ". bbb ccc" + strings.Repeat("d", 60),
			wantEnd:  "a.",
			wantKind: BreakSentence,
		},
		{
			name:     "abbreviation is not a sentence end",
			text:     strings.Repeat("a", 80) + " Dr. Smith" + strings.Repeat("d", 60),
			wantEnd:  "Dr. ",
			wantKind: BreakSpace,
		},
		{
			name:     "break before last quarter ignored",
			text:     strings.Repeat("a", 20) + "\n\n" + strings.Repeat("b", 150),
			wantEnd:  "bbbb",
			wantKind: BreakNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Windower{Size: 100, Overlap: 10}
			got := w.Split(tt.text)
			if len(got) < 2 {
				t.Fatalf("Split() returned %d windows, want at least 2", len(got))
			}
			if got[0].Break != tt.wantKind {
				t.Errorf("first window break = %v, want %v", got[0].Break, tt.wantKind)
			}
			if !strings.HasSuffix(got[0].Text, tt.wantEnd) {
				t.Errorf("first window ends %q, want suffix %q", tail(got[0].Text, 8), tt.wantEnd)
			}
		})
	}
}

func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func sampleProse(sentences int) string {
	var sb strings.Builder
	for i := 0; i < sentences; i++ {
		fmt.Fprintf(&sb, "Sentence number %d talks about café résumé naïveté. ", i)
		if i%5 == 4 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func TestSplit_Invariants(t *testing.T) {
	configs := []struct{ size, overlap int }{
		{550, 100},
		{100, 0},
		{64, 63},
		{7, 3},
	}
	text := sampleProse(60)
	trimmed := []rune(strings.TrimSpace(text))

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("%d/%d", cfg.size, cfg.overlap), func(t *testing.T) {
			w, err := NewWindower(cfg.size, cfg.overlap)
			if err != nil {
				t.Fatal(err)
			}
			windows := w.Split(text)
			if len(windows) < 2 {
				t.Fatalf("expected several windows, got %d", len(windows))
			}

			if windows[0].Start != 0 || windows[len(windows)-1].End != len(trimmed) {
				t.Errorf("windows do not cover the text")
			}

			for i, win := range windows {
				if n := utf8.RuneCountInString(win.Text); n > cfg.size || n == 0 {
					t.Errorf("window %d has %d runes, want 1..%d", i, n, cfg.size)
				}
				if win.Text != string(trimmed[win.Start:win.End]) {
					t.Errorf("window %d text does not match its offsets", i)
				}
				if i == 0 {
					continue
				}
				prev := windows[i-1]
				if win.Start != prev.End-cfg.overlap {
					t.Errorf("window %d starts at %d, want %d", i, win.Start, prev.End-cfg.overlap)
				}
				if win.Start <= prev.Start {
					t.Errorf("window %d does not advance", i)
				}
				shared := string(trimmed[win.Start:prev.End])
				if !strings.HasSuffix(prev.Text, shared) || !strings.HasPrefix(win.Text, shared) {
					t.Errorf("windows %d and %d do not share %d runes", i-1, i, cfg.overlap)
				}
			}
		})
	}
}

func TestSplit_LineAligned(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("%d: {\"v\": \"row %d\"}", i, i))
	}
	w := &Windower{Size: 120, Overlap: 0}

	for i, win := range w.Split(strings.Join(lines, "\n")) {
		if !win.LineAligned {
			t.Errorf("window %d should start on a line boundary with zero overlap", i)
		}
	}
}

// ============================================================================
// Row Range Tests
// ============================================================================

func TestRowRange(t *testing.T) {
	tests := []struct {
		name string
		win  Window
		want string
	}{
		{"aligned", Window{Text: "0: {}\n1: {}\n2: {}", LineAligned: true}, "0 - 2"},
		{"single line", Window{Text: "7: {\"a\": 1}", LineAligned: true}, "7 - 7"},
		{"trailing newline", Window{Text: "3: {}\n4: {}\n", LineAligned: true}, "3 - 4"},
		{"partial first line skipped", Window{Text: "x\"}\n3: {}\n4: {\"a", LineAligned: false}, "3 - 4"},
		{"partial only", Window{Text: "\"b\": null}", LineAligned: false}, "unknown"},
		{"not a record", Window{Text: "hello world", LineAligned: true}, "unknown"},
		{"last not a record", Window{Text: "1: {}\nfoo", LineAligned: true}, "unknown"},
		{"backwards", Window{Text: "5: {}\n2: {}", LineAligned: true}, "unknown"},
		{"empty", Window{Text: "", LineAligned: true}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RowRange(tt.win); got != tt.want {
				t.Errorf("RowRange(%q) = %q, want %q", tt.win.Text, got, tt.want)
			}
		})
	}
}
