package rag

import (
	"strconv"
	"strings"
)

// Row range values for chunks that are not table slices, or whose rows
// could not be identified.
const (
	RowRangeText    = "text"
	RowRangeFigure  = "image_detected"
	RowRangeUnknown = "unknown"
)

// RowRange reports which table records a window covers as "first - last",
// read from the "<index>: ..." prefix of its first and last lines. A window
// that starts mid-line skips its partial first line. Any line that does not
// parse, or a range that runs backwards, yields RowRangeUnknown.
func RowRange(w Window) string {
	lines := strings.Split(strings.TrimRight(w.Text, "\n"), "\n")
	if !w.LineAligned {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return RowRangeUnknown
	}

	first, ok := recordIndex(lines[0])
	if !ok {
		return RowRangeUnknown
	}
	last, ok := recordIndex(lines[len(lines)-1])
	if !ok || first > last {
		return RowRangeUnknown
	}
	return strconv.Itoa(first) + " - " + strconv.Itoa(last)
}

// recordIndex parses the integer before the first colon of a record line.
func recordIndex(line string) (int, bool) {
	head, _, found := strings.Cut(line, ":")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, false
	}
	return n, true
}
