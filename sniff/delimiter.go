package sniff

import (
	"errors"
	"unicode/utf8"
)

// ErrDelimiterDetection is returned when no candidate delimiter splits the
// sample consistently.
var ErrDelimiterDetection = errors.New("delimiter detection failed")

// DelimiterSampleSize bounds the sample examined by SniffDelimiter.
const DelimiterSampleSize = 2048

// Candidates are the delimiters SniffDelimiter considers, in tie-break order.
var Candidates = []rune{',', '\t', ';', '|', ':'}

// SniffDelimiter returns the field delimiter of a delimited text sample.
//
// The sample is split into records (newlines inside double quotes do not end
// a record) and each candidate is counted per record outside quotes. The
// winner is the candidate whose most common non-zero count appears on the
// most records, provided that count covers at least half of them. Ties go to
// the earlier candidate.
func SniffDelimiter(sample string) (rune, error) {
	truncated := false
	if len(sample) > DelimiterSampleSize {
		sample = sample[:DelimiterSampleSize]
		for len(sample) > 0 && !utf8.ValidString(sample) {
			sample = sample[:len(sample)-1]
		}
		truncated = true
	}

	records := splitRecords(sample)
	if truncated && len(records) > 1 {
		// the last record may have been cut mid-line
		records = records[:len(records)-1]
	}
	if len(records) == 0 {
		return 0, ErrDelimiterDetection
	}

	best, bestScore := rune(0), 0
	for _, c := range Candidates {
		score := consistency(records, c)
		if score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore == 0 || bestScore*2 < len(records) {
		return 0, ErrDelimiterDetection
	}
	return best, nil
}

// consistency returns how many records share the most common non-zero count
// of delim.
func consistency(records []string, delim rune) int {
	freq := make(map[int]int)
	best := 0
	for _, rec := range records {
		n := countOutsideQuotes(rec, delim)
		if n == 0 {
			continue
		}
		freq[n]++
		if freq[n] > best {
			best = freq[n]
		}
	}
	return best
}

func countOutsideQuotes(s string, delim rune) int {
	n := 0
	inQuotes := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			n++
		}
	}
	return n
}

// splitRecords splits s on line breaks outside double quotes and drops
// blank records.
func splitRecords(s string) []string {
	var records []string
	inQuotes := false
	start := 0
	flush := func(end int) {
		rec := s[start:end]
		if len(rec) > 0 && rec[len(rec)-1] == '\r' {
			rec = rec[:len(rec)-1]
		}
		if rec != "" {
			records = append(records, rec)
		}
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case '\n':
			if !inQuotes {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(s))
	return records
}
