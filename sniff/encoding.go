// Package sniff guesses the character encoding and the field delimiter of
// text inputs whose producer did not declare either.
package sniff

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEncodingDetection is returned when no text encoding can be
// determined, typically because the content is binary.
var ErrEncodingDetection = errors.New("encoding detection failed")

// SampleSize is the number of leading bytes inspected by DetectEncoding.
const SampleSize = 10000

// Encoding names returned by DetectEncoding.
const (
	UTF8    = "utf-8"
	UTF16LE = "utf-16le"
	UTF16BE = "utf-16be"
)

// DetectEncoding returns the name of the most likely text encoding of
// sample. Only the first SampleSize bytes are examined.
//
// The checks run in this order: byte order mark, UTF-16 by NUL-byte
// parity, 7-bit or valid UTF-8 content (both reported as utf-8), then the
// HTML5 prescan and its windows-1252 fallback.
func DetectEncoding(sample []byte) (string, error) {
	truncated := len(sample) > SampleSize
	if truncated {
		sample = sample[:SampleSize]
	}
	if len(sample) == 0 {
		return UTF8, nil
	}

	switch {
	case bytes.HasPrefix(sample, []byte{0xEF, 0xBB, 0xBF}):
		return UTF8, nil
	case bytes.HasPrefix(sample, []byte{0xFF, 0xFE}):
		return UTF16LE, nil
	case bytes.HasPrefix(sample, []byte{0xFE, 0xFF}):
		return UTF16BE, nil
	}

	if bytes.IndexByte(sample, 0) >= 0 {
		if name := utf16ByParity(sample); name != "" {
			return name, nil
		}
		return "", fmt.Errorf("%w: sample contains NUL bytes", ErrEncodingDetection)
	}

	if isASCII(sample) || validUTF8(sample, truncated) {
		return UTF8, nil
	}

	_, name, _ := charset.DetermineEncoding(sample, "")
	if name == "" {
		return "", ErrEncodingDetection
	}
	return name, nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

// validUTF8 reports whether b is valid UTF-8. When b was cut from a longer
// input, a trailing incomplete rune is tolerated.
func validUTF8(b []byte, truncated bool) bool {
	if utf8.Valid(b) {
		return true
	}
	if !truncated {
		return false
	}
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		tail := b[len(b)-i:]
		if utf8.RuneStart(tail[0]) {
			return !utf8.FullRune(tail) && utf8.Valid(b[:len(b)-i])
		}
	}
	return false
}

// utf16ByParity recognizes BOM-less UTF-16 text whose code units are
// mostly Latin: the high byte of each unit is NUL, so NULs cluster on odd
// offsets for little-endian and on even offsets for big-endian.
func utf16ByParity(b []byte) string {
	var even, odd int
	for i, c := range b {
		if c != 0 {
			continue
		}
		if i%2 == 0 {
			even++
		} else {
			odd++
		}
	}

	half := len(b) / 2
	if half == 0 {
		return ""
	}
	switch {
	case odd*10 >= half*3 && even*10 < half:
		return UTF16LE
	case even*10 >= half*3 && odd*10 < half:
		return UTF16BE
	}
	return ""
}

// lookup returns the decoder encoding for a name produced by DetectEncoding.
func lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case UTF8:
		return unicode.UTF8BOM, nil
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	}
	enc, _ := charset.Lookup(name)
	if enc == nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrEncodingDetection, name)
	}
	return enc, nil
}

// Decode detects the encoding of data and returns its content as a UTF-8
// string together with the detected encoding name. A leading byte order
// mark is removed.
func Decode(data []byte) (string, string, error) {
	name, err := DetectEncoding(data)
	if err != nil {
		return "", "", err
	}
	text, err := DecodeAs(data, name)
	if err != nil {
		return "", name, err
	}
	return text, name, nil
}

// DecodeAs decodes data from the named encoding to a UTF-8 string.
func DecodeAs(data []byte, name string) (string, error) {
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("%w: decoding %s: %v", ErrEncodingDetection, name, err)
	}
	return strings.TrimPrefix(string(out), "\ufeff"), nil
}
