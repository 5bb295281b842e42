package dumpfmt

import (
	"errors"
	"strconv"
	"strings"
)

// ParseLine reads one previously rendered dump line and writes the
// characters it carries to w. The return value is the number of
// characters written.
//
// A line with no space after the address run yields zero characters, so
// blank and truncated lines pass through harmlessly. Fields are scanned
// as anchored 6-character windows; the first window that is neither a
// right-justified hex field nor a " *HH" raw-byte field ends the scan,
// which is how the padding before the glyph section terminates a short
// line. A codepoint the writer cannot encode is replaced by U+FFFD.
func ParseLine(line string, width int, w CharWriter) (int, error) {
	sep := strings.IndexByte(line, ' ')
	if sep < 0 {
		return 0, nil
	}
	pos := sep + 1
	count := 0
	for i := 0; i < width && pos < len(line); i++ {
		field := line[pos:min(pos+6, len(line))]
		if r, ok := hexField(field); ok {
			if err := writeRune(w, r); err != nil {
				return count, err
			}
		} else if b, ok := rawField(field); ok {
			if err := w.WriteRawByte(b); err != nil {
				return count, err
			}
		} else {
			break
		}
		count++
		pos += 6
	}
	return count, nil
}

func writeRune(w CharWriter, r rune) error {
	err := w.WriteRune(r)
	if errors.Is(err, ErrCannotEncode) {
		err = w.WriteRune('�')
	}
	return err
}

// hexField matches a field of up to 6 hex digits, right-justified:
// leading spaces, then digits through the end of the window.
func hexField(field string) (rune, bool) {
	digits := strings.TrimLeft(field, " ")
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// rawField matches a raw-byte field: leading spaces, an asterisk, and
// exactly two hex digits filling the rest of the window.
func rawField(field string) (byte, bool) {
	rest := strings.TrimLeft(field, " ")
	if len(rest) != 3 || rest[0] != '*' {
		return 0, false
	}
	v, err := strconv.ParseUint(rest[1:], 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}
