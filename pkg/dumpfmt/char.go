package dumpfmt

import "errors"

// Char is one unit of the decoded input stream: either a Unicode
// codepoint or a single byte that did not decode. The two are kept
// disjoint even where their numeric values coincide (a raw 0x41 is not
// the letter A), so re-encoding never confuses them.
type Char struct {
	Rune rune // the codepoint, valid when Raw is false
	Byte byte // the verbatim byte, valid when Raw is true
	Raw  bool
}

// Codepoint wraps a decoded Unicode scalar value.
func Codepoint(r rune) Char {
	return Char{Rune: r}
}

// RawByte wraps a byte that could not be decoded.
func RawByte(b byte) Char {
	return Char{Byte: b, Raw: true}
}

// ErrCannotEncode is returned by a CharWriter for a value that cannot be
// represented in its output encoding.
var ErrCannotEncode = errors.New("value not representable in the output encoding")

// CharWriter receives the characters recovered from dump lines.
// transcode.Encoder is the production implementation.
type CharWriter interface {
	// WriteRune encodes one codepoint into the output stream.
	WriteRune(r rune) error

	// WriteRawByte emits one byte verbatim, independent of any
	// encoding state.
	WriteRawByte(b byte) error
}
