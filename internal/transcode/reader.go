package transcode

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"

	"chardump/pkg/dumpfmt"

	"golang.org/x/text/transform"
)

// RuneReader decodes one character at a time from a byte stream. Bytes
// that do not form a valid sequence in the codec's encoding come back
// one per call as raw bytes; the caller decides whether that is
// tolerable. io.EOF signals exhaustion.
type RuneReader struct {
	br      *bufio.Reader
	dec     transform.Transformer // nil for native UTF-8
	fffd    []byte                // the encoding's own form of U+FFFD, nil if it has none
	window  []byte                // bytes read but not yet consumed by dec
	pending []dumpfmt.Char
}

// NewRuneReader returns a reader decoding r in the codec's encoding.
func (c *Codec) NewRuneReader(r io.Reader) *RuneReader {
	rr := &RuneReader{br: bufio.NewReader(r)}
	if c.enc != nil {
		rr.dec = c.enc.NewDecoder()
		if b, err := c.enc.NewEncoder().Bytes([]byte("�")); err == nil {
			rr.fffd = b
		}
	}
	return rr
}

// ReadChar returns the next character of the stream.
func (rr *RuneReader) ReadChar() (dumpfmt.Char, error) {
	if len(rr.pending) == 0 {
		if rr.dec == nil {
			return rr.readUTF8()
		}
		if err := rr.fill(); err != nil {
			return dumpfmt.Char{}, err
		}
	}
	ch := rr.pending[0]
	rr.pending = rr.pending[1:]
	return ch, nil
}

// readUTF8 is the native fast path. bufio's ReadRune consumes exactly
// one byte per invalid sequence, which is the one-raw-byte contract.
func (rr *RuneReader) readUTF8() (dumpfmt.Char, error) {
	r, size, err := rr.br.ReadRune()
	if err != nil {
		return dumpfmt.Char{}, err
	}
	if r == utf8.RuneError && size == 1 {
		if err := rr.br.UnreadRune(); err != nil {
			return dumpfmt.Char{}, err
		}
		b, err := rr.br.ReadByte()
		if err != nil {
			return dumpfmt.Char{}, err
		}
		return dumpfmt.RawByte(b), nil
	}
	return dumpfmt.Codepoint(r), nil
}

// fill feeds the decoder until it produces at least one character.
func (rr *RuneReader) fill() error {
	for len(rr.pending) == 0 {
		atEOF := false
		b, err := rr.br.ReadByte()
		switch {
		case err == nil:
			rr.window = append(rr.window, b)
		case err == io.EOF:
			if len(rr.window) == 0 {
				return io.EOF
			}
			atEOF = true
		default:
			return err
		}
		progressed := false
		for rr.step(atEOF) {
			progressed = true
		}
		if atEOF && !progressed && len(rr.window) > 0 {
			// decoder refuses the trailing partial sequence
			for _, tb := range rr.window {
				rr.pending = append(rr.pending, dumpfmt.RawByte(tb))
			}
			rr.window = rr.window[:0]
			rr.dec.Reset()
		}
	}
	return nil
}

// step runs one decoder step over the window. The destination starts
// one byte long and grows, so the step stops at the first decoded rune
// and the consumed bytes are attributable to that rune alone — a
// substitution never swallows the valid characters behind it.
func (rr *RuneReader) step(atEOF bool) bool {
	if len(rr.window) == 0 {
		return false
	}
	var dst [16]byte
	for size := 1; size <= len(dst); size++ {
		nDst, nSrc, err := rr.dec.Transform(dst[:size], rr.window, atEOF)
		if nSrc > 0 {
			rr.classify(dst[:nDst], rr.window[:nSrc])
			rr.window = append(rr.window[:0], rr.window[nSrc:]...)
			return true
		}
		if err != transform.ErrShortDst {
			return false
		}
	}
	return false
}

// classify turns one decoder step into characters. x/text decoders
// substitute U+FFFD for invalid input, so a step decoding to exactly
// U+FFFD marks its consumed bytes as raw — unless those bytes are the
// encoding's own form of U+FFFD, which is a valid character.
func (rr *RuneReader) classify(out, consumed []byte) {
	if string(out) == "�" && len(consumed) > 0 && !bytes.Equal(consumed, rr.fffd) {
		for _, b := range consumed {
			rr.pending = append(rr.pending, dumpfmt.RawByte(b))
		}
		return
	}
	for _, r := range string(out) {
		rr.pending = append(rr.pending, dumpfmt.Codepoint(r))
	}
}
