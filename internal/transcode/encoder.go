package transcode

import (
	"fmt"
	"io"
	"unicode/utf8"

	"chardump/pkg/dumpfmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Encoder writes characters to an output stream in the codec's
// encoding. It owns the shift state for the lifetime of one run and
// must be flushed once after the last write so the stream ends in the
// initial state.
type Encoder struct {
	w io.Writer
	t transform.Transformer // nil for native UTF-8
}

var _ dumpfmt.CharWriter = &Encoder{}

// NewEncoder returns an encoder writing to w. Codepoints outside the
// encoding's repertoire are substituted rather than failing the run.
func (c *Codec) NewEncoder(w io.Writer) *Encoder {
	e := &Encoder{w: w}
	if c.enc != nil {
		e.t = encoding.ReplaceUnsupported(c.enc.NewEncoder())
	}
	return e
}

// WriteRune encodes one codepoint. Values that are not Unicode scalar
// values (surrogates, anything past U+10FFFF) report
// dumpfmt.ErrCannotEncode.
func (e *Encoder) WriteRune(r rune) error {
	if !utf8.ValidRune(r) {
		return fmt.Errorf("%w: %#U", dumpfmt.ErrCannotEncode, r)
	}
	var src [utf8.UTFMax]byte
	n := utf8.EncodeRune(src[:], r)
	if e.t == nil {
		_, err := e.w.Write(src[:n])
		return err
	}
	return e.push(src[:n], false)
}

// WriteRawByte emits one byte verbatim. Any open shift sequence is
// closed first, so the byte lands between encoded characters and the
// state machine's invariants hold.
func (e *Encoder) WriteRawByte(b byte) error {
	if e.t != nil {
		if err := e.push(nil, true); err != nil {
			return err
		}
		e.t.Reset()
	}
	_, err := e.w.Write([]byte{b})
	return err
}

// Flush returns the encoder to the initial shift state, emitting any
// closing sequence the encoding requires. Flushing an idle encoder
// writes nothing.
func (e *Encoder) Flush() error {
	if e.t == nil {
		return nil
	}
	err := e.push(nil, true)
	e.t.Reset()
	return err
}

func (e *Encoder) push(src []byte, atEOF bool) error {
	var dst [64]byte
	for {
		nDst, nSrc, err := e.t.Transform(dst[:], src, atEOF)
		if nDst > 0 {
			if _, werr := e.w.Write(dst[:nDst]); werr != nil {
				return werr
			}
		}
		src = src[nSrc:]
		if err == transform.ErrShortDst {
			continue
		}
		return err
	}
}
