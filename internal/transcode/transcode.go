// Package transcode maps text encodings onto the dump pipeline: it
// decodes source bytes into characters one at a time (with a single-byte
// fallback for sequences that do not decode) and encodes characters back
// into bytes while tracking the encoder's shift state.
//
// UTF-8 runs on a native fast path; every other encoding goes through
// golang.org/x/text, addressed by its IANA name.
package transcode

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Codec is one resolved text encoding, applied symmetrically: dump
// decodes sources and encodes its own output text with it, undump
// decodes dump text and encodes the recovered bytes with it.
type Codec struct {
	name string
	enc  encoding.Encoding // nil for native UTF-8
}

// Lookup resolves an IANA charset name. The empty string and the UTF-8
// aliases select the native UTF-8 path.
func Lookup(name string) (*Codec, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return &Codec{name: "UTF-8"}, nil
	}
	e, err := ianaindex.IANA.Encoding(name)
	if err != nil || e == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	if e == unicode.UTF8 {
		return &Codec{name: "UTF-8"}, nil
	}
	canonical, err := ianaindex.IANA.Name(e)
	if err != nil {
		canonical = name
	}
	return &Codec{name: canonical, enc: e}, nil
}

// Name returns the canonical IANA name of the encoding.
func (c *Codec) Name() string {
	return c.name
}

// WrapReader returns a reader yielding the UTF-8 form of r's content.
// Sequences that do not decode come out as U+FFFD; the undump direction
// reads previously rendered dump text, which is assumed well-formed.
func (c *Codec) WrapReader(r io.Reader) io.Reader {
	if c.enc == nil {
		return r
	}
	return transform.NewReader(r, c.enc.NewDecoder())
}

// WrapWriter returns a writer encoding UTF-8 text written to it into
// the codec's encoding, substituting for anything outside its
// repertoire. Close flushes any trailing shift sequence.
func (c *Codec) WrapWriter(w io.Writer) io.WriteCloser {
	if c.enc == nil {
		return nopWriteCloser{w}
	}
	return transform.NewWriter(w, encoding.ReplaceUnsupported(c.enc.NewEncoder()))
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
