// Package source presents an ordered list of named inputs (files,
// gzip-compressed files, or standard input) as one logical stream,
// either of decoded characters or of text lines. Sources are opened
// lazily, closed exactly once, and a source that cannot be opened or
// read is reported and skipped rather than aborting the run.
package source

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"chardump/internal/transcode"
	"chardump/pkg/dumpfmt"

	"github.com/klauspost/compress/gzip"
)

// Options controls one Reader.
type Options struct {
	// Tolerant degrades invalid byte sequences to raw-byte characters
	// instead of failing the run.
	Tolerant bool

	// Stdin is the stream behind the name "-". Defaults to os.Stdin.
	Stdin io.Reader

	// Warn receives recoverable per-source errors. Defaults to an
	// operator-facing line on stderr.
	Warn func(name string, err error)
}

// DecodeError is an invalid byte sequence encountered with tolerance
// disabled. It is fatal for the whole run.
type DecodeError struct {
	Name string
	Byte byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid byte 0x%02X in input (use --ignore to keep raw bytes)", e.Name, e.Byte)
}

// Reader walks the source list. It hands out either characters
// (NextChar) or text lines (NextLine); one Reader serves a single run
// and only one of the two modes.
type Reader struct {
	names   []string
	codec   *transcode.Codec
	opts    Options
	cur     io.ReadCloser
	curName string
	chars   *transcode.RuneReader
	lines   *bufio.Reader
	failed  bool
}

// NewReader builds a reader over names in order. The name "-" selects
// standard input, labeled "stdin" in error messages.
func NewReader(names []string, codec *transcode.Codec, opts Options) *Reader {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Warn == nil {
		opts.Warn = func(name string, err error) {
			fmt.Fprintf(os.Stderr, "chardump: %s: %v\n", name, err)
		}
	}
	return &Reader{names: names, codec: codec, opts: opts}
}

// Failed reports whether any recoverable per-source error occurred.
func (r *Reader) Failed() bool {
	return r.failed
}

// NextChar returns the next character of the concatenated stream,
// advancing through the source list as sources drain. io.EOF means the
// list is exhausted.
func (r *Reader) NextChar() (dumpfmt.Char, error) {
	for {
		if r.cur == nil {
			if !r.advance() {
				return dumpfmt.Char{}, io.EOF
			}
		}
		if r.chars == nil {
			r.chars = r.codec.NewRuneReader(r.cur)
		}
		ch, err := r.chars.ReadChar()
		if err == nil {
			if ch.Raw && !r.opts.Tolerant {
				return dumpfmt.Char{}, &DecodeError{Name: r.curName, Byte: ch.Byte}
			}
			return ch, nil
		}
		if err != io.EOF {
			r.report(err)
		}
		r.closeCurrent()
	}
}

// NextLine returns the next text line, decoded to UTF-8, without its
// trailing newline (a stray CR before it is dropped too). Lines longer
// than maxLen runes are split. io.EOF means the list is exhausted.
func (r *Reader) NextLine(maxLen int) (string, error) {
	for {
		if r.cur == nil {
			if !r.advance() {
				return "", io.EOF
			}
		}
		if r.lines == nil {
			r.lines = bufio.NewReader(r.codec.WrapReader(r.cur))
		}
		line, err := readLine(r.lines, maxLen)
		if err == nil {
			return line, nil
		}
		if err != io.EOF {
			r.report(err)
		}
		r.closeCurrent()
	}
}

func readLine(br *bufio.Reader, maxLen int) (string, error) {
	var sb strings.Builder
	for n := 0; n < maxLen; n++ {
		c, _, err := br.ReadRune()
		if err != nil {
			if sb.Len() > 0 {
				break
			}
			return "", err
		}
		if c == '\n' {
			break
		}
		sb.WriteRune(c)
	}
	return strings.TrimSuffix(sb.String(), "\r"), nil
}

// advance opens the next usable source, skipping (and reporting) names
// that fail to open. The original recursed here; a loop avoids
// unbounded depth on a long run of unreadable files.
func (r *Reader) advance() bool {
	for len(r.names) > 0 {
		name := r.names[0]
		r.names = r.names[1:]
		if name == "-" {
			r.cur = io.NopCloser(r.opts.Stdin)
			r.curName = "stdin"
		} else {
			f, err := os.Open(name)
			if err != nil {
				r.reportFor(name, err)
				continue
			}
			r.cur = f
			r.curName = name
			if strings.HasSuffix(name, ".gz") {
				zr, err := gzip.NewReader(f)
				if err != nil {
					r.report(err)
					r.closeCurrent()
					continue
				}
				r.cur = &gzipSource{zr: zr, file: f}
			}
		}
		slog.Debug("reading source", "name", r.curName)
		r.chars = nil
		r.lines = nil
		return true
	}
	return false
}

func (r *Reader) closeCurrent() {
	if r.cur == nil {
		return
	}
	if err := r.cur.Close(); err != nil {
		r.report(err)
	}
	r.cur = nil
	r.chars = nil
	r.lines = nil
}

func (r *Reader) report(err error) {
	r.reportFor(r.curName, err)
}

func (r *Reader) reportFor(name string, err error) {
	r.failed = true
	r.opts.Warn(name, err)
}

// gzipSource closes both the decompressor and the underlying file.
type gzipSource struct {
	zr   *gzip.Reader
	file *os.File
}

func (g *gzipSource) Read(p []byte) (int, error) {
	return g.zr.Read(p)
}

func (g *gzipSource) Close() error {
	err := g.zr.Close()
	if cerr := g.file.Close(); err == nil {
		err = cerr
	}
	return err
}
