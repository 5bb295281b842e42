// Package pipeline runs one codec pass: dump (characters in, dump
// lines out) or undump (dump lines in, bytes out).
package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"chardump/internal/config"
	"chardump/internal/source"
	"chardump/internal/transcode"
	"chardump/pkg/dumpfmt"
)

// ErrSourceFailed marks a run that finished but reported at least one
// per-source error. The per-source messages have already been printed;
// callers only need the non-zero exit.
var ErrSourceFailed = errors.New("one or more input sources failed")

// Pipeline is one prepared codec pass. Stdin and Stdout default to the
// process streams; tests replace them before Run.
type Pipeline struct {
	Stdin  io.Reader
	Stdout io.Writer
	Warn   func(name string, err error)

	cfg   config.Settings
	codec *transcode.Codec
}

// New resolves the encoding and prepares a pass. The settings are
// assumed validated, with LineWidth already resolved to a real width.
func New(cfg config.Settings) (*Pipeline, error) {
	if cfg.LineWidth < 1 {
		return nil, fmt.Errorf("line width %d is not usable; resolve it before running", cfg.LineWidth)
	}
	codec, err := transcode.Lookup(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		cfg:    cfg,
		codec:  codec,
	}, nil
}

// Run executes the pass and returns ErrSourceFailed if any source was
// reported but processing continued. Other errors are fatal conditions
// that stopped the run.
func (p *Pipeline) Run() error {
	rd := source.NewReader(p.cfg.Sources, p.codec, source.Options{
		Tolerant: p.cfg.Tolerant,
		Stdin:    p.Stdin,
		Warn:     p.Warn,
	})

	var err error
	if p.cfg.Reverse {
		err = p.undump(rd)
	} else {
		err = p.dump(rd)
	}
	if err != nil {
		return err
	}
	if rd.Failed() {
		return ErrSourceFailed
	}
	return nil
}

// dump skips StartOffset characters, then renders windows of LineWidth
// characters until input or the MaxChars budget runs out. The dump text
// itself is emitted in the configured encoding.
func (p *Pipeline) dump(rd *source.Reader) error {
	bw := bufio.NewWriter(p.Stdout)
	out := p.codec.WrapWriter(bw)

	eof := false
	var pos uint64
	for ; !eof && pos < uint64(p.cfg.StartOffset); pos++ {
		if _, err := rd.NextChar(); err != nil {
			if err != io.EOF {
				return err
			}
			eof = true
		}
	}

	budget := p.cfg.MaxChars
	window := make([]dumpfmt.Char, 0, p.cfg.LineWidth)
	lines := 0
	for !eof && budget > 0 {
		window = window[:0]
		for len(window) < p.cfg.LineWidth && budget > 0 {
			ch, err := rd.NextChar()
			if err != nil {
				if err != io.EOF {
					return err
				}
				eof = true
				break
			}
			window = append(window, ch)
			budget--
		}
		if len(window) > 0 {
			if _, err := out.Write(dumpfmt.FormatLine(window, pos, p.cfg.LineWidth)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			lines++
		}
		pos += uint64(len(window))
	}
	slog.Debug("dump complete", "characters", pos, "lines", lines)

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return bw.Flush()
}

// undump parses dump lines back into bytes while the MaxChars budget
// holds, then flushes the encoder so the output ends in the initial
// shift state. The budget is checked per line, so the final line may
// complete past it.
func (p *Pipeline) undump(rd *source.Reader) error {
	bw := bufio.NewWriter(p.Stdout)
	enc := p.codec.NewEncoder(bw)

	maxLen := p.cfg.LineWidth*8 + 20
	budget := p.cfg.MaxChars
	var written int64
	for budget > 0 {
		line, err := rd.NextLine(maxLen)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		n, err := dumpfmt.ParseLine(line, p.cfg.LineWidth, enc)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		budget -= int64(n)
		written += int64(n)
	}
	slog.Debug("undump complete", "characters", written)

	if err := enc.Flush(); err != nil {
		return fmt.Errorf("failed to finalize output: %w", err)
	}
	return bw.Flush()
}
