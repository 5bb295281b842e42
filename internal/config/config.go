// Package config holds the resolved settings for one codec run and the
// optional TOML defaults file sitting under them.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/term"
)

// MaxLineWidth bounds characters per line; beyond this the address and
// field columns stop fitting any terminal.
const MaxLineWidth = 255

const defaultLineWidth = 8

// Settings is the configuration of one run, resolved from defaults,
// the optional config file, and flags, in that order.
type Settings struct {
	LineWidth   int // characters per dump line; 0 means size from the terminal
	StartOffset int64
	MaxChars    int64
	Tolerant    bool // degrade invalid sequences to raw bytes
	Reverse     bool // undump instead of dump
	Encoding    string
	Sources     []string
}

// Default returns the built-in settings: 8 characters per line, no
// offset, unbounded length, UTF-8, standard input.
func Default() Settings {
	return Settings{
		LineWidth: defaultLineWidth,
		MaxChars:  math.MaxInt64,
		Encoding:  "UTF-8",
		Sources:   []string{"-"},
	}
}

// File is the optional defaults file. Keys mirror the long flag names;
// flags given on the command line win over the file.
type File struct {
	Count    int    `toml:"count"`
	Ignore   bool   `toml:"ignore"`
	Encoding string `toml:"encoding"`
}

// DefaultFilePath returns the conventional config file location,
// or "" when the user config directory cannot be determined.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chardump", "config.toml")
}

// LoadFile reads and decodes a defaults file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// Apply lays the file's values over s. Zero values in the file leave s
// untouched.
func (s *Settings) Apply(f *File) {
	if f == nil {
		return
	}
	if f.Count != 0 {
		s.LineWidth = f.Count
	}
	if f.Ignore {
		s.Tolerant = true
	}
	if f.Encoding != "" {
		s.Encoding = f.Encoding
	}
}

// Validate rejects values outside the documented ranges. It runs
// before any I/O so a bad invocation never produces partial output.
func (s Settings) Validate() error {
	if s.LineWidth < 0 {
		return fmt.Errorf("invalid value %d for count", s.LineWidth)
	}
	if s.LineWidth > MaxLineWidth {
		return fmt.Errorf("value for count too large (maximum %d)", MaxLineWidth)
	}
	if s.StartOffset < 0 {
		return fmt.Errorf("invalid value %d for start", s.StartOffset)
	}
	if s.MaxChars < 0 {
		return fmt.Errorf("invalid value %d for limit", s.MaxChars)
	}
	if len(s.Sources) == 0 {
		return errors.New("no input sources")
	}
	return nil
}

// ResolveLineWidth fills in a LineWidth of 0 (auto) from the terminal
// attached to fd. A line needs 10 columns for the address, 6 per hex
// field, 5 before the glyphs, and up to 2 cells per glyph, so k
// characters want 8k+15 columns; 80 columns give the classic 8.
func (s *Settings) ResolveLineWidth(fd int) {
	if s.LineWidth != 0 {
		return
	}
	s.LineWidth = defaultLineWidth
	cols, _, err := term.GetSize(fd)
	if err != nil {
		return
	}
	w := (cols - 15) / 8
	if w < 1 {
		w = 1
	} else if w > MaxLineWidth {
		w = MaxLineWidth
	}
	s.LineWidth = w
}
