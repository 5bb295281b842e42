package dumpfmt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func codepoints(s string) []Char {
	var chars []Char
	for _, r := range s {
		chars = append(chars, Codepoint(r))
	}
	return chars
}

func TestFormatLine_AsciiFullLine(t *testing.T) {
	line := FormatLine(codepoints("Hi!"), 0, 8)

	expected := "00000000:     48    69    21" +
		strings.Repeat(" ", 6*5+5) +
		"H i ! \n"
	require.Equal(t, expected, string(line))
}

func TestFormatLine_GlyphColumnIsFixed(t *testing.T) {
	// the glyph section must start at the same column however many
	// characters the line holds
	full := FormatLine(codepoints("abcdefgh"), 0, 8)
	short := FormatLine(codepoints("a"), 8, 8)

	require.Equal(t, strings.Index(string(full), "a "), strings.Index(string(short), "a "))
}

func TestFormatLine_Address(t *testing.T) {
	line := FormatLine(codepoints("x"), 0xDEAD, 8)
	require.True(t, strings.HasPrefix(string(line), "0000DEAD: "))
}

func TestFormatLine_RawByteField(t *testing.T) {
	line := FormatLine([]Char{RawByte(0xFF)}, 0, 8)
	require.Contains(t, string(line), "   *FF")
}

func TestFormatLine_RawByteGlyphUsesByteValue(t *testing.T) {
	// 0xFF pictured as U+00FF in the glyph section; the field keeps the
	// raw marker
	line := FormatLine([]Char{RawByte(0xFF)}, 0, 1)
	require.Equal(t, "00000000:    *FF     ÿ \n", string(line))
}

func TestFormatLine_WideCodepointHasNoTrailingSpace(t *testing.T) {
	// U+30C6 KATAKANA TE occupies two cells by itself
	line := FormatLine(codepoints("テ"), 0, 1)
	require.Equal(t, "00000000:   30C6     テ\n", string(line))
}

func TestFormatLine_ControlPicture(t *testing.T) {
	// a tab renders as U+2409, not as a literal tab
	line := FormatLine(codepoints("\t"), 0, 1)
	require.Equal(t, "00000000:     09     ␉ \n", string(line))
}

func TestFormatLine_CombiningMarkBecomesReplacement(t *testing.T) {
	// U+0301 COMBINING ACUTE ACCENT has no width of its own
	line := FormatLine(codepoints("́"), 0, 1)
	require.Equal(t, "00000000:    301     � \n", string(line))
}

func TestFormatLine_CodepointAboveFFFF(t *testing.T) {
	line := FormatLine(codepoints("\U0001F600"), 0, 2)
	require.Equal(t, "00000000:  1F600"+strings.Repeat(" ", 6+5)+"\U0001F600\n", string(line))
}
