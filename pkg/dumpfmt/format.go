package dumpfmt

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Unicode control pictures start; U+2400 pictures U+0000 and so on.
const controlPictures = 0x2400

// FormatLine renders up to width characters as one dump line starting
// at logical position pos. Lines holding fewer than width characters
// (the final line of a run) are padded so the glyph section always
// starts at the same column.
func FormatLine(chars []Char, pos uint64, width int) []byte {
	buf := fmt.Appendf(nil, "%08X: ", pos)
	for _, c := range chars {
		switch {
		case c.Raw:
			buf = fmt.Appendf(buf, "   *%02X", c.Byte)
		case c.Rune < 0x100:
			buf = fmt.Appendf(buf, "    %02X", c.Rune)
		default:
			buf = fmt.Appendf(buf, "%6X", c.Rune)
		}
	}
	buf = fmt.Appendf(buf, "%*s", 6*(width-len(chars))+5, "")
	for _, c := range chars {
		buf = appendGlyph(buf, c)
	}
	return append(buf, '\n')
}

// appendGlyph renders one character as one or two display cells. Raw
// bytes use their numeric value as a codepoint here; the hex field
// already carries the distinction.
func appendGlyph(buf []byte, c Char) []byte {
	r := c.Rune
	if c.Raw {
		r = rune(c.Byte)
	}
	switch runewidth.RuneWidth(r) {
	case 2:
		return append(buf, string(r)...)
	case 1:
		return append(append(buf, string(r)...), ' ')
	default:
		// combining marks and non-printables get a placeholder
		if r < 0x20 {
			r = controlPictures + r
		} else {
			r = '�'
		}
		return append(append(buf, string(r)...), ' ')
	}
}
