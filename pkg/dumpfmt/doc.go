// Package dumpfmt defines the dump line format: a line-oriented textual
// representation of a character stream, one hex field plus one glyph per
// character.
//
// # Dump Line Format
//
// # Overview
//
// Goals:
//
//  1. Show every character of the input as its Unicode codepoint
//  2. Carry bytes that never decoded, verbatim and clearly marked
//  3. Stay reversible: parsing a dump reproduces the input byte-for-byte
//  4. Keep the glyph section at a fixed column regardless of line fill
//
// # Format Specification
//
// Each line follows this format:
//
//	address: field_1...field_k padding glyph_1...glyph_k
//
// # Fields
//
//   - address: logical position of the first character on the line, as
//     8 hex digits, followed by ": ".
//   - field_i: exactly 6 columns, one of three shapes:
//     "    %02X" for codepoints below 0x100,
//     "   *%02X" for raw bytes,
//     "%6X" (right-justified hex) for all other codepoints.
//   - padding: 6*(width-k)+5 spaces, where width is the configured
//     characters-per-line and k the number of characters present.
//   - glyph_i: the character itself when it occupies one or two display
//     cells; a control picture (U+2400+c) for codepoints below 0x20;
//     U+FFFD otherwise. One trailing space after every glyph except
//     double-width ones, which fill both cells themselves.
//
// # Examples
//
// The bytes "Hi!" with width 8:
//
//	00000000:     48    69    21                                   H i !
//
// A raw byte 0xFF between two codepoints:
//
//	00000010:     61   *FF  30C6                                   a ÿ テ
//
// # Parsing
//
// Fields are scanned as anchored 6-character windows after the address;
// the first window matching neither field shape ends the line. Lines
// with no separator after the address run parse as zero characters, so
// blank or truncated trailing lines are tolerated.
package dumpfmt
