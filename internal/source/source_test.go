package source

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"chardump/internal/transcode"
	"chardump/pkg/dumpfmt"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func utf8Codec(t *testing.T) *transcode.Codec {
	t.Helper()
	c, err := transcode.Lookup("")
	require.NoError(t, err)
	return c
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func drainChars(t *testing.T, r *Reader) []dumpfmt.Char {
	t.Helper()
	var chars []dumpfmt.Char
	for {
		ch, err := r.NextChar()
		if err == io.EOF {
			return chars
		}
		require.NoError(t, err)
		chars = append(chars, ch)
	}
}

func TestReader_ConcatenatesSources(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("ab"))
	b := writeFile(t, dir, "b.txt", []byte("cd"))

	r := NewReader([]string{a, b}, utf8Codec(t), Options{})
	chars := drainChars(t, r)

	var got []rune
	for _, c := range chars {
		got = append(got, c.Rune)
	}
	require.Equal(t, "abcd", string(got))
	require.False(t, r.Failed())
}

func TestReader_SkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("a"))
	empty := writeFile(t, dir, "empty.txt", nil)
	b := writeFile(t, dir, "b.txt", []byte("b"))

	r := NewReader([]string{empty, a, empty, b, empty}, utf8Codec(t), Options{})
	chars := drainChars(t, r)

	require.Len(t, chars, 2)
	require.Equal(t, 'a', chars[0].Rune)
	require.Equal(t, 'b', chars[1].Rune)
}

func TestReader_MissingFileIsReportedAndSkipped(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.txt", []byte("b"))

	var warned []string
	r := NewReader([]string{filepath.Join(dir, "missing"), b}, utf8Codec(t), Options{
		Warn: func(name string, err error) {
			warned = append(warned, name)
			require.Error(t, err)
		},
	})
	chars := drainChars(t, r)

	require.Len(t, chars, 1)
	require.Equal(t, 'b', chars[0].Rune)
	require.Equal(t, []string{filepath.Join(dir, "missing")}, warned)
	require.True(t, r.Failed())
}

func TestReader_StdinDash(t *testing.T) {
	r := NewReader([]string{"-"}, utf8Codec(t), Options{
		Stdin: bytes.NewReader([]byte("hi")),
	})
	chars := drainChars(t, r)
	require.Len(t, chars, 2)
}

func TestReader_RawByteTolerated(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "bad.bin", []byte{'a', 0xFF, 'b'})

	r := NewReader([]string{f}, utf8Codec(t), Options{Tolerant: true})
	chars := drainChars(t, r)

	require.Equal(t, []dumpfmt.Char{
		dumpfmt.Codepoint('a'),
		dumpfmt.RawByte(0xFF),
		dumpfmt.Codepoint('b'),
	}, chars)
}

func TestReader_RawByteFatalWithoutTolerance(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "bad.bin", []byte{0xFF})

	r := NewReader([]string{f}, utf8Codec(t), Options{})
	_, err := r.NextChar()

	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, f, derr.Name)
	require.Equal(t, byte(0xFF), derr.Byte)
}

func TestReader_GzipSource(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("zipped"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	f := writeFile(t, dir, "data.txt.gz", buf.Bytes())

	r := NewReader([]string{f}, utf8Codec(t), Options{})
	chars := drainChars(t, r)

	var got []rune
	for _, c := range chars {
		got = append(got, c.Rune)
	}
	require.Equal(t, "zipped", string(got))
}

func TestReader_NextLine(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("one\ntwo\r\n"))
	b := writeFile(t, dir, "b.txt", []byte("three"))

	r := NewReader([]string{a, b}, utf8Codec(t), Options{})

	line, err := r.NextLine(80)
	require.NoError(t, err)
	require.Equal(t, "one", line)

	line, err = r.NextLine(80)
	require.NoError(t, err)
	require.Equal(t, "two", line)

	line, err = r.NextLine(80)
	require.NoError(t, err)
	require.Equal(t, "three", line)

	_, err = r.NextLine(80)
	require.Equal(t, io.EOF, err)
}

func TestReader_NextLineSplitsOverlongLines(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "long.txt", []byte("abcdefgh\n"))

	r := NewReader([]string{f}, utf8Codec(t), Options{})

	line, err := r.NextLine(4)
	require.NoError(t, err)
	require.Equal(t, "abcd", line)

	line, err = r.NextLine(4)
	require.NoError(t, err)
	require.Equal(t, "efgh", line)
}
