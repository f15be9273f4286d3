// Package jsonl reads and writes newline-delimited JSON files.
//
// Input bytes that are not valid UTF-8 are replaced with U+FFFD rather than
// rejected, so a single corrupt byte never fails a whole file.
package jsonl

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/ahrav/go-slueval/internal/ports"
)

// DefaultMaxLineBytes bounds a single line. Annotated utterances are small;
// the limit only protects against runaway input.
const DefaultMaxLineBytes = 16 * 1024 * 1024

// Line is one non-blank input line.
type Line struct {
	// Number is the 1-based physical line number.
	Number int

	// Data is the raw line without its terminator. It is only valid until
	// the next call to Next.
	Data []byte
}

// Reader yields the non-blank lines of a JSONL stream in order.
type Reader struct {
	path    string
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
	cur     Line
	err     error
}

// Open opens path for reading. A missing file is reported as an
// *ports.InputError wrapping both ports.ErrInputNotFound and the
// filesystem error.
func Open(path string, maxLineBytes int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = errors.Join(ports.ErrInputNotFound, err)
		}
		return nil, ports.NewInputError(path, "open", err)
	}
	r := NewReader(f, maxLineBytes)
	r.path = path
	r.closer = f
	return r, nil
}

// NewReader wraps an io.Reader. maxLineBytes <= 0 selects
// DefaultMaxLineBytes.
func NewReader(src io.Reader, maxLineBytes int) *Reader {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	sc := bufio.NewScanner(transform.NewReader(src, runes.ReplaceIllFormed()))
	sc.Buffer(make([]byte, 0, min(64*1024, maxLineBytes)), maxLineBytes)
	return &Reader{scanner: sc}
}

// Next advances to the next non-blank line. It returns false at the end of
// input or on a read error; check Err afterwards.
func (r *Reader) Next() bool {
	for r.scanner.Scan() {
		r.line++
		data := bytes.TrimSpace(r.scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		r.cur = Line{Number: r.line, Data: data}
		return true
	}
	if err := r.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			err = errors.Join(ports.ErrLineTooLong, err)
		}
		r.err = ports.NewInputError(r.path, "read", err)
	}
	return false
}

// Line returns the current line.
func (r *Reader) Line() Line { return r.cur }

// Err returns the first read error, if any.
func (r *Reader) Err() error { return r.err }

// Close releases the underlying file when the Reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	if err := r.closer.Close(); err != nil {
		return ports.NewInputError(r.path, "close", err)
	}
	return nil
}
