package jsonl

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/ahrav/go-slueval/internal/ports"
)

// Writer encodes one JSON value per line. Non-ASCII text and HTML
// characters are written literally.
type Writer struct {
	path   string
	buf    *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
	count  int
}

// Create creates or truncates path for writing.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, ports.NewInputError(path, "create", err)
	}
	w := NewWriter(f)
	w.path = path
	w.closer = f
	return w, nil
}

// NewWriter wraps an io.Writer.
func NewWriter(dst io.Writer) *Writer {
	buf := bufio.NewWriter(dst)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &Writer{buf: buf, enc: enc}
}

// Write encodes v followed by a newline.
func (w *Writer) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return ports.NewInputError(w.path, "write", err)
	}
	w.count++
	return nil
}

// Count returns the number of values written.
func (w *Writer) Count() int { return w.count }

// Close flushes buffered output and closes the file when the Writer was
// created by Create.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		return ports.NewInputError(w.path, "flush", err)
	}
	if w.closer == nil {
		return nil
	}
	if err := w.closer.Close(); err != nil {
		return ports.NewInputError(w.path, "close", err)
	}
	return nil
}
