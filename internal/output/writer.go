// Package output materializes search results into bounded JSON responses
// and writes them to the terminal.
package output

import (
	"fmt"
	"io"

	"github.com/Aman-CERP/jsonai/internal/record"
)

// Writer prints JSON values, one per line.
type Writer struct {
	out    io.Writer
	pretty bool
}

// New creates a Writer. pretty selects two-space indentation.
func New(out io.Writer, pretty bool) *Writer {
	return &Writer{out: out, pretty: pretty}
}

// Pretty reports whether the writer indents.
func (w *Writer) Pretty() bool {
	return w.pretty
}

// JSON serializes v and prints it followed by a newline.
func (w *Writer) JSON(v any) error {
	data, err := Encode(v, w.pretty)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w.out, "%s\n", data)
	return err
}

// Encode serializes v compactly or indented.
func Encode(v any, pretty bool) ([]byte, error) {
	if pretty {
		return record.MarshalIndent(v)
	}
	return record.Marshal(v)
}
