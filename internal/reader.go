package internal

import (
	"bytes"
	"io"
)

// Reader reads from a byte slice and fails reads that cannot be filled completely, so a
// protocol.Reader reading from it panics on truncated input instead of returning zeroed fields.
type Reader struct {
	*bytes.Reader
}

// NewReader returns a Reader over b.
func NewReader(b []byte) *Reader {
	return &Reader{Reader: bytes.NewReader(b)}
}

// Read fills p entirely or returns io.EOF or io.ErrUnexpectedEOF.
func (r *Reader) Read(p []byte) (int, error) {
	return io.ReadFull(r.Reader, p)
}
