package internal

import (
	"errors"
	"io"
	"testing"
)

func TestReaderFailsShortReads(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	b := make([]byte, 2)
	if n, err := r.Read(b); n != 2 || err != nil {
		t.Fatalf("expected full read of 2 bytes, got %d, %v", n, err)
	}
	if n, err := r.Read(b); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF on short read, got %d, %v", n, err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected reader to be drained, %d bytes left", r.Len())
	}
	if _, err := r.Read(b); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF on empty reader, got %v", err)
	}
}
