// Package chunked implements a self-describing binary container: a fixed
// signature followed by a sequence of (tag, length, payload) chunks. Readers
// that encounter a tag they do not recognize can always skip it, because the
// length is part of the framing; this is what keeps old readers compatible
// with files written by newer versions.
package chunked

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Tag is a four-byte ASCII chunk type identifier.
type Tag [4]byte

// MakeTag builds a Tag from a four-character string.
func MakeTag(s string) Tag {
	if len(s) != 4 {
		panic(fmt.Sprintf("chunk tag must be 4 bytes, got %q", s))
	}
	var t Tag
	copy(t[:], s)
	return t
}

func (t Tag) String() string {
	return string(t[:])
}

// ErrBadSignature is returned when a file does not begin with the expected
// signature bytes.
var ErrBadSignature = errors.New("bad file signature")

// maxChunkLen bounds a single chunk payload so a corrupt length field cannot
// drive an allocation of arbitrary size.
const maxChunkLen = 1 << 30

// Writer writes a signature followed by chunks to an underlying stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a chunk writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSignature writes the file signature. It must be called once, before
// any chunks.
func (w *Writer) WriteSignature(signature []byte) error {
	_, err := w.w.Write(signature)
	return err
}

// WriteChunk writes one chunk: tag, big-endian uint32 length, payload.
// A nil or empty payload produces a zero-length chunk, which is valid and
// used for marker chunks.
func (w *Writer) WriteChunk(tag Tag, payload []byte) error {
	var header [8]byte
	copy(header[:4], tag[:])
	binary.BigEndian.PutUint32(header[4:], uint32(len(payload)))
	if _, err := w.w.Write(header[:]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

// Reader reads a signature and a sequence of chunks from a stream.
type Reader struct {
	r io.Reader
}

// NewReader creates a chunk reader on top of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadSignature consumes len(expected) bytes and verifies them against the
// expected signature. A mismatch (including a file shorter than the
// signature) yields ErrBadSignature.
func (r *Reader) ReadSignature(expected []byte) error {
	got := make([]byte, len(expected))
	if _, err := io.ReadFull(r.r, got); err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	for i := range expected {
		if got[i] != expected[i] {
			return ErrBadSignature
		}
	}
	return nil
}

// ReadChunk returns the next chunk in file order. It returns io.EOF at a
// clean end of stream, and io.ErrUnexpectedEOF when the stream ends in the
// middle of a chunk. Unrecognized tags are not an error; deciding what a tag
// means is the caller's responsibility.
func (r *Reader) ReadChunk() (Tag, []byte, error) {
	var header [8]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		if err == io.EOF {
			return Tag{}, nil, io.EOF
		}
		return Tag{}, nil, io.ErrUnexpectedEOF
	}

	var tag Tag
	copy(tag[:], header[:4])
	length := binary.BigEndian.Uint32(header[4:])
	if length > maxChunkLen {
		return tag, nil, fmt.Errorf("chunk %q length %d exceeds limit", tag, length)
	}
	if length == 0 {
		return tag, nil, nil
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return tag, nil, io.ErrUnexpectedEOF
	}
	return tag, payload, nil
}
