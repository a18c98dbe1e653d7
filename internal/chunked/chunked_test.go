package chunked

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSignature = []byte("test container\n\r\xFF\n")

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteSignature(testSignature))
	require.NoError(t, w.WriteChunk(MakeTag("MARK"), nil))
	require.NoError(t, w.WriteChunk(MakeTag("data"), []byte{0x00, 0x01, 0xFF}))
	require.NoError(t, w.WriteChunk(MakeTag("text"), []byte("a = 1.5\n")))

	r := NewReader(&buf)
	require.NoError(t, r.ReadSignature(testSignature))

	tag, payload, err := r.ReadChunk()
	require.NoError(t, err)
	assert.Equal(t, "MARK", tag.String())
	assert.Empty(t, payload)

	tag, payload, err = r.ReadChunk()
	require.NoError(t, err)
	assert.Equal(t, "data", tag.String())
	assert.Equal(t, []byte{0x00, 0x01, 0xFF}, payload)

	tag, payload, err = r.ReadChunk()
	require.NoError(t, err)
	assert.Equal(t, "text", tag.String())
	assert.Equal(t, []byte("a = 1.5\n"), payload)

	_, _, err = r.ReadChunk()
	assert.Equal(t, io.EOF, err)
}

func TestReadSignatureMismatch(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "wrong_bytes", data: []byte("not the signature!!!")},
		{name: "empty_file", data: nil},
		{name: "short_file", data: testSignature[:4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(tt.data))
			err := r.ReadSignature(testSignature)
			assert.ErrorIs(t, err, ErrBadSignature)
		})
	}
}

func TestReadChunkTruncated(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteChunk(MakeTag("data"), []byte("full payload")))

	// Drop the last byte of the payload.
	truncated := buf.Bytes()[:buf.Len()-1]
	r := NewReader(bytes.NewReader(truncated))
	_, _, err := r.ReadChunk()
	assert.Equal(t, io.ErrUnexpectedEOF, err)

	// A header cut short is also a truncation, not a clean EOF.
	r = NewReader(bytes.NewReader(buf.Bytes()[:3]))
	_, _, err = r.ReadChunk()
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestUnknownTagIsReturnedNotRejected(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteChunk(MakeTag("wxyz"), []byte("future extension")))
	require.NoError(t, w.WriteChunk(MakeTag("data"), []byte("still readable")))

	r := NewReader(&buf)
	tag, payload, err := r.ReadChunk()
	require.NoError(t, err)
	assert.Equal(t, "wxyz", tag.String())
	assert.Equal(t, []byte("future extension"), payload)

	tag, payload, err = r.ReadChunk()
	require.NoError(t, err)
	assert.Equal(t, "data", tag.String())
	assert.Equal(t, []byte("still readable"), payload)
}

func TestOversizedLengthRejected(t *testing.T) {
	// Hand-build a header claiming a payload far larger than the limit.
	data := []byte{'h', 'u', 'g', 'e', 0xFF, 0xFF, 0xFF, 0xFF}
	r := NewReader(bytes.NewReader(data))
	_, _, err := r.ReadChunk()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}
