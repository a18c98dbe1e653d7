package animation

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrelab/dejong/internal/chunked"
	"github.com/fyrelab/dejong/internal/spline"
)

func testThumbnail(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 17), G: uint8(y * 31), B: 128, A: 255})
		}
	}
	return img
}

func TestAppendAndTotalLength(t *testing.T) {
	a := New()
	assert.Equal(t, 0.0, a.TotalLength())

	r0 := a.AppendKeyframe([]byte("a = 1\n"), nil)
	r1 := a.AppendKeyframe([]byte("a = 2\n"), nil)
	assert.Equal(t, 10.0, a.TotalLength(), "two default keyframes")

	a.Store().SetDuration(r0, 2.5)
	a.Store().SetDuration(r1, 0.5)
	assert.Equal(t, 3.0, a.TotalLength())

	assert.Equal(t, 0.0, a.StartTime(r0))
	assert.Equal(t, 2.5, a.StartTime(r1))

	a.Clear()
	assert.Equal(t, 0.0, a.TotalLength())
	assert.Equal(t, 0, a.Store().Len())
}

func TestDefaultsOnAppend(t *testing.T) {
	a := New()
	ref := a.Store().AppendDefault()

	assert.Equal(t, DefaultDuration, a.Store().Duration(ref))
	require.NotNil(t, a.Store().Spline(ref))
	assert.Nil(t, a.Store().Params(ref))
	assert.Nil(t, a.Store().Thumbnail(ref))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, count := range []int{0, 1, 2, 7} {
		t.Run(fmt.Sprintf("keyframes_%d", count), func(t *testing.T) {
			a := New()
			for i := 0; i < count; i++ {
				params := make([]byte, rng.Intn(64)+1)
				rng.Read(params)

				var thumb image.Image
				if i%2 == 0 {
					thumb = testThumbnail(8, 8)
				}
				ref := a.AppendKeyframe(params, thumb)
				a.Store().SetDuration(ref, rng.Float64()*10)
				a.Store().SetSpline(ref, spline.New(
					spline.Point{X: 0, Y: 0},
					spline.Point{X: rng.Float64(), Y: rng.Float64()},
					spline.Point{X: 1, Y: 1},
				))
			}

			var buf bytes.Buffer
			require.NoError(t, a.Save(&buf))

			loaded := New()
			require.NoError(t, loaded.Load(&buf))

			require.Equal(t, a.Store().Len(), loaded.Store().Len())
			for ref := a.Store().First(); ref != NoRef; ref = a.Store().Next(ref) {
				assert.Equal(t, a.Store().Params(ref), loaded.Store().Params(ref), "params bytes must round-trip exactly")
				assert.Equal(t, a.Store().Duration(ref), loaded.Store().Duration(ref), "durations must round-trip exactly")
				assert.Equal(t, a.Store().Spline(ref).Points(), loaded.Store().Spline(ref).Points(), "splines must round-trip exactly")

				if a.Store().Thumbnail(ref) != nil {
					require.NotNil(t, loaded.Store().Thumbnail(ref), "thumbnail must be decodable after a round trip")
					assert.Equal(t, a.Store().Thumbnail(ref).Bounds(), loaded.Store().Thumbnail(ref).Bounds())
				}
			}
		})
	}
}

func TestLoadBadSignatureLeavesStoreIntact(t *testing.T) {
	a := New()
	a.AppendKeyframe([]byte("keep me"), nil)

	err := a.Load(bytes.NewReader([]byte("this is not an animation file at all")))
	require.ErrorIs(t, err, chunked.ErrBadSignature)
	assert.Equal(t, 1, a.Store().Len(), "a failed signature check must not clear the store")
	assert.Equal(t, []byte("keep me"), a.Store().Params(a.Store().First()))
}

func TestLoadSkipsUnknownChunks(t *testing.T) {
	var buf bytes.Buffer
	w := chunked.NewWriter(&buf)
	require.NoError(t, w.WriteSignature([]byte(Signature)))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("KfrS"), nil))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("djXX"), []byte("from a newer version")))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("djPR"), []byte("a = 1.5\n")))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("KfrE"), nil))

	a := New()
	require.NoError(t, a.Load(&buf))

	require.Equal(t, 1, a.Store().Len())
	assert.Equal(t, []byte("a = 1.5\n"), a.Store().Params(a.Store().First()),
		"chunks after an unknown tag must still be applied")
}

func TestLoadMalformedDurationKeepsDefault(t *testing.T) {
	var buf bytes.Buffer
	w := chunked.NewWriter(&buf)
	require.NoError(t, w.WriteSignature([]byte(Signature)))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("KfrS"), nil))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("dura"), []byte{1, 2, 3}))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("KfrE"), nil))

	a := New()
	require.NoError(t, a.Load(&buf))

	require.Equal(t, 1, a.Store().Len())
	assert.Equal(t, DefaultDuration, a.Store().Duration(a.Store().First()))
}

func TestLoadZeroLengthDurationKeepsDefault(t *testing.T) {
	var buf bytes.Buffer
	w := chunked.NewWriter(&buf)
	require.NoError(t, w.WriteSignature([]byte(Signature)))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("KfrS"), nil))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("dura"), nil))

	a := New()
	require.NoError(t, a.Load(&buf))
	assert.Equal(t, DefaultDuration, a.Store().Duration(a.Store().First()))
}

func TestLoadAttributeOutsideKeyframeBlockIsIgnored(t *testing.T) {
	var buf bytes.Buffer
	w := chunked.NewWriter(&buf)
	require.NoError(t, w.WriteSignature([]byte(Signature)))
	// Attribute before any keyframe-start marker.
	require.NoError(t, w.WriteChunk(chunked.MakeTag("djPR"), []byte("orphan")))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("KfrS"), nil))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("djPR"), []byte("in block")))
	require.NoError(t, w.WriteChunk(chunked.MakeTag("KfrE"), nil))
	// Attribute after keyframe-end is equally outside a block.
	require.NoError(t, w.WriteChunk(chunked.MakeTag("djPR"), []byte("straggler")))

	a := New()
	require.NoError(t, a.Load(&buf))

	require.Equal(t, 1, a.Store().Len())
	assert.Equal(t, []byte("in block"), a.Store().Params(a.Store().First()))
}

func TestLoadReplacesExistingContents(t *testing.T) {
	original := New()
	ref := original.AppendKeyframe([]byte("new contents"), nil)
	original.Store().SetDuration(ref, 1.25)

	var buf bytes.Buffer
	require.NoError(t, original.Save(&buf))

	a := New()
	a.AppendKeyframe([]byte("stale"), nil)
	a.AppendKeyframe([]byte("stale too"), nil)
	require.NoError(t, a.Load(&buf))

	require.Equal(t, 1, a.Store().Len())
	assert.Equal(t, []byte("new contents"), a.Store().Params(a.Store().First()))
	assert.Equal(t, 1.25, a.Store().Duration(a.Store().First()))
}

func TestLoadTruncatedFileFails(t *testing.T) {
	a := New()
	a.AppendKeyframe([]byte("payload"), nil)

	var buf bytes.Buffer
	require.NoError(t, a.Save(&buf))

	cut := buf.Bytes()[:buf.Len()-2]
	err := New().Load(bytes.NewReader(cut))
	require.Error(t, err)
}

func TestSaveFileLoadFile(t *testing.T) {
	a := New()
	ref := a.AppendKeyframe([]byte("a = 0.25\n"), testThumbnail(4, 4))
	a.Store().SetDuration(ref, 2.0)

	path := t.TempDir() + "/test.dja"
	require.NoError(t, a.SaveFile(path))

	loaded := New()
	require.NoError(t, loaded.LoadFile(path))
	require.Equal(t, 1, loaded.Store().Len())
	assert.Equal(t, 2.0, loaded.Store().Duration(loaded.Store().First()))
	assert.NotNil(t, loaded.Store().Thumbnail(loaded.Store().First()))
}

func TestLoadFileMissing(t *testing.T) {
	err := New().LoadFile(t.TempDir() + "/absent.dja")
	require.Error(t, err)
}
