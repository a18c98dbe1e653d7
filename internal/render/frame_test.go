package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallParams() Params {
	p := Default()
	p.Width = 32
	p.Height = 32
	p.TargetDensity = 50
	return p
}

func TestFrameAccumulatesDensity(t *testing.T) {
	f := NewFrame(smallParams())
	assert.Equal(t, 0, f.Density())

	f.Iterate(50000)
	assert.Greater(t, f.Density(), 0, "the attractor must land inside the viewport")
	assert.Equal(t, 50000.0, f.Iterations())

	before := f.Density()
	f.Iterate(50000)
	assert.GreaterOrEqual(t, f.Density(), before, "density only grows")
}

func TestFrameImageDimensions(t *testing.T) {
	p := smallParams()
	p.Oversample = 2
	f := NewFrame(p)
	f.Iterate(10000)

	img := f.Image()
	assert.Equal(t, 32, img.Bounds().Dx(), "image is at output resolution, not oversampled")
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestEmptyFrameIsBackground(t *testing.T) {
	p := smallParams()
	p.BgColor = "#FFFFFF"
	img := NewFrame(p).Image()

	c := img.RGBAAt(16, 16)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, c)
}

func TestRenderedFrameDarkensPixels(t *testing.T) {
	img := Render(smallParams(), 500000)

	// Black-on-white defaults: at least one pixel must have moved away from
	// the background.
	darkened := false
	for y := 0; y < 32 && !darkened; y++ {
		for x := 0; x < 32; x++ {
			if c := img.RGBAAt(x, y); c.R < 250 {
				darkened = true
				break
			}
		}
	}
	assert.True(t, darkened)
}

func TestMakeThumbnail(t *testing.T) {
	thumb := MakeThumbnail(Default(), 16, 16)
	require.NotNil(t, thumb)
	assert.Equal(t, 16, thumb.Bounds().Dx())
	assert.Equal(t, 16, thumb.Bounds().Dy())
}

func TestPNGRoundTrip(t *testing.T) {
	thumb := MakeThumbnail(Default(), 8, 8)
	data, err := EncodePNG(thumb)
	require.NoError(t, err)

	decoded, err := DecodePNG(data)
	require.NoError(t, err)
	assert.Equal(t, thumb.Bounds(), decoded.Bounds())
}

func TestDecodePNGRejectsGarbage(t *testing.T) {
	_, err := DecodePNG([]byte("definitely not a png"))
	require.Error(t, err)
}
