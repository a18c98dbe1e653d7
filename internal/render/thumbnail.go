package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// EncodePNG encodes an image as PNG bytes, the form thumbnails take inside
// animation files.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePNG decodes PNG bytes back into an image.
func DecodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding thumbnail: %w", err)
	}
	return img, nil
}

// thumbnailIterations bounds the work spent on a preview; thumbnails trade
// fidelity for speed.
const thumbnailIterations = 400000

// MakeThumbnail renders a small preview of the parameter set. The attractor
// is computed at twice the requested size and downsampled, which smooths the
// sparse histogram a thumbnail-sized render produces.
func MakeThumbnail(p Params, width, height int) image.Image {
	p.Width = width * 2
	p.Height = height * 2
	p.Oversample = 1
	p.TargetDensity = 200

	src := Render(p, thumbnailIterations)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
