package render

import (
	"image"
	"image/color"
	"math"
	"math/rand"
)

// Frame accumulates de Jong attractor samples into a density histogram and
// tone-maps the result into an image. The histogram is computed at
// Oversample times the output resolution and downsampled when the image is
// produced.
type Frame struct {
	params Params
	width  int
	height int
	counts []uint32
	peak   uint32
	total  float64

	x, y float64
	rng  *rand.Rand
}

// NewFrame creates a histogram for the given parameters. Width, height and
// oversample fall back to the defaults when unset.
func NewFrame(p Params) *Frame {
	if p.Width <= 0 {
		p.Width = Default().Width
	}
	if p.Height <= 0 {
		p.Height = Default().Height
	}
	if p.Oversample < 1 {
		p.Oversample = 1
	}
	if p.Gamma <= 0 {
		p.Gamma = 1
	}

	return &Frame{
		params: p,
		width:  p.Width * p.Oversample,
		height: p.Height * p.Oversample,
		counts: make([]uint32, p.Width*p.Oversample*p.Height*p.Oversample),
		rng:    rand.New(rand.NewSource(1)),
	}
}

// Iterate runs n steps of the de Jong map, accumulating histogram counts.
// The map is x' = sin(a*y) - cos(b*x), y' = sin(c*x) - cos(d*y); each point
// is pushed through the view transform (rotation, zoom, offsets, blur)
// before being binned.
func (f *Frame) Iterate(n int) {
	p := f.params
	sinR, cosR := math.Sincos(p.Rotation)
	// The attractor lives in roughly [-2,2] on both axes.
	scale := float64(min(f.width, f.height)) / 5 * p.Zoom

	x, y := f.x, f.y
	for i := 0; i < n; i++ {
		x, y = math.Sin(p.A*y)-math.Cos(p.B*x), math.Sin(p.C*x)-math.Cos(p.D*y)

		px := x*cosR - y*sinR + p.XOffset
		py := x*sinR + y*cosR + p.YOffset

		if p.BlurRadius > 0 && f.rng.Float64() < p.BlurRatio {
			px += (f.rng.Float64() - 0.5) * p.BlurRadius
			py += (f.rng.Float64() - 0.5) * p.BlurRadius
		}

		ix := int(px*scale) + f.width/2
		iy := int(py*scale) + f.height/2

		if p.Tileable {
			ix = ((ix % f.width) + f.width) % f.width
			iy = ((iy % f.height) + f.height) % f.height
		} else if ix < 0 || ix >= f.width || iy < 0 || iy >= f.height {
			continue
		}

		idx := iy*f.width + ix
		f.counts[idx]++
		if f.counts[idx] > f.peak {
			f.peak = f.counts[idx]
		}
	}
	f.x, f.y = x, y
	f.total += float64(n)
}

// Density returns the peak histogram bucket count. Rendering loops run
// Iterate until this crosses the target density.
func (f *Frame) Density() int {
	return int(f.peak)
}

// Iterations returns the number of map steps run so far.
func (f *Frame) Iterations() float64 {
	return f.total
}

// Image tone-maps the histogram into an RGBA image at the output
// resolution, averaging oversampled buckets. Luminance follows
// 1-exp(-exposure*count) with gamma correction, blending the foreground
// color over the background.
func (f *Frame) Image() *image.RGBA {
	p := f.params
	out := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))

	fr, fg, fb, err := parseHexColor(p.FgColor)
	if err != nil {
		fr, fg, fb = 0, 0, 0
	}
	br, bg, bb, err := parseHexColor(p.BgColor)
	if err != nil {
		br, bg, bb = 255, 255, 255
	}
	fgScale := float64(p.FgAlpha) / 0xFFFF
	bgScale := float64(p.BgAlpha) / 0xFFFF

	os := p.Oversample
	samples := float64(os * os)

	for oy := 0; oy < p.Height; oy++ {
		for ox := 0; ox < p.Width; ox++ {
			var sum float64
			for sy := 0; sy < os; sy++ {
				row := (oy*os + sy) * f.width
				for sx := 0; sx < os; sx++ {
					sum += float64(f.counts[row+ox*os+sx])
				}
			}
			mean := sum / samples

			v := 1 - math.Exp(-p.Exposure*mean)
			if p.Clamped && v > 1 {
				v = 1
			}
			v = math.Pow(v, 1/p.Gamma)

			a := v * fgScale
			out.SetRGBA(ox, oy, color.RGBA{
				R: blendChannel(br, fr, a, bgScale),
				G: blendChannel(bg, fg, a, bgScale),
				B: blendChannel(bb, fb, a, bgScale),
				A: 255,
			})
		}
	}
	return out
}

// blendChannel composites the foreground channel over the background at
// opacity a.
func blendChannel(bg, fg int, a, bgScale float64) uint8 {
	v := float64(bg)*bgScale*(1-a) + float64(fg)*a
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// Render runs the frame to the target density (bounded by maxIterations)
// and returns the image. It is the convenience path used for animation
// frames and thumbnails; interactive-quality rendering drives Iterate
// directly.
func Render(p Params, maxIterations int) *image.RGBA {
	f := NewFrame(p)
	target := p.TargetDensity
	if target <= 0 {
		target = Default().TargetDensity
	}
	const batch = 100000
	for f.Density() < target && int(f.Iterations()) < maxIterations {
		f.Iterate(batch)
	}
	return f.Image()
}
