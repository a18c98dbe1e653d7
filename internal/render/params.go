// Package render holds the de Jong attractor rendering model: the parameter
// set, its text and JSON codecs, linear interpolation between parameter
// snapshots, and the histogram renderer that turns a snapshot into pixels.
// The animation engine treats the parameter blob as opaque bytes; this
// package is what gives those bytes meaning.
package render

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// Params is a complete snapshot of computation and rendering settings.
type Params struct {
	// Attractor coefficients and view transform.
	A          float64 `json:"a"`
	B          float64 `json:"b"`
	C          float64 `json:"c"`
	D          float64 `json:"d"`
	Zoom       float64 `json:"zoom"`
	XOffset    float64 `json:"xoffset"`
	YOffset    float64 `json:"yoffset"`
	Rotation   float64 `json:"rotation"`
	BlurRadius float64 `json:"blur_radius"`
	BlurRatio  float64 `json:"blur_ratio"`
	Tileable   bool    `json:"tileable"`

	// Tone mapping and colors.
	Exposure float64 `json:"exposure"`
	Gamma    float64 `json:"gamma"`
	FgColor  string  `json:"fgcolor"`
	BgColor  string  `json:"bgcolor"`
	FgAlpha  int     `json:"fgalpha"`
	BgAlpha  int     `json:"bgalpha"`
	Clamped  bool    `json:"clamped"`

	// Output quality. These are CLI-level settings and are not part of the
	// serialized parameter text, which matches the original file format.
	Width         int `json:"width,omitempty"`
	Height        int `json:"height,omitempty"`
	Oversample    int `json:"oversample,omitempty"`
	TargetDensity int `json:"target_density,omitempty"`
}

// Default returns the parameter set a fresh session starts from.
func Default() Params {
	return Params{
		A:          1.41914,
		B:          -2.28413,
		C:          2.42754,
		D:          -2.17719,
		Zoom:       1,
		BlurRatio:  1,
		Exposure:   0.05,
		Gamma:      1,
		FgColor:    "#000000",
		BgColor:    "#FFFFFF",
		FgAlpha:    0xFFFF,
		BgAlpha:    0xFFFF,
		Width:      600,
		Height:     600,
		Oversample: 1,

		TargetDensity: 10000,
	}
}

// Marshal renders the parameters in the human and machine readable
// "key = value" text form used as the djPR payload in animation files.
func (p Params) Marshal() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "a = %f\n", p.A)
	fmt.Fprintf(&buf, "b = %f\n", p.B)
	fmt.Fprintf(&buf, "c = %f\n", p.C)
	fmt.Fprintf(&buf, "d = %f\n", p.D)
	fmt.Fprintf(&buf, "zoom = %f\n", p.Zoom)
	fmt.Fprintf(&buf, "xoffset = %f\n", p.XOffset)
	fmt.Fprintf(&buf, "yoffset = %f\n", p.YOffset)
	fmt.Fprintf(&buf, "rotation = %f\n", p.Rotation)
	fmt.Fprintf(&buf, "blur_radius = %f\n", p.BlurRadius)
	fmt.Fprintf(&buf, "blur_ratio = %f\n", p.BlurRatio)
	fmt.Fprintf(&buf, "exposure = %f\n", p.Exposure)
	fmt.Fprintf(&buf, "gamma = %f\n", p.Gamma)
	fmt.Fprintf(&buf, "bgcolor = %s\n", p.BgColor)
	fmt.Fprintf(&buf, "fgcolor = %s\n", p.FgColor)
	fmt.Fprintf(&buf, "clamped = %d\n", boolToInt(p.Clamped))
	fmt.Fprintf(&buf, "tileable = %d\n", boolToInt(p.Tileable))
	fmt.Fprintf(&buf, "bgalpha = %d\n", p.BgAlpha)
	fmt.Fprintf(&buf, "fgalpha = %d\n", p.FgAlpha)
	return buf.Bytes()
}

// Parse reads "key = value" text, applying recognized keys on top of the
// defaults. Unrecognized keys are skipped so newer writers stay readable.
func Parse(data []byte) Params {
	p := Default()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		// Unknown keys are skipped, not errors.
		_ = p.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return p
}

// MarshalJSON-style codec for tooling output.
func (p Params) JSON() ([]byte, error) {
	return sonic.MarshalIndent(p, "", "  ")
}

// ParseJSON decodes a JSON parameter snapshot.
func ParseJSON(data []byte) (Params, error) {
	p := Default()
	if err := sonic.Unmarshal(data, &p); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Set assigns a single parameter in key-value form, using the same keys as
// Marshal plus the quality settings exposed on the command line. It returns
// an error for an unrecognized key or an unparsable value.
func (p *Params) Set(key, value string) error {
	switch key {
	case "a":
		return setFloat(&p.A, value)
	case "b":
		return setFloat(&p.B, value)
	case "c":
		return setFloat(&p.C, value)
	case "d":
		return setFloat(&p.D, value)
	case "zoom":
		return setFloat(&p.Zoom, value)
	case "xoffset":
		return setFloat(&p.XOffset, value)
	case "yoffset":
		return setFloat(&p.YOffset, value)
	case "rotation":
		return setFloat(&p.Rotation, value)
	case "blur_radius":
		return setFloat(&p.BlurRadius, value)
	case "blur_ratio":
		return setFloat(&p.BlurRatio, value)
	case "exposure":
		return setFloat(&p.Exposure, value)
	case "gamma":
		return setFloat(&p.Gamma, value)
	case "fgcolor":
		p.FgColor = value
		return nil
	case "bgcolor":
		p.BgColor = value
		return nil
	case "clamped":
		return setBool(&p.Clamped, value)
	case "tileable":
		return setBool(&p.Tileable, value)
	case "fgalpha":
		return setInt(&p.FgAlpha, value)
	case "bgalpha":
		return setInt(&p.BgAlpha, value)
	case "size":
		return p.setSize(value)
	case "oversample":
		if err := setInt(&p.Oversample, value); err != nil {
			return err
		}
		if p.Oversample < 1 {
			p.Oversample = 1
		}
		return nil
	case "target_density":
		return setInt(&p.TargetDensity, value)
	default:
		return fmt.Errorf("unknown parameter %q", key)
	}
}

// setSize parses WIDTH or WIDTHxHEIGHT.
func (p *Params) setSize(value string) error {
	w, h, found := strings.Cut(value, "x")
	width, err := strconv.Atoi(w)
	if err != nil {
		return fmt.Errorf("bad size %q: %w", value, err)
	}
	p.Width = width
	p.Height = width
	if found {
		height, err := strconv.Atoi(h)
		if err != nil {
			return fmt.Errorf("bad size %q: %w", value, err)
		}
		p.Height = height
	}
	return nil
}

func setFloat(dst *float64, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setInt(dst *int, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setBool(dst *bool, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*dst = v != 0
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
