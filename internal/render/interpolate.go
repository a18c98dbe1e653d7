package render

import "fmt"

// InterpolateLinear blends two parameter snapshots. Alpha 0 yields a, alpha
// 1 yields b; numeric fields interpolate linearly, colors interpolate per
// channel, and boolean and quality settings switch over at the midpoint.
func InterpolateLinear(alpha float64, a, b Params) Params {
	out := a
	if alpha >= 0.5 {
		out = b
	}

	out.A = lerp(a.A, b.A, alpha)
	out.B = lerp(a.B, b.B, alpha)
	out.C = lerp(a.C, b.C, alpha)
	out.D = lerp(a.D, b.D, alpha)
	out.Zoom = lerp(a.Zoom, b.Zoom, alpha)
	out.XOffset = lerp(a.XOffset, b.XOffset, alpha)
	out.YOffset = lerp(a.YOffset, b.YOffset, alpha)
	out.Rotation = lerp(a.Rotation, b.Rotation, alpha)
	out.BlurRadius = lerp(a.BlurRadius, b.BlurRadius, alpha)
	out.BlurRatio = lerp(a.BlurRatio, b.BlurRatio, alpha)
	out.Exposure = lerp(a.Exposure, b.Exposure, alpha)
	out.Gamma = lerp(a.Gamma, b.Gamma, alpha)
	out.FgAlpha = lerpInt(a.FgAlpha, b.FgAlpha, alpha)
	out.BgAlpha = lerpInt(a.BgAlpha, b.BgAlpha, alpha)
	out.FgColor = lerpColor(a.FgColor, b.FgColor, alpha)
	out.BgColor = lerpColor(a.BgColor, b.BgColor, alpha)

	return out
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpInt(a, b int, t float64) int {
	return a + int(float64(b-a)*t)
}

// lerpColor blends two #RRGGBB strings channel by channel. Unparsable
// colors fall back to the midpoint switch.
func lerpColor(a, b string, t float64) string {
	ar, ag, ab, errA := parseHexColor(a)
	br, bg, bb, errB := parseHexColor(b)
	if errA != nil || errB != nil {
		if t >= 0.5 {
			return b
		}
		return a
	}
	return fmt.Sprintf("#%02X%02X%02X",
		lerpInt(ar, br, t), lerpInt(ag, bg, t), lerpInt(ab, bb, t))
}

func parseHexColor(s string) (r, g, b int, err error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, fmt.Errorf("bad color %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, fmt.Errorf("bad color %q: %w", s, err)
	}
	return r, g, b, nil
}
