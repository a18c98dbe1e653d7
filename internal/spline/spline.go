// Package spline models the per-keyframe interpolation curve: an ordered set
// of (x, y) control points evaluated as a natural cubic spline. The curve
// remaps a linear blend factor in [0, 1] into a perceptually smoother one.
package spline

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Point is a single control point.
type Point struct {
	X float64
	Y float64
}

// pointSize is the serialized size of one control point: two big-endian
// IEEE-754 doubles.
const pointSize = 16

// Spline is a curve over ordered control points. The solved second
// derivatives are cached between evaluations and recomputed when the control
// points change.
type Spline struct {
	points []Point
	y2     []float64
}

// New creates a spline from the given control points. Points are expected in
// ascending x order.
func New(points ...Point) *Spline {
	s := &Spline{points: make([]Point, len(points))}
	copy(s.points, points)
	return s
}

// TemplateSmooth returns the default ease-in/ease-out curve used for new
// keyframes. Its endpoints are pinned to (0,0) and (1,1) so a blend factor of
// 0 or 1 maps to itself.
func TemplateSmooth() *Spline {
	return New(
		Point{X: 0, Y: 0},
		Point{X: 0.25, Y: 0.1},
		Point{X: 0.75, Y: 0.9},
		Point{X: 1, Y: 1},
	)
}

// Points returns a copy of the control points.
func (s *Spline) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// SetPoints replaces the control points and invalidates the solved
// coefficient cache.
func (s *Spline) SetPoints(points []Point) {
	s.points = make([]Point, len(points))
	copy(s.points, points)
	s.y2 = nil
}

// Evaluate returns the curve's output for input t. The input is clamped to
// the control points' x range, so for curves spanning [0,1] the result of
// Evaluate(0) is the first point's y and Evaluate(1) the last point's y.
// With fewer than two control points the curve degenerates to identity.
func (s *Spline) Evaluate(t float64) float64 {
	n := len(s.points)
	if n == 0 {
		return t
	}
	if n == 1 {
		return s.points[0].Y
	}

	if t <= s.points[0].X {
		return s.points[0].Y
	}
	if t >= s.points[n-1].X {
		return s.points[n-1].Y
	}

	if s.y2 == nil {
		s.solve()
	}

	// Find the interval containing t.
	hi := 1
	for hi < n-1 && s.points[hi].X < t {
		hi++
	}
	lo := hi - 1

	h := s.points[hi].X - s.points[lo].X
	if h <= 0 {
		return s.points[lo].Y
	}

	a := (s.points[hi].X - t) / h
	b := (t - s.points[lo].X) / h
	return a*s.points[lo].Y + b*s.points[hi].Y +
		((a*a*a-a)*s.y2[lo]+(b*b*b-b)*s.y2[hi])*h*h/6
}

// solve computes the natural cubic spline second derivatives for the current
// control points (the classic tridiagonal solve, natural boundary
// conditions).
func (s *Spline) solve() {
	n := len(s.points)
	y2 := make([]float64, n)
	u := make([]float64, n)

	for i := 1; i < n-1; i++ {
		span := s.points[i+1].X - s.points[i-1].X
		if span == 0 {
			continue
		}
		sig := (s.points[i].X - s.points[i-1].X) / span
		p := sig*y2[i-1] + 2
		y2[i] = (sig - 1) / p

		du := (s.points[i+1].Y-s.points[i].Y)/(s.points[i+1].X-s.points[i].X) -
			(s.points[i].Y-s.points[i-1].Y)/(s.points[i].X-s.points[i-1].X)
		u[i] = (6*du/span - sig*u[i-1]) / p
	}

	for k := n - 2; k >= 0; k-- {
		y2[k] = y2[k]*y2[k+1] + u[k]
	}
	s.y2 = y2
}

// Serialize encodes the control points as fixed-size records: for each
// point, x then y as big-endian doubles. The encoding is exact; Deserialize
// recovers the coordinates bit for bit.
func (s *Spline) Serialize() []byte {
	out := make([]byte, 0, len(s.points)*pointSize)
	var rec [pointSize]byte
	for _, p := range s.points {
		binary.BigEndian.PutUint64(rec[:8], math.Float64bits(p.X))
		binary.BigEndian.PutUint64(rec[8:], math.Float64bits(p.Y))
		out = append(out, rec[:]...)
	}
	return out
}

// Deserialize decodes a control point sequence produced by Serialize.
func Deserialize(data []byte) (*Spline, error) {
	if len(data)%pointSize != 0 {
		return nil, fmt.Errorf("spline payload is %d bytes, not a multiple of %d", len(data), pointSize)
	}
	points := make([]Point, 0, len(data)/pointSize)
	for off := 0; off < len(data); off += pointSize {
		points = append(points, Point{
			X: math.Float64frombits(binary.BigEndian.Uint64(data[off : off+8])),
			Y: math.Float64frombits(binary.BigEndian.Uint64(data[off+8 : off+pointSize])),
		})
	}
	return New(points...), nil
}
