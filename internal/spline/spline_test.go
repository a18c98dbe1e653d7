package spline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateSmoothEndpoints(t *testing.T) {
	s := TemplateSmooth()
	assert.Equal(t, 0.0, s.Evaluate(0))
	assert.Equal(t, 1.0, s.Evaluate(1))
}

func TestEvaluateClampsOutOfRange(t *testing.T) {
	s := TemplateSmooth()
	assert.Equal(t, 0.0, s.Evaluate(-0.5))
	assert.Equal(t, 1.0, s.Evaluate(1.5))
}

func TestEvaluateIsMonotonicEnough(t *testing.T) {
	// The smooth template should never pop backwards across a fine sweep.
	s := TemplateSmooth()
	prev := s.Evaluate(0)
	for i := 1; i <= 1000; i++ {
		v := s.Evaluate(float64(i) / 1000)
		assert.GreaterOrEqual(t, v, prev-1e-9, "regression at t=%d/1000", i)
		prev = v
	}
}

func TestEvaluateMidpointOfSymmetricCurve(t *testing.T) {
	s := TemplateSmooth()
	// The template is symmetric about (0.5, 0.5).
	assert.InDelta(t, 0.5, s.Evaluate(0.5), 1e-9)

	// Ease-in/ease-out: slower than linear near the start, faster past the
	// midpoint.
	assert.Less(t, s.Evaluate(0.15), 0.15)
	assert.Greater(t, s.Evaluate(0.85), 0.85)
}

func TestEvaluateDegenerateCurves(t *testing.T) {
	assert.Equal(t, 0.3, New().Evaluate(0.3))
	assert.Equal(t, 0.7, New(Point{X: 0.5, Y: 0.7}).Evaluate(0.2))

	// Two points spanning [0,1] behave linearly.
	s := New(Point{X: 0, Y: 0}, Point{X: 1, Y: 1})
	assert.InDelta(t, 0.25, s.Evaluate(0.25), 1e-9)
}

func TestSetPointsInvalidatesCache(t *testing.T) {
	s := TemplateSmooth()
	before := s.Evaluate(0.3)

	s.SetPoints([]Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	after := s.Evaluate(0.3)

	assert.NotEqual(t, before, after)
	assert.InDelta(t, 0.3, after, 1e-9)
}

func TestSerializeRoundTripExact(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{name: "empty", points: nil},
		{name: "template", points: TemplateSmooth().Points()},
		{name: "awkward_values", points: []Point{
			{X: 0, Y: 0},
			{X: 0.1234567890123456, Y: -0.5},
			{X: 0.75, Y: 1e-300},
			{X: 1, Y: 1},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := New(tt.points...).Serialize()
			got, err := Deserialize(data)
			require.NoError(t, err)
			require.Len(t, got.points, len(tt.points))
			for i, p := range tt.points {
				assert.Equal(t, p, got.points[i], "coordinates must round-trip exactly")
			}
		})
	}
}

func TestDeserializeRejectsPartialRecord(t *testing.T) {
	data := TemplateSmooth().Serialize()
	_, err := Deserialize(data[:len(data)-3])
	require.Error(t, err)
}
