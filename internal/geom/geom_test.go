package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosestPointOnSegment(t *testing.T) {
	a := mgl64.Vec2{0, 0}
	b := mgl64.Vec2{10, 0}

	tests := []struct {
		name string
		c    mgl64.Vec2
		want Projection
	}{
		{"middle", mgl64.Vec2{5, 3}, Projection{X: 5, Y: 0, T: 0.5}},
		{"before start clamps to a", mgl64.Vec2{-4, 2}, Projection{X: 0, Y: 0, T: 0}},
		{"past end clamps to b", mgl64.Vec2{14, -2}, Projection{X: 10, Y: 0, T: 1}},
		{"on the segment", mgl64.Vec2{2.5, 0}, Projection{X: 2.5, Y: 0, T: 0.25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosestPointOnSegment(a, b, tt.c)
			assert.InDelta(t, tt.want.X, got.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
			assert.InDelta(t, tt.want.T, got.T, 1e-12)
		})
	}
}

func TestClosestPointOnSegment_EndpointsExact(t *testing.T) {
	a := mgl64.Vec2{0.1, 0.7}
	b := mgl64.Vec2{3.3, -9.1}

	start := ClosestPointOnSegment(a, b, mgl64.Vec2{-100, 100})
	assert.Equal(t, Projection{X: a[0], Y: a[1], T: 0}, start)

	end := ClosestPointOnSegment(a, b, mgl64.Vec2{100, -500})
	assert.Equal(t, Projection{X: b[0], Y: b[1], T: 1}, end)
}

func TestClosestPointOnSegment_Degenerate(t *testing.T) {
	a := mgl64.Vec2{3, 4}

	got := ClosestPointOnSegment(a, a, mgl64.Vec2{10, 10})

	assert.Equal(t, Projection{X: 3, Y: 4, T: 0}, got)
	assert.False(t, math.IsNaN(got.X) || math.IsNaN(got.Y) || math.IsNaN(got.T))
}

func TestOuterTangents_EqualRadii(t *testing.T) {
	lines, ok := OuterTangents(0, 0, 2, 10, 0, 2)
	require.True(t, ok)

	// Equal radii give two lines parallel to the centre line at +-r.
	ys := []float64{lines[0].A[1], lines[1].A[1]}
	assert.ElementsMatch(t, []float64{2, -2}, []float64{round(ys[0]), round(ys[1])})
	for _, l := range lines {
		assert.InDelta(t, l.A[1], l.B[1], 1e-9)
		assert.InDelta(t, 0, l.A[0], 1e-9)
		assert.InDelta(t, 10, l.B[0], 1e-9)
	}
}

func TestOuterTangents_TouchBothCircles(t *testing.T) {
	x1, y1, r1 := 1.0, 2.0, 3.0
	x2, y2, r2 := 12.0, 5.0, 1.5

	lines, ok := OuterTangents(x1, y1, r1, x2, y2, r2)
	require.True(t, ok)

	for _, l := range lines {
		assert.InDelta(t, r1, distToLine(mgl64.Vec2{x1, y1}, l), 1e-9)
		assert.InDelta(t, r2, distToLine(mgl64.Vec2{x2, y2}, l), 1e-9)
	}
}

func TestOuterTangents_NoTangents(t *testing.T) {
	tests := []struct {
		name                   string
		x1, y1, r1, x2, y2, r2 float64
	}{
		{"contained", 0, 0, 10, 1, 0, 2},
		{"internally touching", 0, 0, 5, 3, 0, 2},
		{"same centre", 4, 4, 2, 4, 4, 2},
		{"nan input", math.NaN(), 0, 1, 3, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := OuterTangents(tt.x1, tt.y1, tt.r1, tt.x2, tt.y2, tt.r2)
			assert.False(t, ok)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, mgl64.Vec2{}, Normalize(mgl64.Vec2{}))

	n := Normalize(mgl64.Vec2{3, 4})
	assert.InDelta(t, 0.6, n[0], 1e-12)
	assert.InDelta(t, 0.8, n[1], 1e-12)
}

func TestLerpClamp(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, 2.0, Lerp(2, 8, 0))
	assert.Equal(t, 1.0, Clamp(3, 0, 1))
	assert.Equal(t, 0.0, Clamp(-3, 0, 1))
	assert.Equal(t, 0.25, Clamp(0.25, 0, 1))
}

func distToLine(p mgl64.Vec2, s Segment) float64 {
	d := s.B.Sub(s.A)
	cross := d[0]*(p[1]-s.A[1]) - d[1]*(p[0]-s.A[0])
	return math.Abs(cross) / d.Len()
}

func round(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
