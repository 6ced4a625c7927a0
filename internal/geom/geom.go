// Package geom holds the plane geometry the frame renderer needs for capsule
// outlines and contact annotations. Every function here is pure and returns a
// defined fallback instead of NaN for degenerate input.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Projection is the result of projecting a point onto a segment. T is the
// clamped segment parameter in [0, 1].
type Projection struct {
	X, Y float64
	T    float64
}

// Vec returns the projected point.
func (p Projection) Vec() mgl64.Vec2 {
	return mgl64.Vec2{p.X, p.Y}
}

// Segment is a line segment from A to B.
type Segment struct {
	A, B mgl64.Vec2
}

// ClosestPointOnSegment projects c onto the segment a->b.
// A zero-length segment yields a with T = 0.
func ClosestPointOnSegment(a, b, c mgl64.Vec2) Projection {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return Projection{X: a[0], Y: a[1]}
	}

	t := Clamp(c.Sub(a).Dot(ab)/denom, 0, 1)
	switch {
	case math.IsNaN(t), t == 0:
		return Projection{X: a[0], Y: a[1]}
	case t == 1:
		return Projection{X: b[0], Y: b[1], T: 1}
	}

	d := a.Add(ab.Mul(t))
	return Projection{X: d[0], Y: d[1], T: t}
}

// OuterTangents returns the two lines tangent to both circles on the same
// outer side. ok is false when one circle contains the other (or the centres
// coincide), in which case no tangent exists and nothing should be drawn.
func OuterTangents(x1, y1, r1, x2, y2, r2 float64) (lines [2]Segment, ok bool) {
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Hypot(dx, dy)
	if dist == 0 || math.IsNaN(dist) || math.IsInf(dist, 0) || dist <= math.Abs(r1-r2) {
		return lines, false
	}

	cos := (r1 - r2) / dist
	if cos < -1 || cos > 1 || math.IsNaN(cos) {
		return lines, false
	}

	base := math.Atan2(dy, dx)
	spread := math.Acos(cos)

	for i, angle := range [2]float64{base + spread, base - spread} {
		c, s := math.Cos(angle), math.Sin(angle)
		lines[i] = Segment{
			A: mgl64.Vec2{x1 + r1*c, y1 + r1*s},
			B: mgl64.Vec2{x2 + r2*c, y2 + r2*s},
		}
	}
	return lines, true
}

// Normalize returns v scaled to unit length, or the zero vector when v has no
// length.
func Normalize(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec2{}
	}
	return v.Mul(1 / l)
}

// Perp returns v rotated a quarter turn clockwise in screen space.
func Perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{v[1], -v[0]}
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
