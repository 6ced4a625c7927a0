package trace

import "stepscope/internal/geom"

// End is the contact point pushed out along the normal by the penetration
// depth.
func (m Manifold) End() Vec2 {
	return m.Contact.Add(geom.Normalize(m.Normal).Mul(m.Depth))
}

// Dynamics are the contact-relative velocities of the ball (a) against the
// collider (b) for one collision.
type Dynamics struct {
	RA, RB Vec2 // contact offsets from each body's position
	VA, VB Vec2 // point velocities including the angular term
	RV     Vec2 // VA - VB
	RVLen2 float64
}

func ContactDynamics(a Body, c Collision) Dynamics {
	b := c.Body
	start := c.Manifold.Contact
	end := c.Manifold.End()

	ra := end.Sub(a.Pos)
	rb := start.Sub(b.Pos)
	va := a.Vel.Add(Vec2{-a.AngularVel * ra[1], a.AngularVel * ra[0]})
	vb := b.Vel.Add(Vec2{-b.AngularVel * rb[1], b.AngularVel * rb[0]})
	rv := va.Sub(vb)

	return Dynamics{RA: ra, RB: rb, VA: va, VB: vb, RV: rv, RVLen2: rv.LenSqr()}
}

// Penetration is the summed manifold depth of every collision in the step.
func (s *Step) Penetration() float64 {
	var d float64
	for _, c := range s.Collisions {
		d += c.Manifold.Depth
	}
	return d
}

type Severity int

const (
	SeverityNone Severity = iota
	SeverityContact
	SeverityDeep
	SeveritySevere
)

// Penetration thresholds, in world units.
const (
	DeepPenetration   = 3.0
	SeverePenetration = 6.0
)

func (s *Step) Severity() Severity {
	if len(s.Collisions) == 0 {
		return SeverityNone
	}
	switch p := s.Penetration(); {
	case p > SeverePenetration:
		return SeveritySevere
	case p > DeepPenetration:
		return SeverityDeep
	}
	return SeverityContact
}
