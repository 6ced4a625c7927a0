// Package trace owns a loaded physics recording: the ordered steps, the static
// colliders and everything derived from them once per load (collision index,
// frame and physics-tick counters).
package trace

import "github.com/go-gl/mathgl/mgl64"

type Vec2 = mgl64.Vec2

// Step names that drive the derived counters.
const (
	StepTickStart    = "tick start"
	StepPhysicsStart = "physics step start"
	StepPhysicsEnd   = "physics end"
)

type ShapeType struct {
	ID    int
	Label string
}

// Shape is one of *Circle, *Polygon, *Capsule or *UnknownShape.
type Shape interface {
	Kind() ShapeKind
}

type Circle struct {
	P Vec2
	R float64
}

// Capsule is the swept circle between A (radius RA) and B (radius RB).
// Flippers are recorded as capsules.
type Capsule struct {
	A, B   Vec2
	RA, RB float64
}

// Polygon holds one or more closed vertex loops in world coordinates.
type Polygon struct {
	SubPolys [][]Vec2
}

// UnknownShape is kept for bodies whose tag could not be resolved so that the
// renderer can still mark the body position.
type UnknownShape struct {
	Tag int
}

func (*Circle) Kind() ShapeKind       { return ShapeCircle }
func (*Capsule) Kind() ShapeKind      { return ShapeCapsule }
func (*Polygon) Kind() ShapeKind      { return ShapePolygon }
func (*UnknownShape) Kind() ShapeKind { return ShapeUnknown }

type Body struct {
	Type            ShapeType
	Shape           Shape
	Pos             Vec2
	PosDelta        Vec2
	AngularVel      float64
	AngularVelDelta float64
	Vel             Vec2
	VelDelta        Vec2
}

// Radius returns the circle radius for circular bodies and 0 otherwise.
func (b Body) Radius() float64 {
	if c, ok := b.Shape.(*Circle); ok {
		return c.R
	}
	return 0
}

// Ghost is the position the body is predicted to reach on the next step.
func (b Body) Ghost() Vec2 {
	return b.Pos.Add(b.Vel).Add(b.VelDelta).Add(b.PosDelta)
}

type Manifold struct {
	Depth   float64
	Contact Vec2
	Normal  Vec2
}

type Collision struct {
	Manifold Manifold
	Body     Body
}

// Bounds is an axis-aligned box given by two corners.
type Bounds struct {
	Min, Max Vec2
}

type CamData struct {
	DragVel float64
	Limits  Bounds
	Soft    Bounds
	Hard    Bounds
}

type Step struct {
	Name       string
	Ball       Body
	CamOffset  Vec2
	Cam        *CamData
	Collisions []Collision

	// Derived on load.
	FrameIndex       int
	PhysicsStepIndex int
}

func (s *Step) HasCollisions() bool {
	return len(s.Collisions) > 0
}

// Trace is a fully derived recording. It is never partially built: Load either
// returns a complete Trace or an error.
type Trace struct {
	Steps        []Step
	StaticBodies []Body
	Collisions   []int
	Hash         uint64
}

func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Steps)
}

func (t *Trace) Step(i int) (*Step, bool) {
	if t == nil || i < 0 || i >= len(t.Steps) {
		return nil, false
	}
	return &t.Steps[i], true
}

// FrameCount is the number of "tick start" steps in the trace.
func (t *Trace) FrameCount() int {
	if t.Len() == 0 {
		return 0
	}
	return t.Steps[len(t.Steps)-1].FrameIndex
}

func (t *Trace) CollisionCount() int {
	n := 0
	for i := range t.Steps {
		n += len(t.Steps[i].Collisions)
	}
	return n
}
