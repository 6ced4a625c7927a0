package trace

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyTrace is returned for recordings without steps. Callers treat it as
// "no trace loaded".
var ErrEmptyTrace = errors.New("trace has no steps")

// ParseError reports a structurally invalid recording.
type ParseError struct {
	Step  int // -1 for static bodies
	Index int
	Field string
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("static body %d: %s: %s", e.Index, e.Field, e.Msg)
	}
	return fmt.Sprintf("step %d: %s: %s", e.Step, e.Field, e.Msg)
}

type Options struct {
	// Tags is the numbering used when the recording does not embed its own.
	Tags TagTable
}

// Load builds a Trace from decoded data. The input is not modified.
func Load(data Data, opts Options) (*Trace, error) {
	if len(data.Steps) == 0 {
		return nil, ErrEmptyTrace
	}

	res := newShapeResolver(TagTableFromLabels(data.ShapeTags), opts.Tags)

	statics := make([]Body, len(data.StaticBodies))
	for i, bd := range data.StaticBodies {
		b, err := buildBody(res, bd)
		if err != nil {
			return nil, &ParseError{Step: -1, Index: i, Field: "static_bodies", Msg: err.Error()}
		}
		statics[i] = b
	}

	steps := make([]Step, len(data.Steps))
	for i, sd := range data.Steps {
		if sd.Ball == nil {
			return nil, &ParseError{Step: i, Field: "ball", Msg: "missing"}
		}
		ball, err := buildBody(res, *sd.Ball)
		if err != nil {
			return nil, &ParseError{Step: i, Field: "ball", Msg: err.Error()}
		}

		cols := make([]Collision, len(sd.Collisions))
		for j, cd := range sd.Collisions {
			b, err := buildBody(res, cd.Body)
			if err != nil {
				return nil, &ParseError{Step: i, Index: j, Field: "collisions", Msg: err.Error()}
			}
			if !finite(cd.Manifold.Depth) {
				return nil, &ParseError{Step: i, Index: j, Field: "collisions", Msg: "manifold depth is not finite"}
			}
			cols[j] = Collision{Manifold: cd.Manifold, Body: b}
		}

		var cam *CamData
		if sd.Cam != nil {
			c := *sd.Cam
			cam = &c
		}

		steps[i] = Step{
			Name:       sd.Name,
			Ball:       ball,
			CamOffset:  sd.CamOffset,
			Cam:        cam,
			Collisions: cols,
		}
	}

	DeriveStepCounters(steps)

	return &Trace{
		Steps:        steps,
		StaticBodies: statics,
		Collisions:   DeriveCollisionIndices(steps),
		Hash:         data.Hash,
	}, nil
}

// DeriveCollisionIndices returns, in increasing order, the index of every step
// with at least one collision.
func DeriveCollisionIndices(steps []Step) []int {
	idx := make([]int, 0)
	for i := range steps {
		if len(steps[i].Collisions) > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// DeriveStepCounters annotates steps in place. FrameIndex counts "tick start"
// steps seen so far; PhysicsStepIndex counts "physics step start" steps and
// drops back to 0 on "physics end".
func DeriveStepCounters(steps []Step) {
	frame, physics := 0, 0
	for i := range steps {
		switch steps[i].Name {
		case StepTickStart:
			frame++
		case StepPhysicsStart:
			physics++
		case StepPhysicsEnd:
			physics = 0
		}
		steps[i].FrameIndex = frame
		steps[i].PhysicsStepIndex = physics
	}
}

func buildBody(res shapeResolver, bd BodyData) (Body, error) {
	for _, v := range []Vec2{bd.Pos, bd.PosDelta, bd.Vel, bd.VelDelta} {
		if !finite(v[0]) || !finite(v[1]) {
			return Body{}, errors.New("non-finite vector")
		}
	}
	return Body{
		Type:            bd.Type,
		Shape:           res.resolve(bd.Type, bd.Shape),
		Pos:             bd.Pos,
		PosDelta:        bd.PosDelta,
		AngularVel:      bd.AngularVel,
		AngularVelDelta: bd.AngularVelDelta,
		Vel:             bd.Vel,
		VelDelta:        bd.VelDelta,
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
