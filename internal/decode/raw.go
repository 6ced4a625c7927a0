package decode

import "stepscope/internal/trace"

// Recorders have shipped two spellings of the body fields; both are read and
// the long form wins when a body carries both.

type rawData struct {
	Steps        []rawStep      `json:"steps"`
	StaticBodies []rawBody      `json:"static_bodies"`
	ShapeTags    map[string]int `json:"shape_tags"`
}

type rawStep struct {
	Name       string         `json:"name"`
	Ball       *rawBody       `json:"ball"`
	CamOffset  trace.Vec2     `json:"cam_offset"`
	CamData    *rawCamData    `json:"cam_data"`
	Collisions []rawCollision `json:"collisions"`
}

type rawCollision struct {
	Manifold struct {
		Depth   float64    `json:"depth"`
		Contact trace.Vec2 `json:"contact"`
		Normal  trace.Vec2 `json:"normal"`
	} `json:"manifold"`
	Body rawBody `json:"body"`
}

type rawCamData struct {
	DragVel float64       `json:"drag_vel"`
	Limits  [2]trace.Vec2 `json:"limits"`
	Soft    [2]trace.Vec2 `json:"soft"`
	Hard    [2]trace.Vec2 `json:"hard"`
}

type rawBody struct {
	ShapeType struct {
		ID    int    `json:"id"`
		Label string `json:"label"`
	} `json:"shape_type"`
	Shape rawShape   `json:"shape"`
	Pos   trace.Vec2 `json:"pos"`
	Vel   trace.Vec2 `json:"vel"`

	PosDelta        *trace.Vec2 `json:"pos_delta"`
	PosD            *trace.Vec2 `json:"pos_d"`
	AngularVel      *float64    `json:"angular_vel"`
	AngVel          *float64    `json:"ang_vel"`
	AngularVelDelta *float64    `json:"angular_vel_delta"`
	AngVelD         *float64    `json:"ang_vel_d"`
	VelDelta        *trace.Vec2 `json:"vel_delta"`
	VelD            *trace.Vec2 `json:"vel_d"`
}

type rawShape struct {
	P        *trace.Vec2  `json:"p"`
	R        *float64     `json:"r"`
	A        *trace.Vec2  `json:"a"`
	B        *trace.Vec2  `json:"b"`
	RA       *float64     `json:"ra"`
	RB       *float64     `json:"rb"`
	Verts    []trace.Vec2 `json:"verts"`
	SubPolys []struct {
		Verts []trace.Vec2 `json:"verts"`
	} `json:"sub_polys"`
}

func (r rawData) data() trace.Data {
	d := trace.Data{
		Steps:        make([]trace.StepData, len(r.Steps)),
		StaticBodies: make([]trace.BodyData, len(r.StaticBodies)),
		ShapeTags:    r.ShapeTags,
	}
	for i, b := range r.StaticBodies {
		d.StaticBodies[i] = b.body()
	}
	for i, s := range r.Steps {
		d.Steps[i] = s.step()
	}
	return d
}

func (s rawStep) step() trace.StepData {
	out := trace.StepData{
		Name:       s.Name,
		CamOffset:  s.CamOffset,
		Collisions: make([]trace.CollisionData, len(s.Collisions)),
	}
	if s.Ball != nil {
		b := s.Ball.body()
		out.Ball = &b
	}
	if s.CamData != nil {
		out.Cam = &trace.CamData{
			DragVel: s.CamData.DragVel,
			Limits:  trace.Bounds{Min: s.CamData.Limits[0], Max: s.CamData.Limits[1]},
			Soft:    trace.Bounds{Min: s.CamData.Soft[0], Max: s.CamData.Soft[1]},
			Hard:    trace.Bounds{Min: s.CamData.Hard[0], Max: s.CamData.Hard[1]},
		}
	}
	for i, c := range s.Collisions {
		out.Collisions[i] = trace.CollisionData{
			Manifold: trace.Manifold{
				Depth:   c.Manifold.Depth,
				Contact: c.Manifold.Contact,
				Normal:  c.Manifold.Normal,
			},
			Body: c.Body.body(),
		}
	}
	return out
}

func (b rawBody) body() trace.BodyData {
	return trace.BodyData{
		Type:            trace.ShapeType{ID: b.ShapeType.ID, Label: b.ShapeType.Label},
		Shape:           b.Shape.shape(),
		Pos:             b.Pos,
		Vel:             b.Vel,
		PosDelta:        firstVec(b.PosDelta, b.PosD),
		AngularVel:      firstFloat(b.AngularVel, b.AngVel),
		AngularVelDelta: firstFloat(b.AngularVelDelta, b.AngVelD),
		VelDelta:        firstVec(b.VelDelta, b.VelD),
	}
}

func (s rawShape) shape() trace.ShapeData {
	out := trace.ShapeData{P: s.P, R: s.R, A: s.A, B: s.B, RA: s.RA, RB: s.RB}
	for _, sp := range s.SubPolys {
		if len(sp.Verts) > 0 {
			out.SubPolys = append(out.SubPolys, sp.Verts)
		}
	}
	if len(out.SubPolys) == 0 && len(s.Verts) > 0 {
		out.SubPolys = [][]trace.Vec2{s.Verts}
	}
	return out
}

func firstVec(vs ...*trace.Vec2) trace.Vec2 {
	for _, v := range vs {
		if v != nil {
			return *v
		}
	}
	return trace.Vec2{}
}

func firstFloat(fs ...*float64) float64 {
	for _, f := range fs {
		if f != nil {
			return *f
		}
	}
	return 0
}
