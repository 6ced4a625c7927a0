package trace

// Data is a structurally typed recording as produced by a decoder. Shapes are
// still raw: their numeric tags are resolved by Load.
type Data struct {
	Steps        []StepData
	StaticBodies []BodyData

	// ShapeTags optionally maps a shape label ("circle", "polygon",
	// "capsule") to the numeric tag the recording uses for it.
	ShapeTags map[string]int

	// Hash identifies the payload the data was decoded from.
	Hash uint64
}

type StepData struct {
	Name       string
	Ball       *BodyData
	CamOffset  Vec2
	Cam        *CamData
	Collisions []CollisionData
}

type CollisionData struct {
	Manifold Manifold
	Body     BodyData
}

type BodyData struct {
	Type            ShapeType
	Shape           ShapeData
	Pos             Vec2
	PosDelta        Vec2
	AngularVel      float64
	AngularVelDelta float64
	Vel             Vec2
	VelDelta        Vec2
}

// ShapeData carries every field any shape variant may set. Nil means absent.
type ShapeData struct {
	P        *Vec2
	R        *float64
	A, B     *Vec2
	RA, RB   *float64
	SubPolys [][]Vec2
}

func (d ShapeData) fits(k ShapeKind) bool {
	switch k {
	case ShapeCircle:
		return d.R != nil
	case ShapeCapsule:
		return d.A != nil && d.B != nil && d.RA != nil && d.RB != nil
	case ShapePolygon:
		return len(d.SubPolys) > 0
	}
	return false
}

func (d ShapeData) infer() ShapeKind {
	for _, k := range []ShapeKind{ShapeCapsule, ShapePolygon, ShapeCircle} {
		if d.fits(k) {
			return k
		}
	}
	return ShapeUnknown
}

func (d ShapeData) build(k ShapeKind, tag int) Shape {
	switch k {
	case ShapeCircle:
		c := &Circle{R: *d.R}
		if d.P != nil {
			c.P = *d.P
		}
		return c
	case ShapeCapsule:
		return &Capsule{A: *d.A, B: *d.B, RA: *d.RA, RB: *d.RB}
	case ShapePolygon:
		polys := make([][]Vec2, 0, len(d.SubPolys))
		for _, p := range d.SubPolys {
			polys = append(polys, append([]Vec2(nil), p...))
		}
		return &Polygon{SubPolys: polys}
	}
	return &UnknownShape{Tag: tag}
}
