package trace

import "github.com/elliotchance/orderedmap/v2"

// Summary is the diagnostic digest logged for every loaded trace.
type Summary struct {
	Steps          int
	StaticBodies   int
	Frames         int
	Collisions     int
	CollisionSteps int
	// Names counts steps per name in first-seen order.
	Names *orderedmap.OrderedMap[string, int]
}

func Summarize(t *Trace) Summary {
	names := orderedmap.NewOrderedMap[string, int]()
	for i := range t.Steps {
		n, _ := names.Get(t.Steps[i].Name)
		names.Set(t.Steps[i].Name, n+1)
	}
	return Summary{
		Steps:          len(t.Steps),
		StaticBodies:   len(t.StaticBodies),
		Frames:         t.FrameCount(),
		Collisions:     t.CollisionCount(),
		CollisionSteps: len(t.Collisions),
		Names:          names,
	}
}
