package session

// Slider is the step scrubber: Value in [Min, Max].
type Slider struct {
	Min, Max, Value int
}

type Toggle struct {
	Name string
	On   bool
}

// Controls describes which controls exist and are usable. It is derived from
// the session on demand, so reloading a trace needs no widget bookkeeping.
type Controls struct {
	Loaded bool
	Slider Slider

	Prev, Next    bool
	PrevCollision bool
	NextCollision bool
	Back, Forward bool
	Bookmarks     bool

	Toggles []Toggle
}

// Controls returns the control set for the current state. With no trace
// loaded only Loaded=false is set.
func (s *Session) Controls() Controls {
	if s.cursor == nil {
		return Controls{}
	}
	c := s.cursor
	_, prevCol := c.PrevCollision()
	_, nextCol := c.NextCollision()
	return Controls{
		Loaded:        true,
		Slider:        Slider{Min: 0, Max: c.Len() - 1, Value: c.Index()},
		Prev:          c.Index() > 0,
		Next:          c.Index() < c.Len()-1,
		PrevCollision: prevCol,
		NextCollision: nextCol,
		Back:          s.history.canUndo(),
		Forward:       s.history.canRedo(),
		Bookmarks:     s.marks != nil,
		Toggles: []Toggle{
			{Name: "extra info", On: s.opts.ExtraInfo},
			{Name: "cam", On: s.opts.Cam},
			{Name: "labels", On: s.opts.Labels},
		},
	}
}
