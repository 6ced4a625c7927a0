package render

import "stepscope/internal/trace"

// Options are the display toggles.
type Options struct {
	ExtraInfo bool
	Cam       bool
	Labels    bool
}

// TimelineBar is one step on the timeline strip.
type TimelineBar struct {
	Step     int
	Current  bool
	Severity trace.Severity
}

// Overlay is the screen-space chrome drawn over the scene: the step info bar
// and the timeline above it.
type Overlay struct {
	Name     string
	Counters string
	Timeline []TimelineBar
}

// Frame is everything needed to draw one picture. A nil Step draws the idle
// placeholder.
type Frame struct {
	Step         *trace.Step
	StaticBodies []trace.Body

	// View transform: screen = world*Zoom + Offset, in view pixels.
	OffsetX, OffsetY float64
	Zoom             float64

	// Scale is the number of surface pixels per view pixel. Zero means 1.
	Scale float64

	Options Options
	Overlay *Overlay
}

func (f Frame) scale() float64 {
	if f.Scale <= 0 {
		return 1
	}
	return f.Scale
}

// Overlay geometry in view pixels.
const (
	InfoHeight     = 40.0
	TimelineHeight = 20.0

	infoPadding      = 15.0
	timelinePaddingX = 2.0
	timelinePaddingY = 6.0
	timelineSpacing  = 1.0
)
