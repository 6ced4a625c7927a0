package render

import (
	"fmt"
	"image/color"

	"stepscope/internal/trace"
)

// RGB is an opaque theme colour; opacity is applied where it is drawn.
type RGB [3]uint8

// A returns the colour with opacity a in [0, 1].
func (c RGB) A(a float64) color.NRGBA {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: uint8(a*255 + 0.5)}
}

// Hex formats the colour for lipgloss.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Opacity levels.
const (
	OpacityXS = 0.3
	OpacityS  = 0.6
	OpacityM  = 0.8
	OpacityL  = 1.0
)

// Text sizes in world units (S) and overlay pixels (M, L).
const (
	TextS = 3.0
	TextM = 20.0
	TextL = 25.0
)

const strokeWeight = 0.5

var (
	white     = RGB{255, 255, 255}
	fullBlack = RGB{0, 0, 0}
	black     = RGB{65, 67, 69}
	yellow    = RGB{255, 242, 76}
	orange    = RGB{255, 119, 76}
	aqua      = RGB{71, 255, 196}
	carmin    = RGB{255, 71, 93}
	blue      = RGB{116, 164, 183}
	violet    = RGB{174, 80, 255}
	lila      = RGB{123, 130, 219}
	gray      = RGB{180, 180, 180}
	magenta   = RGB{255, 57, 244}
	crimson   = RGB{178, 24, 64}
)

// Theme is the palette the renderer and the terminal bars draw with.
type Theme struct {
	Background   RGB
	Screen       RGB
	Text         RGB
	InfoBg       RGB
	InfoFg       RGB
	TimelineBg   RGB
	TimelineFg   RGB
	Cool         RGB
	Warm02       RGB
	Warm03       RGB
	Warm04       RGB
	Info         RGB
	StaticBodies RGB
	Ball         RGB
	BallCollided RGB
	Ghost        RGB
	Contact01    RGB
	Contact02    RGB
	Depth        RGB
	Tangent      RGB
	Velocity     RGB
	Angular      RGB
	Collider     RGB
	FlipperVel   RGB
	Cam          RGB
}

var DefaultTheme = Theme{
	Background:   RGB{65, 65, 65},
	Screen:       white,
	Text:         fullBlack,
	InfoBg:       fullBlack,
	InfoFg:       white,
	TimelineBg:   fullBlack,
	TimelineFg:   white,
	Cool:         aqua,
	Warm02:       orange,
	Warm03:       carmin,
	Warm04:       crimson,
	Info:         black,
	StaticBodies: gray,
	Ball:         carmin,
	BallCollided: magenta,
	Ghost:        aqua,
	Contact01:    yellow,
	Contact02:    orange,
	Depth:        black,
	Tangent:      violet,
	Velocity:     carmin,
	Angular:      violet,
	Collider:     lila,
	FlipperVel:   blue,
	Cam:          magenta,
}

// Bar is the fill of one timeline bar.
func (th Theme) Bar(current bool, sev trace.Severity) RGB {
	if current {
		return th.Cool
	}
	switch sev {
	case trace.SeveritySevere:
		return th.Warm04
	case trace.SeverityDeep:
		return th.Warm03
	case trace.SeverityContact:
		return th.Warm02
	}
	return th.TimelineBg
}
