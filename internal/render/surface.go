package render

import (
	"image/color"

	"golang.org/x/image/font"
)

// Surface is the immediate-mode drawing API the renderer needs. *gg.Context
// satisfies it.
type Surface interface {
	Width() int
	Height() int

	Push()
	Pop()
	Identity()
	Translate(x, y float64)
	Scale(x, y float64)
	TransformPoint(x, y float64) (float64, float64)

	SetColor(c color.Color)
	SetLineWidth(w float64)
	SetDash(dashes ...float64)
	SetFontFace(f font.Face)

	Clear()
	DrawLine(x1, y1, x2, y2 float64)
	DrawCircle(x, y, r float64)
	DrawRectangle(x, y, w, h float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	NewSubPath()
	ClearPath()
	Fill()
	Stroke()
	DrawStringAnchored(s string, x, y, ax, ay float64)
}
