// Package view maps pointer and wheel input onto the pan offset and zoom used
// to draw the scene.
package view

import "math"

// The logical scene every recording is drawn into.
const (
	SceneWidth  = 400.0
	SceneHeight = 240.0
)

const (
	DefaultZoom     = 1.5
	DefaultZoomStep = 0.8
	DefaultMinZoom  = 0.01

	fitMargin = 0.95
)

// Transform maps world coordinates to screen coordinates as
// screen = world*Zoom + Offset.
type Transform struct {
	OffsetX, OffsetY float64
	Zoom             float64

	ZoomStep float64
	MinZoom  float64

	width, height float64

	dragging bool
	hasLast  bool
	lastX    float64
	lastY    float64
}

// New returns a transform for a width x height viewport at the default zoom
// with the scene centred.
func New(width, height float64) *Transform {
	t := &Transform{
		Zoom:     DefaultZoom,
		ZoomStep: DefaultZoomStep,
		MinZoom:  DefaultMinZoom,
		width:    width,
		height:   height,
	}
	t.center()
	return t
}

func (t *Transform) center() {
	t.OffsetX = (t.width - SceneWidth*t.Zoom) / 2
	t.OffsetY = (t.height - SceneHeight*t.Zoom) / 2
}

func (t *Transform) Size() (w, h float64) { return t.width, t.height }

func (t *Transform) ScreenToWorld(x, y float64) (float64, float64) {
	return (x - t.OffsetX) / t.Zoom, (y - t.OffsetY) / t.Zoom
}

func (t *Transform) WorldToScreen(x, y float64) (float64, float64) {
	return x*t.Zoom + t.OffsetX, y*t.Zoom + t.OffsetY
}

// ZoomAt applies one wheel notch at the pointer. The zoom moves by ZoomStep
// in the direction opposite to deltaY and the world point under the pointer
// stays put. Updates that would take the zoom below MinZoom are rejected.
func (t *Transform) ZoomAt(px, py, deltaY float64) bool {
	switch {
	case deltaY > 0:
		return t.zoomTo(px, py, t.Zoom-t.ZoomStep)
	case deltaY < 0:
		return t.zoomTo(px, py, t.Zoom+t.ZoomStep)
	}
	return false
}

// ZoomCenter zooms around the middle of the viewport, for keyboard input.
func (t *Transform) ZoomCenter(deltaY float64) bool {
	return t.ZoomAt(t.width/2, t.height/2, deltaY)
}

func (t *Transform) zoomTo(px, py, zoom float64) bool {
	if zoom < t.MinZoom || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return false
	}
	wx, wy := t.ScreenToWorld(px, py)
	t.Zoom = zoom
	t.OffsetX = px - wx*zoom
	t.OffsetY = py - wy*zoom
	return true
}

// BeginDrag starts panning. Presses that did not land on the canvas (status
// bars, timeline) are ignored.
func (t *Transform) BeginDrag(px, py float64, onCanvas bool) bool {
	if !onCanvas {
		return false
	}
	t.dragging = true
	t.hasLast = true
	t.lastX, t.lastY = px, py
	return true
}

// Grab starts a drag without a known pointer position. The first DragTo after
// it only records the pointer.
func (t *Transform) Grab() {
	t.dragging = true
	t.hasLast = false
}

// DragTo pans by the pointer movement since the last drag event.
func (t *Transform) DragTo(px, py float64) bool {
	if !t.dragging {
		return false
	}
	if t.hasLast {
		t.OffsetX += px - t.lastX
		t.OffsetY += py - t.lastY
	}
	t.hasLast = true
	t.lastX, t.lastY = px, py
	return true
}

func (t *Transform) EndDrag() {
	t.dragging = false
	t.hasLast = false
}

func (t *Transform) Dragging() bool { return t.dragging }

// Pan shifts the view by a screen-space delta.
func (t *Transform) Pan(dx, dy float64) {
	t.OffsetX += dx
	t.OffsetY += dy
}

// Fit resizes the viewport and zooms so the whole scene is visible and
// centred.
func (t *Transform) Fit(width, height float64) {
	t.width, t.height = width, height
	zoom := math.Min(width/SceneWidth, height/SceneHeight) * fitMargin
	if zoom < t.MinZoom || math.IsNaN(zoom) {
		zoom = t.MinZoom
	}
	t.Zoom = zoom
	t.center()
}

// Reset restores zoom to z and centres the scene.
func (t *Transform) Reset(z float64) {
	if z >= t.MinZoom {
		t.Zoom = z
	}
	t.center()
}

// Resize changes the viewport size keeping the world point at the viewport
// centre in the centre.
func (t *Transform) Resize(width, height float64) {
	cx, cy := t.ScreenToWorld(t.width/2, t.height/2)
	t.width, t.height = width, height
	t.OffsetX = width/2 - cx*t.Zoom
	t.OffsetY = height/2 - cy*t.Zoom
}

// Scaled returns a copy for a viewport k times larger in each direction,
// showing the same part of the world. Drag state is not copied.
func (t *Transform) Scaled(k float64) Transform {
	return Transform{
		OffsetX:  t.OffsetX * k,
		OffsetY:  t.OffsetY * k,
		Zoom:     t.Zoom * k,
		ZoomStep: t.ZoomStep,
		MinZoom:  t.MinZoom,
		width:    t.width * k,
		height:   t.height * k,
	}
}
