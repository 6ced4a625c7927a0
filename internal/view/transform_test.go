package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CentersScene(t *testing.T) {
	tr := New(1000, 600)

	assert.Equal(t, DefaultZoom, tr.Zoom)
	cx, cy := tr.WorldToScreen(SceneWidth/2, SceneHeight/2)
	assert.InDelta(t, 500, cx, 1e-9)
	assert.InDelta(t, 300, cy, 1e-9)
}

func TestScreenWorldRoundTrip(t *testing.T) {
	tr := New(800, 600)
	tr.Zoom = 2.3
	tr.OffsetX, tr.OffsetY = -17, 42

	wx, wy := tr.ScreenToWorld(123, 456)
	sx, sy := tr.WorldToScreen(wx, wy)
	assert.InDelta(t, 123, sx, 1e-9)
	assert.InDelta(t, 456, sy, 1e-9)
}

func TestZoomAt_AnchorPreserved(t *testing.T) {
	pointers := [][2]float64{{0, 0}, {400, 300}, {731.5, 12.25}, {-50, 900}}
	deltas := []float64{-1, 1, -120, 3}

	for _, p := range pointers {
		for _, d := range deltas {
			tr := New(800, 600)
			tr.Zoom = 3
			tr.OffsetX, tr.OffsetY = 12, -40

			bx, by := tr.ScreenToWorld(p[0], p[1])
			require.True(t, tr.ZoomAt(p[0], p[1], d))
			ax, ay := tr.ScreenToWorld(p[0], p[1])

			assert.InDelta(t, bx, ax, 1e-9)
			assert.InDelta(t, by, ay, 1e-9)
		}
	}
}

func TestZoomAt_Direction(t *testing.T) {
	tr := New(800, 600)

	require.True(t, tr.ZoomAt(10, 10, -1))
	assert.InDelta(t, 2.3, tr.Zoom, 1e-12)

	require.True(t, tr.ZoomAt(10, 10, 5))
	assert.InDelta(t, 1.5, tr.Zoom, 1e-12)

	assert.False(t, tr.ZoomAt(10, 10, 0))
	assert.InDelta(t, 1.5, tr.Zoom, 1e-12)
}

func TestZoomAt_Floor(t *testing.T) {
	tr := New(800, 600)

	// 1.5 -> 0.7 is allowed, 0.7 -> -0.1 is rejected.
	require.True(t, tr.ZoomAt(100, 100, 1))
	before := *tr
	for i := 0; i < 5; i++ {
		assert.False(t, tr.ZoomAt(100, 100, 1))
	}
	assert.Equal(t, before, *tr)
	assert.GreaterOrEqual(t, tr.Zoom, DefaultMinZoom)
}

func TestZoomAt_SmallStepsStopAtFloor(t *testing.T) {
	tr := New(800, 600)
	tr.ZoomStep = 0.3

	for i := 0; i < 100; i++ {
		tr.ZoomAt(0, 0, 1)
		assert.GreaterOrEqual(t, tr.Zoom, DefaultMinZoom)
	}
	assert.InDelta(t, 0.3, tr.Zoom, 1e-9)
}

func TestDrag(t *testing.T) {
	tr := New(800, 600)
	x0, y0 := tr.OffsetX, tr.OffsetY

	assert.False(t, tr.DragTo(50, 50), "not dragging yet")
	assert.False(t, tr.BeginDrag(10, 10, false), "press off the canvas")
	assert.False(t, tr.Dragging())

	require.True(t, tr.BeginDrag(10, 10, true))
	require.True(t, tr.DragTo(15, 7))
	require.True(t, tr.DragTo(20, 7))
	assert.InDelta(t, x0+10, tr.OffsetX, 1e-12)
	assert.InDelta(t, y0-3, tr.OffsetY, 1e-12)

	tr.EndDrag()
	assert.False(t, tr.Dragging())
	assert.False(t, tr.DragTo(500, 500))
	assert.InDelta(t, x0+10, tr.OffsetX, 1e-12)
}

func TestGrab_FirstMoveHasZeroDelta(t *testing.T) {
	tr := New(800, 600)
	x0, y0 := tr.OffsetX, tr.OffsetY

	tr.Grab()
	require.True(t, tr.DragTo(300, 200))
	assert.Equal(t, x0, tr.OffsetX)
	assert.Equal(t, y0, tr.OffsetY)

	require.True(t, tr.DragTo(310, 190))
	assert.InDelta(t, x0+10, tr.OffsetX, 1e-12)
	assert.InDelta(t, y0-10, tr.OffsetY, 1e-12)
}

func TestFitAndResize(t *testing.T) {
	tr := New(100, 100)
	tr.Fit(800, 240)

	assert.InDelta(t, 0.95, tr.Zoom, 1e-12)
	cx, cy := tr.WorldToScreen(SceneWidth/2, SceneHeight/2)
	assert.InDelta(t, 400, cx, 1e-9)
	assert.InDelta(t, 120, cy, 1e-9)

	wx, wy := tr.ScreenToWorld(400, 120)
	tr.Resize(1000, 500)
	sx, sy := tr.WorldToScreen(wx, wy)
	assert.InDelta(t, 500, sx, 1e-9)
	assert.InDelta(t, 250, sy, 1e-9)
	w, h := tr.Size()
	assert.Equal(t, 1000.0, w)
	assert.Equal(t, 500.0, h)
}

func TestScaled(t *testing.T) {
	tr := New(200, 100)
	tr.Pan(7, -3)

	big := tr.Scaled(4)
	wx, wy := tr.ScreenToWorld(50, 25)
	bx, by := big.ScreenToWorld(200, 100)
	assert.InDelta(t, wx, bx, 1e-9)
	assert.InDelta(t, wy, by, 1e-9)
}

func TestReset(t *testing.T) {
	tr := New(800, 600)
	tr.Pan(100, 100)
	tr.Reset(2)

	assert.Equal(t, 2.0, tr.Zoom)
	cx, _ := tr.WorldToScreen(SceneWidth/2, 0)
	assert.InDelta(t, 400, cx, 1e-9)
}
