package main

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// The canvas is drawn with upper half blocks: each terminal cell is two
// pixels stacked vertically, the top one in the foreground colour and the
// bottom one in the background colour. The scene is laid out in view pixels,
// cellScale of them per terminal pixel, so zoom and labels behave as they do
// in an exported image.

func (m model) cellScale() float64 {
	if m.config == nil || m.config.CellScale <= 0 {
		return 4
	}
	return m.config.CellScale
}

// canvasSize returns the canvas area in terminal cells.
func (m model) canvasSize() (cols, rows int) {
	cols = m.width
	if cols < 1 {
		cols = 1
	}
	rows = m.height - chromeRows
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// viewSize is the canvas size in view pixels.
func (m model) viewSize() (float64, float64) {
	cols, rows := m.canvasSize()
	k := m.cellScale()
	return float64(cols) * k, float64(rows*2) * k
}

func (m model) onCanvas(x, y int) bool {
	cols, rows := m.canvasSize()
	return x >= 0 && x < cols && y >= infoRows && y < infoRows+rows
}

// cellToView maps a terminal cell to the view pixel at its centre.
func (m model) cellToView(x, y int) (float64, float64) {
	k := m.cellScale()
	return (float64(x) + 0.5) * k, (float64(y-infoRows)*2 + 1) * k
}

func (m model) timelineRow() int {
	_, rows := m.canvasSize()
	return infoRows + rows
}

// renderCanvas rasterises the current frame into terminal lines.
func (m model) renderCanvas() ([]string, error) {
	cols, rows := m.canvasSize()
	f := m.session.Frame(false)
	f.Scale = 1 / m.cellScale()

	supersample := 1
	if m.config != nil {
		supersample = m.config.Supersample
	}
	img, err := m.renderer.Rasterize(f, cols, rows*2, supersample)
	if img == nil {
		lines := make([]string, rows)
		for i := range lines {
			lines[i] = strings.Repeat(" ", cols)
		}
		return lines, err
	}
	return halfBlocks(img, cols, rows), err
}

// halfBlocks converts img into rows lines of cols cells. Runs of cells with
// the same colours share one style.
func halfBlocks(img image.Image, cols, rows int) []string {
	b := img.Bounds()
	lines := make([]string, rows)

	for y := 0; y < rows; y++ {
		var line, run strings.Builder
		var fg, bg string
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(fg)).
				Background(lipgloss.Color(bg))
			line.WriteString(style.Render(run.String()))
			run.Reset()
		}

		for x := 0; x < cols; x++ {
			top := hexAt(img, b.Min.X+x, b.Min.Y+2*y)
			bottom := hexAt(img, b.Min.X+x, b.Min.Y+2*y+1)
			if top != fg || bottom != bg {
				flush()
				fg, bg = top, bottom
			}
			run.WriteString(upperHalfBlock)
		}
		flush()
		lines[y] = line.String()
	}
	return lines
}

// hexAt returns the colour at (x, y) as #rrggbb. Points outside the image are
// black.
func hexAt(img image.Image, x, y int) string {
	if !(image.Point{x, y}.In(img.Bounds())) {
		return "#000000"
	}
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
