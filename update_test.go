package main

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stepscope/internal/session"
	"stepscope/internal/trace"
)

func testConfig() *Config {
	return &Config{
		Zoom:         1.5,
		ZoomStep:     0.8,
		MinZoom:      0.01,
		CellScale:    4,
		Supersample:  1,
		Labels:       true,
		Cam:          true,
		ShapeTable:   "current",
		ExportWidth:  320,
		ExportHeight: 200,
		FastStep:     10,
		Window:       300,
		FilePatterns: []string{"*.js", "*.json"},
	}
}

// testTrace returns an n-step trace with a collision at each of collisions.
func testTrace(t *testing.T, n int, collisions ...int) *trace.Trace {
	t.Helper()
	r := 4.0
	hit := map[int]bool{}
	for _, c := range collisions {
		hit[c] = true
	}
	data := trace.Data{Hash: uint64(n)}
	for i := 0; i < n; i++ {
		sd := trace.StepData{
			Name: fmt.Sprintf("step %d", i),
			Ball: &trace.BodyData{
				Type:  trace.ShapeType{ID: 1},
				Shape: trace.ShapeData{R: &r},
				Pos:   trace.Vec2{200, 120},
				Vel:   trace.Vec2{1, 0},
			},
		}
		if hit[i] {
			sd.Collisions = []trace.CollisionData{{
				Manifold: trace.Manifold{Depth: 1, Contact: trace.Vec2{204, 120}, Normal: trace.Vec2{-1, 0}},
				Body:     trace.BodyData{Type: trace.ShapeType{ID: 1}, Shape: trace.ShapeData{R: &r}, Pos: trace.Vec2{210, 120}},
			}}
		}
		data.Steps = append(data.Steps, sd)
	}
	tr, err := trace.Load(data, trace.Options{Tags: trace.CurrentTags})
	require.NoError(t, err)
	return tr
}

func newTestModel(t *testing.T) model {
	t.Helper()
	cfg := testConfig()
	sc, err := cfg.Session()
	require.NoError(t, err)
	return newModel(cfg, session.New(sc, 0, 0, nil, zerolog.Nop()), zerolog.Nop(), "")
}

func update(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedModel is an 80x23 terminal with a 10-step trace colliding at 2 and 7.
func loadedModel(t *testing.T) model {
	t.Helper()
	return update(t, newTestModel(t),
		tea.WindowSizeMsg{Width: 80, Height: 23},
		traceLoadedMsg{source: "/tmp/run.js", trace: testTrace(t, 10, 2, 7)},
	)
}

func TestUpdate_WindowSizeLaysOutView(t *testing.T) {
	m := update(t, newTestModel(t), tea.WindowSizeMsg{Width: 80, Height: 23})

	cols, rows := m.canvasSize()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 20, rows)

	w, h := m.session.View().Size()
	assert.Equal(t, 320.0, w)
	assert.Equal(t, 160.0, h)
	assert.Equal(t, 1.5, m.session.View().Zoom)
	assert.InDelta(t, (320-400*1.5)/2, m.session.View().OffsetX, 1e-9)
	assert.InDelta(t, (160-240*1.5)/2, m.session.View().OffsetY, 1e-9)
}

func TestUpdate_ResizeKeepsView(t *testing.T) {
	m := loadedModel(t)
	m.session.View().Pan(12, 0)
	zoom := m.session.View().Zoom

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 23})

	assert.Equal(t, zoom, m.session.View().Zoom)
	w, _ := m.session.View().Size()
	assert.Equal(t, 400.0, w)
}

func TestUpdate_TraceLoaded(t *testing.T) {
	m := loadedModel(t)

	require.True(t, m.session.Loaded())
	assert.Equal(t, 2, m.session.Index(), "starts on the first collision")
	assert.Equal(t, "Loaded run.js (10 steps, 2 collisions)", m.successMessage)
	assert.Empty(t, m.loading)
}

func TestUpdate_TraceFailedKeepsTrace(t *testing.T) {
	m := loadedModel(t)

	m = update(t, m, traceFailedMsg{source: "empty.js", err: trace.ErrEmptyTrace})

	assert.Equal(t, "Trace has no steps", m.errorMessage)
	assert.Equal(t, "/tmp/run.js", m.session.Source())
}

func TestUpdate_Navigation(t *testing.T) {
	m := loadedModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 3, m.session.Index())

	m = update(t, m, runes("h"))
	assert.Equal(t, 2, m.session.Index())

	m = update(t, m, runes("]"))
	assert.Equal(t, 7, m.session.Index())

	m = update(t, m, runes("]"))
	assert.Equal(t, 7, m.session.Index())
	assert.Equal(t, "No later collision", m.successMessage)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.session.Index())

	m = update(t, m, runes("u"))
	assert.Equal(t, 7, m.session.Index(), "jump back undoes home")

	m = update(t, m, runes("L"))
	assert.Equal(t, 9, m.session.Index(), "fast scrub clamps to the end")
}

func TestUpdate_GoTo(t *testing.T) {
	m := loadedModel(t)

	m = update(t, m, runes("g"))
	require.Equal(t, ModeGoTo, m.mode)
	assert.Contains(t, m.statusLine(), "Go to step")

	m = update(t, m, runes("5"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 5, m.session.Index())

	m = update(t, m, runes("g"), runes("x"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 5, m.session.Index())
	assert.Contains(t, m.errorMessage, "Not a step number")
}

func TestUpdate_GoToNeedsTrace(t *testing.T) {
	m := update(t, newTestModel(t), tea.WindowSizeMsg{Width: 80, Height: 23}, runes("g"))

	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "No trace loaded", m.errorMessage)
}

func TestUpdate_Toggles(t *testing.T) {
	m := loadedModel(t)

	m = update(t, m, runes("x"))
	assert.True(t, m.session.Options().ExtraInfo)
	assert.Equal(t, "Extra info: on", m.successMessage)

	m = update(t, m, runes("c"))
	assert.False(t, m.session.Options().Cam)

	m = update(t, m, runes("t"))
	assert.False(t, m.session.Options().Labels)
	assert.Equal(t, "Labels: off", m.successMessage)
}

func TestUpdate_KeyboardZoom(t *testing.T) {
	m := loadedModel(t)

	m = update(t, m, runes("+"))
	assert.InDelta(t, 2.3, m.session.View().Zoom, 1e-9)

	m = update(t, m, runes("-"), runes("-"))
	assert.InDelta(t, 0.7, m.session.View().Zoom, 1e-9)

	m = update(t, m, runes("0"))
	assert.Equal(t, 1.5, m.session.View().Zoom)
}

func TestUpdate_PanMode(t *testing.T) {
	m := loadedModel(t)
	x0 := m.session.View().OffsetX
	y0 := m.session.View().OffsetY

	m = update(t, m, runes("z"))
	require.Equal(t, ModePan, m.mode)

	m = update(t, m, runes("h"))
	assert.Equal(t, x0+panStep*4, m.session.View().OffsetX)
	assert.Equal(t, 2, m.session.Index(), "h pans instead of stepping")

	m = update(t, m, runes("J"))
	assert.Equal(t, y0-panStep*2*4*2, m.session.View().OffsetY)

	m = update(t, m, runes("]"))
	assert.Equal(t, 7, m.session.Index(), "other keys still work")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeNormal, m.mode)
}

func TestUpdate_MouseWheelZoomsAtPointer(t *testing.T) {
	m := loadedModel(t)
	v := m.session.View()
	px, py := m.cellToView(10, 5)
	wx, wy := v.ScreenToWorld(px, py)

	m = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})

	assert.InDelta(t, 2.3, v.Zoom, 1e-9)
	gx, gy := v.ScreenToWorld(px, py)
	assert.InDelta(t, wx, gx, 1e-9)
	assert.InDelta(t, wy, gy, 1e-9)

	update(t, m, tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.InDelta(t, 2.3, v.Zoom, 1e-9, "wheel over the info bar is ignored")
}

func TestUpdate_MouseDragPansCanvasOnly(t *testing.T) {
	m := loadedModel(t)
	v := m.session.View()
	x0 := v.OffsetX

	m = update(t, m,
		tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 13, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 13, Y: 5, Action: tea.MouseActionRelease},
	)
	assert.Equal(t, x0+3*4, v.OffsetX)
	assert.False(t, v.Dragging())

	update(t, m,
		tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 20, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
	)
	assert.Equal(t, x0+3*4, v.OffsetX, "drag from the info bar does not pan")
}

func TestUpdate_TimelineClickSeeks(t *testing.T) {
	m := loadedModel(t)
	row := m.timelineRow()
	require.Equal(t, 21, row)

	m = update(t, m, tea.MouseMsg{X: 40, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 5, m.session.Index())

	m = update(t, m, tea.MouseMsg{X: 79, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 9, m.session.Index())
	assert.False(t, m.session.View().Dragging())
}

func TestUpdate_Help(t *testing.T) {
	m := loadedModel(t)

	m = update(t, m, runes("?"))
	require.True(t, m.help)
	assert.Contains(t, m.View(), "stepscope help")

	m = update(t, m, runes("j"))
	assert.Equal(t, 1, m.helpScroll)

	m = update(t, m, runes("]"))
	assert.Equal(t, 2, m.session.Index(), "keys do not reach the viewer while help is open")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.help)
}

func TestUpdate_BookmarksDisabledWithoutStore(t *testing.T) {
	m := loadedModel(t)

	assert.False(t, m.keys.Bookmark.Enabled())
	m = update(t, m, runes("m"))
	assert.Empty(t, m.errorMessage)
	assert.NotContains(t, strings.Join(m.helpLines(), "\n"), "toggle bookmark")
}

func TestUpdate_Quit(t *testing.T) {
	_, cmd := newTestModel(t).Update(runes("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_Layout(t *testing.T) {
	m := loadedModel(t)

	out := m.View()

	assert.Equal(t, 23, strings.Count(out, "\n")+1)
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[0], "step 2")
	assert.Contains(t, lines[0], "frame: 0 physics: 0 step: 2")
	assert.Contains(t, lines[1], upperHalfBlock)
	assert.Contains(t, lines[22], "Mode: NORMAL")
	assert.Contains(t, lines[22], "Step: 2/9")
}

func TestView_Empty(t *testing.T) {
	m := update(t, newTestModel(t), tea.WindowSizeMsg{Width: 60, Height: 10})

	out := m.View()

	assert.Equal(t, 10, strings.Count(out, "\n")+1)
	assert.Contains(t, out, "stepscope")
	assert.NotContains(t, out, "Step:")
}

func TestTimelineCells(t *testing.T) {
	m := loadedModel(t)

	cells := m.timelineCells(5)
	require.Len(t, cells, 5)
	assert.Equal(t, []int{0, 2, 4, 6, 8}, []int{cells[0].step, cells[1].step, cells[2].step, cells[3].step, cells[4].step})
	assert.True(t, cells[1].current)
	assert.Equal(t, trace.SeverityContact, cells[1].severity)
	assert.Equal(t, trace.SeverityContact, cells[3].severity)
	assert.Equal(t, trace.SeverityNone, cells[0].severity)

	wide := m.timelineCells(20)
	require.Len(t, wide, 20)
	assert.Equal(t, 0, wide[0].step)
	assert.Equal(t, 0, wide[1].step)
	assert.Equal(t, 9, wide[19].step)
}

func TestSpread(t *testing.T) {
	assert.Equal(t, "ab    cd", spread("ab", "cd", 8))
	assert.Equal(t, "abc cd", spread("abcdef", "cd", 6))
	assert.Equal(t, " cd", spread("ab", "cd", 3))
}
