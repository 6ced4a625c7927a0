package main

import tea "github.com/charmbracelet/bubbletea"

// handlePan moves the view in pan mode. Keys name the direction the viewport
// moves, so the scene slides the other way.
func (m *model) handlePan(key string, speed int) {
	v := m.session.View()
	dx := float64(panStep*speed) * m.cellScale()
	dy := dx * 2
	switch key {
	case "h", "left", "H", "shift+left":
		v.Pan(dx, 0)
	case "l", "right", "L", "shift+right":
		v.Pan(-dx, 0)
	case "k", "up", "K", "shift+up":
		v.Pan(0, dy)
	case "j", "down", "J", "shift+down":
		v.Pan(0, -dy)
	}
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// handleMouse zooms with the wheel at the pointer, pans with a left drag that
// starts on the canvas and seeks with a click on the timeline.
func (m *model) handleMouse(msg tea.MouseMsg) {
	v := m.session.View()
	x, y := m.cellToView(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if m.onCanvas(msg.X, msg.Y) {
				v.ZoomAt(x, y, -1)
			}
		case tea.MouseButtonWheelDown:
			if m.onCanvas(msg.X, msg.Y) {
				v.ZoomAt(x, y, 1)
			}
		case tea.MouseButtonLeft:
			if msg.Y == m.timelineRow() {
				if step, ok := m.timelineStepAt(msg.X); ok {
					m.session.Seek(step)
				}
				return
			}
			v.BeginDrag(x, y, m.onCanvas(msg.X, msg.Y))
		}
	case tea.MouseActionMotion:
		v.DragTo(x, y)
	case tea.MouseActionRelease:
		v.EndDrag()
	}
}
