package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"stepscope/internal/session"
	"stepscope/internal/trace"
)

const clipboardSource = "clipboard"

func loadFileCmd(path string, tags trace.TagTable) tea.Cmd {
	return func() tea.Msg {
		tr, err := session.ReadTrace(path, tags)
		if err != nil {
			return traceFailedMsg{source: path, err: err}
		}
		return traceLoadedMsg{source: path, trace: tr}
	}
}

func pasteCmd(tags trace.TagTable) tea.Cmd {
	return func() tea.Msg {
		text, err := readClipboardText()
		if err != nil {
			return traceFailedMsg{source: clipboardSource, err: fmt.Errorf("failed to read clipboard: %w", err)}
		}
		tr, err := session.ParseTrace(clipboardSource, []byte(text), tags)
		if err != nil {
			return traceFailedMsg{source: clipboardSource, err: err}
		}
		return traceLoadedMsg{source: clipboardSource, trace: tr}
	}
}

func (m model) Init() tea.Cmd {
	if m.initialFile == "" {
		return nil
	}
	return loadFileCmd(m.initialFile, m.session.Tags())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpModel.Width = msg.Width
		m.input.Width = max(msg.Width-30, 10)
		w, h := m.viewSize()
		m.session.View().Resize(w, h)
		if !m.sized {
			m.sized = true
			m.session.ResetView()
		}
		return m, nil

	case traceLoadedMsg:
		m.loading = ""
		if err := m.session.Install(msg.source, msg.trace); err != nil {
			m.errorMessage = m.session.Reject(msg.source, err)
			return m, nil
		}
		m.keys.setBookmarks(m.session.BookmarksEnabled())
		m.errorMessage = ""
		m.successMessage = fmt.Sprintf("Loaded %s (%d steps, %d collisions)",
			filepath.Base(msg.source), msg.trace.Len(), msg.trace.CollisionCount())
		return m, nil

	case traceFailedMsg:
		m.loading = ""
		m.successMessage = ""
		m.errorMessage = m.session.Reject(msg.source, msg.err)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Int("written", msg.count).Msg("Export failed")
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.log.Info().Str("path", msg.path).Int("images", msg.count).Msg("Exported")
		if msg.count == 1 {
			m.successMessage = "Exported " + msg.path
		} else {
			m.successMessage = fmt.Sprintf("Exported %d images to %s", msg.count, filepath.Dir(msg.path))
		}
		return m, nil

	case tea.MouseMsg:
		if m.help || m.mode == ModeFileInput || m.mode == ModeGoTo {
			return m, nil
		}
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		m.errorMessage = ""
		m.successMessage = ""
		if m.help {
			return m.handleHelpKey(msg), nil
		}
		switch m.mode {
		case ModeGoTo:
			return m.handleGoToKey(msg)
		case ModeFileInput:
			return m.handleFileInputKey(msg)
		case ModePan:
			if done := m.handlePanKey(msg); done {
				return m, nil
			}
		}
		return m.handleNormalKey(msg)
	}
	return m, nil
}

func (m model) handleHelpKey(msg tea.KeyMsg) model {
	switch msg.String() {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(m.helpLines())-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
	return m
}

// handlePanKey consumes the keys pan mode owns. Anything else falls through
// to the normal bindings.
func (m *model) handlePanKey(msg tea.KeyMsg) bool {
	k := msg.String()
	switch k {
	case "esc", "z":
		m.mode = ModeNormal
		m.session.View().EndDrag()
		return true
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		m.handlePan(k, m.getMoveSpeed(k))
		return true
	}
	return false
}

func (m model) handleGoToKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = ModeNormal
		m.input.Blur()
		value := strings.TrimSpace(m.input.Value())
		step, err := strconv.Atoi(value)
		if err != nil {
			m.errorMessage = fmt.Sprintf("Not a step number: %q", value)
			return m, nil
		}
		m.session.Seek(step)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyUp, tea.KeyDown:
		if len(m.fileList) == 0 {
			return m, nil
		}
		if msg.Type == tea.KeyUp && m.selectedFileIndex > 0 {
			m.selectedFileIndex--
		} else if msg.Type == tea.KeyDown && m.selectedFileIndex < len(m.fileList)-1 {
			m.selectedFileIndex++
		}
		m.input.SetValue(m.fileList[m.selectedFileIndex])
		m.input.CursorEnd()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.input.Value())
		if path == "" {
			m.errorMessage = "No file selected"
			return m, nil
		}
		path = expandHome(path)
		m.mode = ModeNormal
		m.input.Blur()
		m.loading = path
		return m, loadFileCmd(path, m.session.Tags())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help = true
		m.helpScroll = 0

	case key.Matches(msg, k.Prev):
		s.Prev()
	case key.Matches(msg, k.Next):
		s.Next()
	case key.Matches(msg, k.FastBackward):
		s.FastBackward()
	case key.Matches(msg, k.FastForward):
		s.FastForward()
	case key.Matches(msg, k.PrevCollision):
		if s.Loaded() && !s.PrevCollision() {
			m.successMessage = "No earlier collision"
		}
	case key.Matches(msg, k.NextCollision):
		if s.Loaded() && !s.NextCollision() {
			m.successMessage = "No later collision"
		}
	case key.Matches(msg, k.First):
		s.First()
	case key.Matches(msg, k.Last):
		s.Last()
	case key.Matches(msg, k.GoTo):
		if !s.Loaded() {
			m.errorMessage = "No trace loaded"
			break
		}
		m.mode = ModeGoTo
		m.input.Reset()
		m.input.Placeholder = fmt.Sprintf("0-%d", s.Trace().Len()-1)
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, k.Back):
		s.Back()
	case key.Matches(msg, k.Forward):
		s.Forward()

	case key.Matches(msg, k.Pan):
		m.mode = ModePan
	case key.Matches(msg, k.ZoomIn):
		s.View().ZoomCenter(-1)
	case key.Matches(msg, k.ZoomOut):
		if !s.View().ZoomCenter(1) {
			m.successMessage = "Minimum zoom"
		}
	case key.Matches(msg, k.ResetView):
		s.ResetView()

	case key.Matches(msg, k.ExtraInfo):
		m.successMessage = fmt.Sprintf("Extra info: %s", onOff(s.ToggleExtraInfo()))
	case key.Matches(msg, k.Cam):
		m.successMessage = fmt.Sprintf("Cam data: %s", onOff(s.ToggleCam()))
	case key.Matches(msg, k.Labels):
		m.successMessage = fmt.Sprintf("Labels: %s", onOff(s.ToggleLabels()))

	case key.Matches(msg, k.Bookmark):
		on, err := s.ToggleBookmark()
		if err != nil {
			m.log.Warn().Err(err).Msg("Failed to toggle bookmark")
			m.errorMessage = err.Error()
			break
		}
		if on {
			m.successMessage = fmt.Sprintf("Bookmarked step %d", s.Index())
		} else {
			m.successMessage = fmt.Sprintf("Removed bookmark at step %d", s.Index())
		}
	case key.Matches(msg, k.NextBookmark):
		if !s.NextBookmark() {
			m.successMessage = "No later bookmark"
		}
	case key.Matches(msg, k.PrevBookmark):
		if !s.PrevBookmark() {
			m.successMessage = "No earlier bookmark"
		}

	case key.Matches(msg, k.Open):
		m.mode = ModeFileInput
		m.input.Reset()
		m.input.Placeholder = "path to a physics-steps.js"
		m.scanFiles()
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, k.Paste):
		m.loading = clipboardSource
		return m, pasteCmd(s.Tags())
	case key.Matches(msg, k.Copy):
		if !s.Loaded() {
			m.errorMessage = "No trace loaded"
			break
		}
		if err := writeClipboardText(s.StepInfo()); err != nil {
			m.errorMessage = fmt.Sprintf("Failed to copy: %v", err)
			break
		}
		m.successMessage = "Copied step info"
	case key.Matches(msg, k.Export):
		cmd := m.exportCurrent()
		return m, cmd
	case key.Matches(msg, k.ExportCollisions):
		cmd := m.exportCollisions()
		return m, cmd
	}
	return m, nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
