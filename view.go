package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stepscope/internal/render"
	"stepscope/internal/trace"
)

var (
	theme = render.DefaultTheme

	infoStyle     = lipgloss.NewStyle().Foreground(hexColor(theme.InfoFg)).Background(hexColor(theme.InfoBg))
	timelineStyle = lipgloss.NewStyle().Foreground(hexColor(theme.TimelineFg)).Background(hexColor(theme.TimelineBg))
	errorStyle    = lipgloss.NewStyle().Foreground(hexColor(theme.Warm03))
)

func hexColor(c render.RGB) lipgloss.Color { return lipgloss.Color(c.Hex()) }

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	var result strings.Builder
	result.WriteString(m.infoBar())
	result.WriteString("\n")

	if m.mode == ModeFileInput {
		result.WriteString(m.fileListView())
	} else {
		lines, err := m.renderCanvas()
		if err != nil && m.errorMessage == "" {
			m.errorMessage = err.Error()
		}
		result.WriteString(strings.Join(lines, "\n"))
	}
	result.WriteString("\n")
	result.WriteString(m.timelineBar())
	result.WriteString("\n")
	result.WriteString(m.statusLine())

	return result.String()
}

// infoBar shows the step name on the left and the counters on the right.
func (m model) infoBar() string {
	left, right := "stepscope", ""
	if m.session.Loaded() {
		st, _ := m.session.Step()
		left = st.Name
		right = m.session.Counters()
		if m.session.IsBookmarked(m.session.Index()) {
			right = bookmarkMark + " " + right
		}
	}
	if m.loading != "" {
		right = "loading " + filepath.Base(m.loading) + "..."
	}
	return infoStyle.Render(spread(" "+left, right+" ", m.width))
}

// spread pads left and right apart to fill width cells, truncating left when
// both do not fit.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		keep := width - lipgloss.Width(right) - 1
		if keep < 0 {
			keep = 0
		}
		runes := []rune(left)
		if len(runes) > keep {
			left = string(runes[:keep])
		}
		gap = width - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 0 {
			return left + right
		}
	}
	return left + strings.Repeat(" ", gap) + right
}

type timelineCell struct {
	step       int
	current    bool
	severity   trace.Severity
	bookmarked bool
}

// timelineCells folds the timeline window onto cols terminal cells. A cell
// covering several steps shows the worst severity among them.
func (m model) timelineCells(cols int) []timelineCell {
	bars := m.session.Timeline(m.timelineWindow())
	n := len(bars)
	if n == 0 || cols <= 0 {
		return nil
	}

	cells := make([]timelineCell, cols)
	for c := range cells {
		lo := c * n / cols
		hi := (c + 1) * n / cols
		if hi <= lo {
			hi = lo + 1
		}
		cell := timelineCell{step: bars[lo].Step}
		for _, b := range bars[lo:hi] {
			cell.current = cell.current || b.Current
			if b.Severity > cell.severity {
				cell.severity = b.Severity
			}
			if m.session.IsBookmarked(b.Step) {
				cell.bookmarked = true
			}
		}
		cells[c] = cell
	}
	return cells
}

func (m model) timelineWindow() int {
	if m.config == nil {
		return 0
	}
	return m.config.Window
}

// timelineStepAt returns the first step under timeline column x.
func (m model) timelineStepAt(x int) (int, bool) {
	cells := m.timelineCells(m.width)
	if x < 0 || x >= len(cells) {
		return 0, false
	}
	return cells[x].step, true
}

func (m model) timelineBar() string {
	cells := m.timelineCells(m.width)
	if len(cells) == 0 {
		return timelineStyle.Render(strings.Repeat(" ", max(m.width, 0)))
	}

	var b strings.Builder
	for _, c := range cells {
		glyph := "▁"
		if c.current || c.severity != trace.SeverityNone {
			glyph = "█"
		}
		if c.bookmarked && !c.current {
			glyph = bookmarkMark
		}
		fg := theme.Bar(c.current, c.severity)
		if fg == theme.TimelineBg {
			fg = theme.TimelineFg
		}
		b.WriteString(timelineStyle.Foreground(hexColor(fg)).Render(glyph))
	}
	return b.String()
}

func (m model) statusLine() string {
	if m.mode == ModeGoTo {
		return fmt.Sprintf("Mode: %s | Go to step: %s", m.modeString(), m.input.View())
	}
	if m.mode == ModeFileInput {
		return fmt.Sprintf("Mode: %s | Open: %s", m.modeString(), m.input.View())
	}

	status := fmt.Sprintf("Mode: %s", m.modeString())
	c := m.session.Controls()
	if c.Loaded {
		status += fmt.Sprintf(" | Step: %d/%d", c.Slider.Value, c.Slider.Max)
		status += fmt.Sprintf(" | Zoom: %.2f", m.session.View().Zoom)
		var toggles []string
		for _, t := range c.Toggles {
			if t.On {
				toggles = append(toggles, t.Name)
			}
		}
		if len(toggles) > 0 {
			status += " | " + strings.Join(toggles, ", ")
		}
		if c.Bookmarks {
			status += fmt.Sprintf(" | Bookmarks: %d", len(m.session.Bookmarked()))
		}
	}
	if m.successMessage != "" {
		status += fmt.Sprintf(" | %s", m.successMessage)
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" {
		status += " | " + m.helpModel.ShortHelpView(m.keys.ShortHelp())
	}
	return status
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModePan:
		return "PAN"
	case ModeGoTo:
		return "GOTO"
	case ModeFileInput:
		return "FILE"
	default:
		return "UNKNOWN"
	}
}

// fileListView replaces the canvas while picking a trace to open.
func (m model) fileListView() string {
	_, rows := m.canvasSize()
	var lines []string
	lines = append(lines, "Select a trace:")
	lines = append(lines, strings.Repeat("─", max(m.width, 1)))

	if len(m.fileList) == 0 {
		lines = append(lines, fmt.Sprintf("(No files matching %s in current directory)",
			strings.Join(m.config.FilePatterns, ", ")))
	} else {
		maxFiles := rows - 2
		if maxFiles < 1 {
			maxFiles = 1
		}
		startIdx := 0
		if m.selectedFileIndex >= maxFiles {
			startIdx = m.selectedFileIndex - maxFiles + 1
		}
		endIdx := min(startIdx+maxFiles, len(m.fileList))
		for i := startIdx; i < endIdx; i++ {
			if i == m.selectedFileIndex {
				lines = append(lines, "> "+m.fileList[i]+" <")
			} else {
				lines = append(lines, "  "+m.fileList[i])
			}
		}
	}

	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines[:rows], "\n")
}

func (m model) helpLines() []string {
	lines := []string{
		"stepscope help",
		"==============",
		"",
	}
	sections := []string{"Playback:", "View:", "Traces:"}
	for i, group := range m.keys.FullHelp() {
		lines = append(lines, sections[i], strings.Repeat("-", len(sections[i])))
		for _, b := range group {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-16s %s", h.Key, h.Desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		"Pan Mode:",
		"---------",
		"  h/j/k/l          Move the view",
		"  Shift+h/j/k/l    Move the view 2x faster",
		"  Esc/z            Back to normal mode",
		"",
		"Mouse:",
		"------",
		"  wheel            Zoom at the pointer",
		"  drag             Pan the canvas",
		"  click timeline   Go to that step",
	)
	return lines
}

func (m model) helpView() string {
	helpLines := m.helpLines()

	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	startLine := m.helpScroll
	if startLine > len(helpLines)-visibleHeight {
		startLine = max(len(helpLines)-visibleHeight, 0)
	}
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}
