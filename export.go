package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"stepscope/internal/render"
)

type exportJob struct {
	path  string
	frame render.Frame
}

// exportName builds the file name for one exported step.
func exportName(source string, step int) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "trace"
	}
	return fmt.Sprintf("%s-step%05d.png", base, step)
}

// runExport writes every job with its own renderer, so it can run beside the
// one drawing the terminal. It returns how many images were written.
func runExport(jobs []exportJob, width, height, supersample int) (int, error) {
	r := render.New()
	for i, job := range jobs {
		if err := r.ExportPNG(job.path, job.frame, width, height, supersample); err != nil {
			return i, fmt.Errorf("failed to export %s: %w", job.path, err)
		}
	}
	return len(jobs), nil
}

func exportCmd(jobs []exportJob, width, height, supersample int) tea.Cmd {
	return func() tea.Msg {
		n, err := runExport(jobs, width, height, supersample)
		msg := exportDoneMsg{count: n, err: err}
		if len(jobs) > 0 {
			msg.path = jobs[len(jobs)-1].path
		}
		return msg
	}
}

// exportSize fits the canvas into the configured export size, keeping its
// aspect ratio. scale converts view pixels to image pixels.
func (m *model) exportSize() (width, height int, scale float64) {
	vw, vh := m.viewSize()
	scale = math.Min(float64(m.config.ExportWidth)/vw, float64(m.config.ExportHeight)/vh)
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	width = max(int(math.Round(vw*scale)), 1)
	height = max(int(math.Round(vh*scale)), 1)
	return width, height, scale
}

func (m *model) exportCurrent() tea.Cmd {
	if !m.session.Loaded() {
		m.errorMessage = "No trace loaded"
		return nil
	}
	w, h, k := m.exportSize()
	f := m.session.Frame(true)
	f.Scale = k
	path := m.config.GetSavePath(exportName(m.session.Source(), m.session.Index()))
	return exportCmd([]exportJob{{path: path, frame: f}}, w, h, m.config.Supersample)
}

func (m *model) exportCollisions() tea.Cmd {
	if !m.session.Loaded() {
		m.errorMessage = "No trace loaded"
		return nil
	}
	steps := m.session.Trace().Collisions
	if len(steps) == 0 {
		m.errorMessage = "Trace has no collisions"
		return nil
	}
	w, h, k := m.exportSize()
	jobs := collisionJobs(m.config, m.session.Source(), steps, m.session.FramesAt(steps, true))
	for i := range jobs {
		jobs[i].frame.Scale = k
	}
	return exportCmd(jobs, w, h, m.config.Supersample)
}

func collisionJobs(cfg *Config, source string, steps []int, frames []render.Frame) []exportJob {
	jobs := make([]exportJob, 0, len(frames))
	for i, f := range frames {
		jobs = append(jobs, exportJob{
			path:  cfg.GetSavePath(exportName(source, steps[i])),
			frame: f,
		})
	}
	return jobs
}
