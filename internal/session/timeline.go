package session

import "stepscope/internal/render"

// TimelineWindow returns the half-open step range [start, end) shown on a
// timeline of at most window bars: window steps centred on the cursor,
// shifted to stay inside the trace. It is empty when nothing is loaded.
func (s *Session) TimelineWindow(window int) (start, end int) {
	if s.cursor == nil || window <= 0 {
		return 0, 0
	}
	n := s.trace.Len()
	if window >= n {
		return 0, n
	}
	start = s.cursor.Index() - window/2
	if start < 0 {
		start = 0
	}
	if start > n-window {
		start = n - window
	}
	return start, start + window
}

// Timeline returns one bar per step in TimelineWindow(window).
func (s *Session) Timeline(window int) []render.TimelineBar {
	start, end := s.TimelineWindow(window)
	if end <= start {
		return nil
	}
	cur := s.cursor.Index()
	bars := make([]render.TimelineBar, 0, end-start)
	for i := start; i < end; i++ {
		bars = append(bars, render.TimelineBar{
			Step:     i,
			Current:  i == cur,
			Severity: s.trace.Steps[i].Severity(),
		})
	}
	return bars
}
