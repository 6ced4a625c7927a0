// Package session holds everything a viewer needs between events: the loaded
// trace, the playback cursor, the view transform, display toggles, bookmarks
// and jump history. A Session is owned by one goroutine.
package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"stepscope/internal/decode"
	"stepscope/internal/playback"
	"stepscope/internal/render"
	"stepscope/internal/store"
	"stepscope/internal/trace"
	"stepscope/internal/view"
)

// DefaultWindow is the number of steps the timeline shows around the cursor.
const DefaultWindow = 300

// Bookmarks persists bookmarked steps per recording hash.
type Bookmarks interface {
	Toggle(hash uint64, step int, note string) (bool, error)
	List(hash uint64) ([]int, error)
}

type Config struct {
	Tags trace.TagTable

	// Initial view: fit the scene to the viewport, or use Zoom.
	Fit      bool
	Zoom     float64
	ZoomStep float64
	MinZoom  float64

	FastStep int
	Window   int
	Options  render.Options
}

// DefaultConfig matches the desktop viewer: fixed zoom, collision
// annotations on, camera overlay on.
func DefaultConfig() Config {
	return Config{
		Tags:     trace.CurrentTags,
		Zoom:     view.DefaultZoom,
		ZoomStep: view.DefaultZoomStep,
		MinZoom:  view.DefaultMinZoom,
		FastStep: 10,
		Window:   DefaultWindow,
		Options:  render.Options{Cam: true, Labels: true},
	}
}

type Session struct {
	cfg   Config
	log   zerolog.Logger
	marks Bookmarks

	source string
	trace  *trace.Trace
	cursor *playback.Cursor
	view   *view.Transform
	opts   render.Options

	history   history
	bookmarks []int
}

// New returns an empty session for a width x height viewport. marks may be
// nil to run without bookmarks.
func New(cfg Config, width, height float64, marks Bookmarks, log zerolog.Logger) *Session {
	if cfg.FastStep <= 0 {
		cfg.FastStep = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	s := &Session{
		cfg:   cfg,
		log:   log,
		marks: marks,
		view:  view.New(width, height),
		opts:  cfg.Options,
	}
	if cfg.ZoomStep > 0 {
		s.view.ZoomStep = cfg.ZoomStep
	}
	if cfg.MinZoom > 0 {
		s.view.MinZoom = cfg.MinZoom
	}
	s.ResetView()
	return s
}

func (s *Session) Loaded() bool { return s.trace != nil }

// Trace returns the loaded trace or nil.
func (s *Session) Trace() *trace.Trace { return s.trace }

// Cursor returns the playback cursor or nil when nothing is loaded.
func (s *Session) Cursor() *playback.Cursor { return s.cursor }

func (s *Session) View() *view.Transform { return s.view }

// Source names where the loaded trace came from.
func (s *Session) Source() string { return s.source }

func (s *Session) Tags() trace.TagTable { return s.cfg.Tags }

// Install replaces the loaded trace, cursor, history and bookmarks in one
// step. A nil or empty trace is rejected and the previous one stays active.
func (s *Session) Install(source string, tr *trace.Trace) error {
	if tr == nil || tr.Len() == 0 {
		return trace.ErrEmptyTrace
	}

	s.source = source
	s.trace = tr
	s.cursor = playback.New(tr.Len(), tr.Collisions)
	s.history.reset()
	s.loadBookmarks()

	sum := trace.Summarize(tr)
	names := zerolog.Dict()
	for _, name := range sum.Names.Keys() {
		n, _ := sum.Names.Get(name)
		names.Int(name, n)
	}
	s.log.Info().
		Str("source", source).
		Str("hash", store.HashKey(tr.Hash)).
		Int("steps", sum.Steps).
		Int("staticBodies", sum.StaticBodies).
		Int("frames", sum.Frames).
		Int("collisions", sum.Collisions).
		Int("collisionSteps", sum.CollisionSteps).
		Dict("names", names).
		Msg("Trace loaded")
	return nil
}

// Reject logs a failed load and returns the message to show the user. The
// loaded trace is not touched.
func (s *Session) Reject(source string, err error) string {
	s.log.Warn().Err(err).Str("source", source).Msg("Failed to load trace")

	var derr *decode.Error
	var perr *trace.ParseError
	switch {
	case errors.Is(err, trace.ErrEmptyTrace):
		return "Trace has no steps"
	case errors.As(err, &derr):
		return fmt.Sprintf("Could not read %s: %v", source, derr.Err)
	case errors.As(err, &perr):
		return fmt.Sprintf("Invalid trace: %v", perr)
	}
	return fmt.Sprintf("Load failed: %v", err)
}

func (s *Session) loadBookmarks() {
	s.bookmarks = nil
	if s.marks == nil {
		return
	}
	steps, err := s.marks.List(s.trace.Hash)
	if err != nil {
		if errors.Is(err, store.ErrDisabled) {
			s.marks = nil
		} else {
			s.log.Warn().Err(err).Msg("Failed to read bookmarks")
		}
		return
	}
	s.bookmarks = steps
}

// Index is the cursor position, or -1 when nothing is loaded.
func (s *Session) Index() int {
	if s.cursor == nil {
		return -1
	}
	return s.cursor.Index()
}

// Step returns the step under the cursor.
func (s *Session) Step() (*trace.Step, bool) {
	if s.cursor == nil {
		return nil, false
	}
	return s.trace.Step(s.cursor.Index())
}

func (s *Session) Next() bool { return s.cursor != nil && s.cursor.Next() }
func (s *Session) Prev() bool { return s.cursor != nil && s.cursor.Prev() }

// FastForward and FastBackward scrub FastStep steps at a time.
func (s *Session) FastForward() bool {
	return s.cursor != nil && s.cursor.Advance(s.cfg.FastStep)
}

func (s *Session) FastBackward() bool {
	return s.cursor != nil && s.cursor.Advance(-s.cfg.FastStep)
}

// jump moves the cursor with move and records where it came from.
func (s *Session) jump(move func() bool) bool {
	if s.cursor == nil {
		return false
	}
	from := s.cursor.Index()
	if !move() {
		return false
	}
	s.history.record(from)
	return true
}

func (s *Session) NextCollision() bool { return s.jump(s.cursorOp((*playback.Cursor).JumpToNextCollision)) }
func (s *Session) PrevCollision() bool { return s.jump(s.cursorOp((*playback.Cursor).JumpToPrevCollision)) }
func (s *Session) First() bool         { return s.jump(s.cursorOp((*playback.Cursor).First)) }
func (s *Session) Last() bool          { return s.jump(s.cursorOp((*playback.Cursor).Last)) }

// Seek moves to step i, clamped to the trace.
func (s *Session) Seek(i int) bool {
	return s.jump(func() bool { return s.cursor.Seek(i) != -1 })
}

func (s *Session) cursorOp(op func(*playback.Cursor) bool) func() bool {
	return func() bool { return op(s.cursor) }
}

// Back returns to the position before the last jump.
func (s *Session) Back() bool {
	if s.cursor == nil {
		return false
	}
	to, ok := s.history.undo(s.cursor.Index())
	if !ok {
		return false
	}
	s.cursor.Seek(to)
	return true
}

// Forward re-applies a jump undone by Back.
func (s *Session) Forward() bool {
	if s.cursor == nil {
		return false
	}
	to, ok := s.history.redo(s.cursor.Index())
	if !ok {
		return false
	}
	s.cursor.Seek(to)
	return true
}

func (s *Session) BookmarksEnabled() bool { return s.marks != nil }

// Bookmarked returns the bookmarked steps in ascending order.
func (s *Session) Bookmarked() []int { return s.bookmarks }

func (s *Session) IsBookmarked(i int) bool {
	j := sort.SearchInts(s.bookmarks, i)
	return j < len(s.bookmarks) && s.bookmarks[j] == i
}

// ToggleBookmark bookmarks the current step, or removes its bookmark.
func (s *Session) ToggleBookmark() (bool, error) {
	if s.marks == nil {
		return false, store.ErrDisabled
	}
	if s.cursor == nil {
		return false, trace.ErrEmptyTrace
	}
	step, _ := s.Step()
	on, err := s.marks.Toggle(s.trace.Hash, s.cursor.Index(), step.Name)
	if err != nil {
		return false, err
	}
	s.loadBookmarks()
	return on, nil
}

func (s *Session) NextBookmark() bool {
	if s.cursor == nil {
		return false
	}
	i := sort.SearchInts(s.bookmarks, s.cursor.Index()+1)
	if i >= len(s.bookmarks) {
		return false
	}
	return s.Seek(s.bookmarks[i])
}

func (s *Session) PrevBookmark() bool {
	if s.cursor == nil {
		return false
	}
	i := sort.SearchInts(s.bookmarks, s.cursor.Index()) - 1
	if i < 0 {
		return false
	}
	return s.Seek(s.bookmarks[i])
}

func (s *Session) Options() render.Options { return s.opts }

func (s *Session) ToggleExtraInfo() bool {
	s.opts.ExtraInfo = !s.opts.ExtraInfo
	return s.opts.ExtraInfo
}

func (s *Session) ToggleCam() bool {
	s.opts.Cam = !s.opts.Cam
	return s.opts.Cam
}

func (s *Session) ToggleLabels() bool {
	s.opts.Labels = !s.opts.Labels
	return s.opts.Labels
}

// ResetView restores the configured initial view for the current viewport.
func (s *Session) ResetView() {
	w, h := s.view.Size()
	if s.cfg.Fit {
		s.view.Fit(w, h)
		return
	}
	zoom := s.cfg.Zoom
	if zoom <= 0 {
		zoom = view.DefaultZoom
	}
	s.view.Reset(zoom)
}

// Counters is the right-hand side of the step info bar.
func (s *Session) Counters() string {
	st, ok := s.Step()
	if !ok {
		return ""
	}
	return fmt.Sprintf("frame: %d physics: %d step: %d", st.FrameIndex, st.PhysicsStepIndex, s.cursor.Index())
}

// StepInfo describes the current step as plain text.
func (s *Session) StepInfo() string {
	st, ok := s.Step()
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", st.Name)
	fmt.Fprintf(&b, "%s of %d\n", s.Counters(), s.trace.Len())
	fmt.Fprintf(&b, "ball pos: %g, %g vel: %g, %g\n", st.Ball.Pos[0], st.Ball.Pos[1], st.Ball.Vel[0], st.Ball.Vel[1])
	fmt.Fprintf(&b, "collisions: %d penetration: %g", len(st.Collisions), st.Penetration())
	for i, c := range st.Collisions {
		fmt.Fprintf(&b, "\n  col %d: %s depth %g contact %g, %g normal %g, %g",
			i, c.Body.Shape.Kind(), c.Manifold.Depth,
			c.Manifold.Contact[0], c.Manifold.Contact[1],
			c.Manifold.Normal[0], c.Manifold.Normal[1])
	}
	return b.String()
}

// Frame assembles what the renderer needs for the current state. With
// overlay set the info bar and timeline are included.
func (s *Session) Frame(overlay bool) render.Frame {
	f := render.Frame{
		OffsetX: s.view.OffsetX,
		OffsetY: s.view.OffsetY,
		Zoom:    s.view.Zoom,
		Options: s.opts,
	}
	st, ok := s.Step()
	if !ok {
		return f
	}
	f.Step = st
	f.StaticBodies = s.trace.StaticBodies
	if overlay {
		f.Overlay = &render.Overlay{
			Name:     st.Name,
			Counters: s.Counters(),
			Timeline: s.Timeline(s.cfg.Window),
		}
	}
	return f
}

// FramesAt returns the frame for each of steps as Frame would draw it with
// the cursor there. The cursor and jump history are left unchanged.
func (s *Session) FramesAt(steps []int, overlay bool) []render.Frame {
	if s.cursor == nil {
		return nil
	}
	at := s.cursor.Index()
	defer s.cursor.Seek(at)

	frames := make([]render.Frame, 0, len(steps))
	for _, i := range steps {
		if i < 0 || i >= s.trace.Len() {
			continue
		}
		s.cursor.Seek(i)
		frames = append(frames, s.Frame(overlay))
	}
	return frames
}
