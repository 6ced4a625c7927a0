package main

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/rs/zerolog"

	"stepscope/internal/render"
	"stepscope/internal/session"
	"stepscope/internal/trace"
)

type model struct {
	width  int
	height int
	sized  bool

	mode       Mode
	help       bool
	helpScroll int

	session  *session.Session
	renderer *render.Renderer
	config   *Config
	log      zerolog.Logger

	keys      keyMap
	helpModel help.Model
	input     textinput.Model

	fileList          []string
	selectedFileIndex int

	// initialFile is loaded by Init.
	initialFile string
	loading     string

	errorMessage   string
	successMessage string
}

// traceLoadedMsg carries a trace decoded off the event loop.
type traceLoadedMsg struct {
	source string
	trace  *trace.Trace
}

type traceFailedMsg struct {
	source string
	err    error
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}
