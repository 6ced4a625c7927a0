package main

type Mode int

const (
	ModeNormal Mode = iota
	ModePan
	ModeGoTo
	ModeFileInput
)

// Terminal rows taken by the chrome around the canvas.
const (
	infoRows     = 1
	timelineRows = 1
	statusRows   = 1
	chromeRows   = infoRows + timelineRows + statusRows
)

const (
	// panStep is how far one pan key moves the view, in terminal cells.
	panStep = 2

	upperHalfBlock = "▀"
	bookmarkMark   = "▾"
)
