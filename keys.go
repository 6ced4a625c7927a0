package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev          key.Binding
	Next          key.Binding
	FastBackward  key.Binding
	FastForward   key.Binding
	PrevCollision key.Binding
	NextCollision key.Binding
	First         key.Binding
	Last          key.Binding
	GoTo          key.Binding
	Back          key.Binding
	Forward       key.Binding

	Pan       key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ResetView key.Binding

	ExtraInfo key.Binding
	Cam       key.Binding
	Labels    key.Binding

	Bookmark     key.Binding
	NextBookmark key.Binding
	PrevBookmark key.Binding

	Open             key.Binding
	Paste            key.Binding
	Copy             key.Binding
	Export           key.Binding
	ExportCollisions key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:          key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous step")),
		Next:          key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next step")),
		FastBackward:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("⇧←/H", "scrub back")),
		FastForward:   key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("⇧→/L", "scrub forward")),
		PrevCollision: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous collision")),
		NextCollision: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next collision")),
		First:         key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first step")),
		Last:          key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last step")),
		GoTo:          key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to step")),
		Back:          key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "jump back")),
		Forward:       key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "jump forward")),

		Pan:       key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "pan mode (hjkl)")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		ResetView: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),

		ExtraInfo: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle extra info")),
		Cam:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle cam data")),
		Labels:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle labels")),

		Bookmark:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle bookmark")),
		NextBookmark: key.NewBinding(key.WithKeys("'"), key.WithHelp("'", "next bookmark")),
		PrevBookmark: key.NewBinding(key.WithKeys("\""), key.WithHelp("\"", "previous bookmark")),

		Open:             key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open trace")),
		Paste:            key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste trace")),
		Copy:             key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy step info")),
		Export:           key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export PNG")),
		ExportCollisions: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export collision PNGs")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.FastBackward, k.FastForward, k.PrevCollision, k.NextCollision, k.First, k.Last, k.GoTo, k.Back, k.Forward},
		{k.Pan, k.ZoomIn, k.ZoomOut, k.ResetView, k.ExtraInfo, k.Cam, k.Labels},
		{k.Bookmark, k.NextBookmark, k.PrevBookmark, k.Open, k.Paste, k.Copy, k.Export, k.ExportCollisions, k.Help, k.Quit},
	}
}

// setBookmarks enables or disables the bookmark bindings.
func (k *keyMap) setBookmarks(on bool) {
	k.Bookmark.SetEnabled(on)
	k.NextBookmark.SetEnabled(on)
	k.PrevBookmark.SetEnabled(on)
}
