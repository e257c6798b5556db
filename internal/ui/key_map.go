package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	tab      key.Binding
	speaker  key.Binding
	prevTab  key.Binding
	nextTab  key.Binding
	color    key.Binding
	outline  key.Binding
	applyAll key.Binding
	submit   key.Binding
	reload   key.Binding
	open     key.Binding
	endscr   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit/confirm")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		speaker:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle speaker")),
		prevTab:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev speaker tab")),
		nextTab:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next speaker tab")),
		color:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "fill color")),
		outline:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "outline color")),
		applyAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply style to all")),
		submit:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update captions")),
		reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload captions")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open video")),
		endscr:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end screen")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.up, k.down, k.enter, k.back, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.speaker, k.prevTab, k.nextTab, k.color, k.applyAll},
		{k.submit, k.reload, k.open, k.quit},
	}
}
