package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	save       key.Binding
	delete     key.Binding
	toggle     key.Binding
	editToggle key.Binding
	pull       key.Binding
	push       key.Binding
	fetch      key.Binding
	search     key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		delete:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		toggle:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle source")),
		editToggle: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "toggle source")),
		pull:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch all")),
		push:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "push all")),
		fetch:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "fetch remote")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.save, k.delete},
		{k.toggle, k.editToggle, k.pull, k.push},
		{k.search, k.quit},
	}
}
