package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	yes        key.Binding
	no         key.Binding
	like       key.Binding
	favorite   key.Binding
	rate       key.Binding
	read       key.Binding
	nested     key.Binding
	next       key.Binding
	prev       key.Binding
	fontUp     key.Binding
	fontDown   key.Binding
	theme      key.Binding
	bookmark   key.Binding
	fullscreen key.Binding
	pageNext   key.Binding
	pagePrev   key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		like:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		favorite:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "favorite")),
		rate:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "rate")),
		read:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "read")),
		nested:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "nested reader")),
		next:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next chapter")),
		prev:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous chapter")),
		fontUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "larger font")),
		fontDown:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "smaller font")),
		theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		bookmark:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),
		fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
		pageNext:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),
		pagePrev:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous page")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.like, k.favorite, k.rate, k.read, k.nested},
		{k.next, k.prev, k.fontUp, k.fontDown},
		{k.theme, k.bookmark, k.fullscreen, k.quit},
	}
}
