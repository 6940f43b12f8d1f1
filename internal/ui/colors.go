package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/novtok/internal/reader"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// PageStyle builds the lipgloss style for a reader theme's page surface.
func PageStyle(t reader.Theme) lipgloss.Style {
	ts := reader.Themes[t]
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ts.Text)).
		Background(lipgloss.Color(ts.PaperBackground)).
		Padding(1, 2)
}

// FrameStyle builds the lipgloss style for a reader theme's surrounding frame.
func FrameStyle(t reader.Theme) lipgloss.Style {
	ts := reader.Themes[t]
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ts.Text)).
		Background(lipgloss.Color(ts.Background))
}
