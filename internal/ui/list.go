package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/novtok/internal/models"
)

var _ list.Item = bookItem{}

// bookItem wraps [models.Book] to implement [list.Item].
type bookItem struct {
	book models.Book
}

func (i bookItem) FilterValue() string { return i.book.Title }
func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) Description() string {
	desc := i.book.Author
	if i.book.Category != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.book.Category)
	}
	if n := len(i.book.Chapters); n > 0 {
		desc = fmt.Sprintf("%s • %d chapters", desc, n)
	}
	return desc
}
