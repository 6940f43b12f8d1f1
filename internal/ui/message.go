package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/novtok/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var _ tea.Msg = Msg{}

const (
	MsgBooksFetched MsgKind = iota
	MsgCommentsFetched
	MsgActionDone
	MsgCarouselTick
)

type booksFetched struct {
	generation uint64
	page       *models.BookPage
	err        error
}

type commentsFetched struct {
	bookID   string
	comments []models.Comment
	err      error
}

// booksFetchedMsg is the constructor for [MsgBooksFetched]
func booksFetchedMsg(generation uint64, page *models.BookPage, err error) Msg {
	return Msg{kind: MsgBooksFetched, data: booksFetched{generation, page, err}}
}

// commentsFetchedMsg is the constructor for [MsgCommentsFetched]
func commentsFetchedMsg(bookID string, comments []models.Comment, err error) Msg {
	return Msg{kind: MsgCommentsFetched, data: commentsFetched{bookID, comments, err}}
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(err error) Msg {
	return Msg{kind: MsgActionDone, data: err}
}

// carouselTickMsg is the constructor for [MsgCarouselTick]
func carouselTickMsg() Msg {
	return Msg{kind: MsgCarouselTick}
}
