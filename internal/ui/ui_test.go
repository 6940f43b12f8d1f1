package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/novtok/internal/collection"
	"github.com/desertthunder/novtok/internal/models"
	tu "github.com/desertthunder/novtok/internal/testing"
)

type recordedProgress struct {
	bookID   string
	chapter  int
	finished bool
}

type fakeRecorder struct {
	opened   []string
	progress []recordedProgress
	err      error
}

func (r *fakeRecorder) Open(book models.Book) error {
	r.opened = append(r.opened, book.ID)
	return r.err
}

func (r *fakeRecorder) Progress(book models.Book, chapterIndex int, finished bool) error {
	r.progress = append(r.progress, recordedProgress{book.ID, chapterIndex, finished})
	return r.err
}

func testBook() models.Book {
	return models.Book{
		ID:     "b1",
		Title:  "Dune",
		Author: "Herbert",
		Chapters: []models.Chapter{
			{Title: "One", ChapterNumber: 1, Content: "First."},
			{Title: "Two", ChapterNumber: 2, Content: "Second."},
		},
	}
}

func readerModel(t *testing.T, rec Recorder) *Model {
	t.Helper()
	view := collection.NewView(&tu.MockService{}, "user-1", 10, nil)
	m := NewModel(context.Background(), view, rec)
	book := testBook()
	m.selected = &book
	m.view = DetailView
	if cmd := m.openReader(); cmd != nil {
		t.Fatal("expected no command from opening the reader")
	}
	if m.view != ReaderView {
		t.Fatalf("expected the reader view, got %v", m.view)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReaderHistoryRecording(t *testing.T) {
	t.Run("opening a book records it", func(t *testing.T) {
		rec := &fakeRecorder{}
		readerModel(t, rec)

		if len(rec.opened) != 1 || rec.opened[0] != "b1" {
			t.Errorf("expected the book to be recorded as opened, got %v", rec.opened)
		}
	})

	t.Run("reaching the last chapter records a finish", func(t *testing.T) {
		rec := &fakeRecorder{}
		m := readerModel(t, rec)

		m.handleReaderKeys(tea.KeyMsg{Type: tea.KeyRight})
		if len(rec.progress) != 1 {
			t.Fatalf("expected one progress record, got %d", len(rec.progress))
		}
		got := rec.progress[0]
		if got.bookID != "b1" || got.chapter != 1 || !got.finished {
			t.Errorf("expected chapter 1 finished, got %+v", got)
		}
	})

	t.Run("closing the reader persists the position", func(t *testing.T) {
		rec := &fakeRecorder{}
		m := readerModel(t, rec)

		m.handleReaderKeys(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != DetailView {
			t.Errorf("expected to return to the detail view, got %v", m.view)
		}
		if len(rec.progress) != 1 || rec.progress[0].chapter != 0 {
			t.Errorf("expected the closing position to be recorded, got %v", rec.progress)
		}
	})

	t.Run("a nil recorder disables tracking", func(t *testing.T) {
		m := readerModel(t, nil)
		m.handleReaderKeys(tea.KeyMsg{Type: tea.KeyRight})
		if m.status != "" {
			t.Errorf("expected a clean status line, got %q", m.status)
		}
	})
}

func TestReaderFullscreen(t *testing.T) {
	m := readerModel(t, nil)

	_, cmd := m.handleReaderKeys(keyRunes("f"))
	if cmd == nil {
		t.Fatal("expected a command entering fullscreen")
	}
	if got := fmt.Sprintf("%T", cmd()); !strings.Contains(got, "AltScreen") {
		t.Errorf("expected an alt-screen message, got %s", got)
	}
	if !m.activeReader().Fullscreen() {
		t.Error("expected the reader to be fullscreen")
	}

	_, cmd = m.handleReaderKeys(keyRunes("f"))
	if cmd == nil {
		t.Fatal("expected a command leaving fullscreen")
	}
	if got := fmt.Sprintf("%T", cmd()); !strings.Contains(got, "AltScreen") {
		t.Errorf("expected an alt-screen message, got %s", got)
	}
	if m.activeReader().Fullscreen() {
		t.Error("expected the reader to have left fullscreen")
	}
}
