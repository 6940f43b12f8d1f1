// package reader implements the chapter-reading state machine.
//
// All operations are pure local state transitions; errors originate only from
// the data source supplying the chapters.
package reader

import (
	"math"
	"time"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// Font size bounds; adjustments clamp silently.
const (
	FontMin = 12
	FontMax = 24
)

// Theme enumerates the reader's presentation themes.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeSepia Theme = "sepia"
	ThemeDark  Theme = "dark"
)

// ThemeStyle is the fixed style triple a theme maps to.
type ThemeStyle struct {
	Background      string
	Text            string
	PaperBackground string
}

// Themes maps each theme to its style triple.
var Themes = map[Theme]ThemeStyle{
	ThemeLight: {Background: "#f3f4f6", Text: "#1f2937", PaperBackground: "#ffffff"},
	ThemeSepia: {Background: "#f4ecd8", Text: "#5b4636", PaperBackground: "#fbf0d9"},
	ThemeDark:  {Background: "#111827", Text: "#e5e7eb", PaperBackground: "#1f2937"},
}

// ValidTheme reports whether t is a known theme.
func ValidTheme(t Theme) bool {
	_, ok := Themes[t]
	return ok
}

// Reader holds the reading position and presentation state for one open book.
// Each open reader instance is independent; nothing here is shared or
// persisted across sessions.
type Reader struct {
	book       models.Book
	index      int
	fontSize   int
	theme      Theme
	bookmark   *int
	fullscreen bool
}

// Option configures a new Reader.
type Option func(*Reader)

// WithFontSize sets the starting font size, clamped to the valid range.
func WithFontSize(size int) Option {
	return func(r *Reader) { r.fontSize = shared.Clamp(size, FontMin, FontMax) }
}

// WithTheme sets the starting theme; unknown themes fall back to light.
func WithTheme(t Theme) Option {
	return func(r *Reader) {
		if ValidTheme(t) {
			r.theme = t
		}
	}
}

// New opens a reader over the book's chapters.
//
// Returns [shared.ErrNoChapters] when the book has no readable content; the
// caller is expected to show an explicit empty state with a way back rather
// than render nothing.
func New(book models.Book, opts ...Option) (*Reader, error) {
	if len(book.Chapters) == 0 {
		return nil, shared.ErrNoChapters
	}

	r := &Reader{book: book, fontSize: 16, theme: ThemeLight}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Book returns the open book.
func (r *Reader) Book() models.Book { return r.book }

// Index returns the current chapter index.
func (r *Reader) Index() int { return r.index }

// Chapter returns the current chapter.
func (r *Reader) Chapter() models.Chapter {
	return r.book.Chapters[r.index]
}

// ChapterCount returns the number of chapters.
func (r *Reader) ChapterCount() int { return len(r.book.Chapters) }

// NextChapter advances one chapter. Moving past the last chapter is a no-op.
// Reports whether the position changed.
func (r *Reader) NextChapter() bool {
	return r.setIndex(r.index + 1)
}

// PreviousChapter moves back one chapter. Moving before the first chapter is
// a no-op. Reports whether the position changed.
func (r *Reader) PreviousChapter() bool {
	return r.setIndex(r.index - 1)
}

func (r *Reader) setIndex(i int) bool {
	clamped := shared.Clamp(i, 0, len(r.book.Chapters)-1)
	if clamped == r.index {
		return false
	}
	r.index = clamped
	return true
}

// FontSize returns the current font size.
func (r *Reader) FontSize() int { return r.fontSize }

// AdjustFontSize shifts the font size by delta, clamped to [FontMin, FontMax].
func (r *Reader) AdjustFontSize(delta int) int {
	r.fontSize = shared.Clamp(r.fontSize+delta, FontMin, FontMax)
	return r.fontSize
}

// Theme returns the current theme.
func (r *Reader) Theme() Theme { return r.theme }

// Style returns the current theme's style triple.
func (r *Reader) Style() ThemeStyle { return Themes[r.theme] }

// SetTheme switches the presentation theme without affecting the chapter
// position. Unknown themes are ignored.
func (r *Reader) SetTheme(t Theme) {
	if ValidTheme(t) {
		r.theme = t
	}
}

// Bookmark returns the bookmarked chapter index, or nil when unset.
func (r *Reader) Bookmark() *int { return r.bookmark }

// ToggleBookmark sets the bookmark to the current chapter, or clears it when
// it already points there. Only one bookmark exists per open reader.
func (r *Reader) ToggleBookmark() {
	if r.bookmark != nil && *r.bookmark == r.index {
		r.bookmark = nil
		return
	}
	idx := r.index
	r.bookmark = &idx
}

// Bookmarked reports whether the current chapter is the bookmarked one.
func (r *Reader) Bookmarked() bool {
	return r.bookmark != nil && *r.bookmark == r.index
}

// Fullscreen returns the fullscreen flag.
func (r *Reader) Fullscreen() bool { return r.fullscreen }

// ToggleFullscreen flips the fullscreen flag and returns the new value. The
// flag mirrors the platform's actual fullscreen status; the presentation
// layer applies it.
func (r *Reader) ToggleFullscreen() bool {
	r.fullscreen = !r.fullscreen
	return r.fullscreen
}

// ProgressPercent returns reading progress as a whole percentage, recomputed
// from the current chapter position.
func (r *Reader) ProgressPercent() int {
	count := len(r.book.Chapters)
	return int(math.Round(100 * float64(r.index+1) / float64(count)))
}

// CarouselInterval is how long each recommendation group stays on screen.
const CarouselInterval = 15 * time.Second

// carouselGroupSize is the fixed number of books per group.
const carouselGroupSize = 2

// Carousel cycles through recommended books in fixed groups of two.
type Carousel struct {
	chunks [][]models.Book
	pos    int
}

// NewCarousel chunks the recommendations into groups of two, preserving order.
func NewCarousel(books []models.Book) *Carousel {
	var chunks [][]models.Book
	for i := 0; i < len(books); i += carouselGroupSize {
		end := i + carouselGroupSize
		if end > len(books) {
			end = len(books)
		}
		chunks = append(chunks, books[i:end])
	}
	return &Carousel{chunks: chunks}
}

// Len returns the number of groups.
func (c *Carousel) Len() int { return len(c.chunks) }

// Pos returns the index of the displayed group.
func (c *Carousel) Pos() int { return c.pos }

// Current returns the displayed group, or nil when there are no recommendations.
func (c *Carousel) Current() []models.Book {
	if len(c.chunks) == 0 {
		return nil
	}
	return c.chunks[c.pos]
}

// Advance moves to the next group, wrapping modulo the group count.
func (c *Carousel) Advance() {
	if len(c.chunks) == 0 {
		return
	}
	c.pos = (c.pos + 1) % len(c.chunks)
}
