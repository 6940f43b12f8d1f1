package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/novtok/internal/collection"
	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/reader"
)

// Recorder receives reader activity so reading history and goal counters
// move as books are opened and finished. A nil recorder disables tracking.
type Recorder interface {
	Open(book models.Book) error
	Progress(book models.Book, chapterIndex int, finished bool) error
}

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LibraryView ViewState = iota
	DetailView
	ReaderView
	NestedConfirmView
)

// Model represents the TUI application state.
//
// Readers are kept as a stack: opening a nested reader pushes a fresh,
// independent instance, and closing it pops back to the outer one with its
// position and presentation untouched.
type Model struct {
	ctx      context.Context
	view     ViewState
	coll     *collection.View
	rec      Recorder
	width    int
	height   int
	bookList list.Model
	listInit bool
	selected *models.Book
	nested   *models.Book
	readers  []*reader.Reader
	carousel *reader.Carousel
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model over a collection view. rec may be nil
// when no local database is available.
func NewModel(ctx context.Context, coll *collection.View, rec Recorder) *Model {
	return &Model{
		ctx:  ctx,
		view: LibraryView,
		coll: coll,
		rec:  rec,
		help: help.New(),
		keys: newKeyMap(),
	}
}

// Init kicks off the first catalog fetch and the featured carousel timer.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchBooks(1), m.carouselTick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listInit {
			m.bookList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LibraryView:
			return m.handleLibraryKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ReaderView:
			return m.handleReaderKeys(msg)
		case NestedConfirmView:
			return m.handleNestedConfirmKeys(msg)
		}

	case Msg:
		return m.handleAppMsg(msg)
	}

	if m.view == LibraryView && m.listInit {
		var cmd tea.Cmd
		m.bookList, cmd = m.bookList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleAppMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgBooksFetched:
		data := msg.data.(booksFetched)
		if !m.coll.ApplyFetch(data.generation, data.page, data.err) {
			return m, nil
		}
		m.rebuildList()
		m.carousel = reader.NewCarousel(m.coll.Books())
		return m, nil

	case MsgCommentsFetched:
		data := msg.data.(commentsFetched)
		if data.err != nil {
			m.status = fmt.Sprintf("failed to load comments: %v", data.err)
		}
		return m, nil

	case MsgActionDone:
		if err, ok := msg.data.(error); ok && err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		m.rebuildList()
		m.refreshSelected()
		return m, nil

	case MsgCarouselTick:
		if m.carousel != nil {
			m.carousel.Advance()
		}
		return m, m.carouselTick()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LibraryView:
		return m.renderLibrary()
	case DetailView:
		return m.renderDetail()
	case ReaderView:
		return m.renderReader()
	case NestedConfirmView:
		return m.renderNestedConfirm()
	default:
		return ""
	}
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.listInit && m.bookList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.bookList, cmd = m.bookList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.pageNext):
		if m.coll.Page() < m.coll.TotalPages() {
			return m, m.fetchBooks(m.coll.Page() + 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.pagePrev):
		if m.coll.Page() > 1 {
			return m, m.fetchBooks(m.coll.Page() - 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.selectedItem(); ok {
			book := item.book
			m.selected = &book
			m.view = DetailView
			return m, m.fetchComments(book.ID)
		}
		return m, nil
	}

	if m.listInit {
		var cmd tea.Cmd
		m.bookList, cmd = m.bookList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = LibraryView
		m.selected = nil
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.like):
		return m, m.toggleLike()
	case key.Matches(msg, m.keys.favorite):
		return m, m.toggleFavorite()
	case key.Matches(msg, m.keys.rate):
		stars, err := strconv.Atoi(msg.String())
		if err != nil {
			return m, nil
		}
		return m, m.rateBook(stars)
	case key.Matches(msg, m.keys.read), key.Matches(msg, m.keys.enter):
		return m, m.openReader()
	}
	return m, nil
}

func (m *Model) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.activeReader()
	if r == nil {
		m.view = DetailView
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.recordProgress(r)
		m.readers = m.readers[:len(m.readers)-1]
		if len(m.readers) == 0 {
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.next):
		r.NextChapter()
		m.recordProgress(r)
	case key.Matches(msg, m.keys.prev):
		r.PreviousChapter()
		m.recordProgress(r)
	case key.Matches(msg, m.keys.fontUp):
		r.AdjustFontSize(1)
	case key.Matches(msg, m.keys.fontDown):
		r.AdjustFontSize(-1)
	case key.Matches(msg, m.keys.theme):
		r.SetTheme(nextTheme(r.Theme()))
	case key.Matches(msg, m.keys.bookmark):
		r.ToggleBookmark()
	case key.Matches(msg, m.keys.fullscreen):
		r.ToggleFullscreen()
		if r.Fullscreen() {
			return m, tea.EnterAltScreen
		}
		return m, tea.ExitAltScreen
	case key.Matches(msg, m.keys.nested):
		m.nested = m.recommendBook(r.Book().ID)
		if m.nested == nil {
			book := r.Book()
			m.nested = &book
		}
		m.view = NestedConfirmView
	}
	return m, nil
}

func (m *Model) handleNestedConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = ReaderView
		if m.nested != nil {
			book := *m.nested
			m.nested = nil
			nested, err := reader.New(book)
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.readers = append(m.readers, nested)
			m.recordOpen(book)
		}
		return m, nil
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.nested = nil
		m.view = ReaderView
		return m, nil
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) selectedItem() (bookItem, bool) {
	if !m.listInit {
		return bookItem{}, false
	}
	item := m.bookList.SelectedItem()
	if item == nil {
		return bookItem{}, false
	}
	bi, ok := item.(bookItem)
	return bi, ok
}

func (m *Model) activeReader() *reader.Reader {
	if len(m.readers) == 0 {
		return nil
	}
	return m.readers[len(m.readers)-1]
}

func (m *Model) rebuildList() {
	books := m.coll.Books()
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b}
	}
	if !m.listInit {
		m.bookList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.bookList.Title = "Library"
		m.bookList.SetSize(m.width-4, m.height-10)
		m.listInit = true
		return
	}
	m.bookList.SetItems(items)
}

// refreshSelected re-reads the selected book from the working copy so the
// detail view reflects optimistic updates and rollbacks.
func (m *Model) refreshSelected() {
	if m.selected == nil {
		return
	}
	for _, b := range m.coll.Books() {
		if b.ID == m.selected.ID {
			book := b
			m.selected = &book
			return
		}
	}
}

func (m *Model) fetchBooks(page int) tea.Cmd {
	gen := m.coll.BeginFetch()
	return func() tea.Msg {
		result, err := m.coll.Fetch(m.ctx, page, "createdAt", "desc")
		return booksFetchedMsg(gen, result, err)
	}
}

func (m *Model) fetchComments(bookID string) tea.Cmd {
	return func() tea.Msg {
		comments, err := m.coll.LoadComments(m.ctx, bookID)
		return commentsFetchedMsg(bookID, comments, err)
	}
}

func (m *Model) toggleLike() tea.Cmd {
	if m.selected == nil {
		return nil
	}
	id := m.selected.ID
	return func() tea.Msg {
		return actionDoneMsg(m.coll.ToggleLike(m.ctx, id))
	}
}

func (m *Model) toggleFavorite() tea.Cmd {
	if m.selected == nil {
		return nil
	}
	id := m.selected.ID
	return func() tea.Msg {
		return actionDoneMsg(m.coll.ToggleFavorite(m.ctx, id))
	}
}

func (m *Model) rateBook(stars int) tea.Cmd {
	if m.selected == nil {
		return nil
	}
	id := m.selected.ID
	return func() tea.Msg {
		return actionDoneMsg(m.coll.RateBook(m.ctx, id, stars))
	}
}

// recommendBook picks the next book for a nested reader from the featured
// carousel, skipping whatever is already open. Falls back to the detail
// selection when the carousel has nothing else to offer.
func (m *Model) recommendBook(currentID string) *models.Book {
	if m.carousel != nil {
		for _, b := range m.carousel.Current() {
			if b.ID != currentID {
				book := b
				return &book
			}
		}
	}
	if m.selected != nil && m.selected.ID != currentID {
		return m.selected
	}
	return nil
}

func (m *Model) openReader() tea.Cmd {
	if m.selected == nil {
		return nil
	}
	r, err := reader.New(*m.selected)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.readers = []*reader.Reader{r}
	m.view = ReaderView
	m.recordOpen(*m.selected)
	return nil
}

// recordOpen and recordProgress persist reader activity; tracking failures
// surface on the status line without blocking reading.
func (m *Model) recordOpen(book models.Book) {
	if m.rec == nil {
		return
	}
	if err := m.rec.Open(book); err != nil {
		m.status = fmt.Sprintf("history not recorded: %v", err)
	}
}

func (m *Model) recordProgress(r *reader.Reader) {
	if m.rec == nil {
		return
	}
	finished := r.ChapterCount() > 0 && r.Index() == r.ChapterCount()-1
	if err := m.rec.Progress(r.Book(), r.Index(), finished); err != nil {
		m.status = fmt.Sprintf("history not recorded: %v", err)
	}
}

func (m *Model) carouselTick() tea.Cmd {
	return tea.Tick(reader.CarouselInterval, func(time.Time) tea.Msg {
		return carouselTickMsg()
	})
}

func nextTheme(t reader.Theme) reader.Theme {
	switch t {
	case reader.ThemeLight:
		return reader.ThemeSepia
	case reader.ThemeSepia:
		return reader.ThemeDark
	default:
		return reader.ThemeLight
	}
}

func (m *Model) renderLibrary() string {
	var b strings.Builder

	if m.carousel != nil && m.carousel.Len() > 0 {
		featured := make([]string, 0, 2)
		for _, book := range m.carousel.Current() {
			featured = append(featured, fmt.Sprintf("%s by %s", book.Title, book.Author))
		}
		b.WriteString(styles.title.Render("Featured"))
		b.WriteString("\n" + strings.Join(featured, "  •  ") + "\n\n")
	}

	if m.listInit {
		b.WriteString(m.bookList.View())
	} else {
		b.WriteString("Loading books...")
	}

	if lastErr := m.coll.LastError(); lastErr != "" {
		b.WriteString("\n" + styles.err.Render(lastErr))
	}

	pages, jump := m.coll.PageWindow()
	var pager strings.Builder
	for _, p := range pages {
		if p == m.coll.Page() {
			pager.WriteString(fmt.Sprintf("[%d] ", p))
		} else {
			pager.WriteString(fmt.Sprintf("%d ", p))
		}
	}
	if jump {
		pager.WriteString(fmt.Sprintf("… %d", m.coll.TotalPages()))
	}
	b.WriteString("\n" + styles.help.Render(pager.String()))

	helpKeys := []key.Binding{m.keys.enter, m.keys.pagePrev, m.keys.pageNext, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return "No book selected"
	}
	book := *m.selected

	var b strings.Builder
	b.WriteString(styles.title.Render(book.Title))
	b.WriteString(fmt.Sprintf("\nAuthor: %s\nCategory: %s\nChapters: %d\n", book.Author, book.Category, len(book.Chapters)))
	b.WriteString(fmt.Sprintf("Likes: %d  Favorites: %d  Rating: %.1f (%d)\n",
		len(book.Likes), len(book.Favorites), book.Rating.AverageRating, book.Rating.TotalRatings))
	if len(book.Tags) > 0 {
		b.WriteString("Tags: " + strings.Join(book.Tags, ", ") + "\n")
	}
	if book.Description != "" {
		b.WriteString("\n" + book.Description + "\n")
	}

	comments := m.coll.Comments(book.ID)
	if len(comments) > 0 {
		b.WriteString("\n" + styles.title.Render("Comments"))
		for _, c := range comments {
			b.WriteString(fmt.Sprintf("\n%s: %s", c.UserName, c.Content))
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n" + styles.warn.Render(m.status))
	}

	helpKeys := []key.Binding{m.keys.read, m.keys.like, m.keys.favorite, m.keys.rate, m.keys.back, m.keys.quit}
	b.WriteString("\n\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderReader() string {
	r := m.activeReader()
	if r == nil {
		return "No open book"
	}

	chapter := r.Chapter()
	frame := FrameStyle(r.Theme())
	page := PageStyle(r.Theme())

	header := fmt.Sprintf("%s — %s (%d/%d)", r.Book().Title, chapter.Title, r.Index()+1, r.ChapterCount())
	if r.Bookmarked() {
		header += "  🔖"
	}
	if len(m.readers) > 1 {
		header += fmt.Sprintf("  [reader %d]", len(m.readers))
	}

	status := fmt.Sprintf("font %dpx · %s · %d%%", r.FontSize(), r.Theme(), r.ProgressPercent())
	if r.Fullscreen() {
		status += " · fullscreen"
	}

	body := page.Render(chapter.Content)

	helpKeys := []key.Binding{m.keys.prev, m.keys.next, m.keys.theme, m.keys.bookmark, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)

	if r.Fullscreen() {
		return frame.Render(fmt.Sprintf("%s\n\n%s", header, body))
	}
	return frame.Render(fmt.Sprintf("%s\n\n%s\n\n%s\n%s", header, body, styles.help.Render(status), helpView))
}

func (m *Model) renderNestedConfirm() string {
	name := "another book"
	if m.nested != nil {
		name = fmt.Sprintf("%q by %s", m.nested.Title, m.nested.Author)
	}
	title := styles.title.Render(fmt.Sprintf("Open %s on top of this reader?", name))
	info := "\nThe nested reader starts at chapter one with its own settings.\n"

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
