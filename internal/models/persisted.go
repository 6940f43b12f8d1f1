package models

import (
	"fmt"
	"time"
)

// persisted carries the lifecycle fields shared by all database-backed models.
type persisted struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newPersisted(sequence int) persisted {
	now := time.Now()
	return persisted{sequence: sequence, createdAt: now, updatedAt: now}
}

func (p *persisted) ID() string                  { return p.id }
func (p *persisted) SetID(id string)             { p.id = id }
func (p *persisted) Sequence() int               { return p.sequence }
func (p *persisted) SetSequence(s int)           { p.sequence = s }
func (p *persisted) CreatedAt() time.Time        { return p.createdAt }
func (p *persisted) SetCreatedAt(t time.Time)    { p.createdAt = t }
func (p *persisted) UpdatedAt() time.Time        { return p.updatedAt }
func (p *persisted) SetUpdatedAt(t time.Time)    { p.updatedAt = t }
func (p *persisted) DeletedAt() *time.Time       { return p.deletedAt }
func (p *persisted) SetDeletedAt(t *time.Time)   { p.deletedAt = t }

// Session is the durable session record. At most one live row exists; it holds
// the single token that survives process restarts.
type Session struct {
	persisted
	token  string
	userID string
	email  string
}

// NewSession creates a session for the given token and user identity.
func NewSession(sequence int, token, userID, email string) *Session {
	return &Session{persisted: newPersisted(sequence), token: token, userID: userID, email: email}
}

func (s *Session) Token() string        { return s.token }
func (s *Session) SetToken(t string)    { s.token = t }
func (s *Session) UserID() string       { return s.userID }
func (s *Session) SetUserID(id string)  { s.userID = id }
func (s *Session) Email() string        { return s.email }
func (s *Session) SetEmail(e string)    { s.email = e }

// Validate checks that the session carries a token.
func (s *Session) Validate() error {
	if s.token == "" {
		return fmt.Errorf("session token is required")
	}
	return nil
}

// CachedBook is a locally cached catalog entry, keyed by the remote book ID.
type CachedBook struct {
	persisted
	remoteID        string
	title           string
	author          string
	description     string
	isbn            string
	category        string
	publicationYear int
	publisher       string
	language        string
	coverImageURL   string
	chapterCount    int
	averageRating   float64
	totalRatings    int
}

// NewCachedBook creates a cache entry from a catalog Book.
func NewCachedBook(sequence int, book Book) *CachedBook {
	return &CachedBook{
		persisted:       newPersisted(sequence),
		remoteID:        book.ID,
		title:           book.Title,
		author:          book.Author,
		description:     book.Description,
		isbn:            book.ISBN,
		category:        book.Category,
		publicationYear: book.PublicationYear,
		publisher:       book.Publisher,
		language:        book.Language,
		coverImageURL:   book.CoverImageURL,
		chapterCount:    len(book.Chapters),
		averageRating:   book.Rating.AverageRating,
		totalRatings:    book.Rating.TotalRatings,
	}
}

func (b *CachedBook) RemoteID() string          { return b.remoteID }
func (b *CachedBook) Title() string             { return b.title }
func (b *CachedBook) SetTitle(t string)         { b.title = t }
func (b *CachedBook) Author() string            { return b.author }
func (b *CachedBook) SetAuthor(a string)        { b.author = a }
func (b *CachedBook) Description() string       { return b.description }
func (b *CachedBook) ISBN() string              { return b.isbn }
func (b *CachedBook) Category() string          { return b.category }
func (b *CachedBook) PublicationYear() int      { return b.publicationYear }
func (b *CachedBook) Publisher() string         { return b.publisher }
func (b *CachedBook) Language() string          { return b.language }
func (b *CachedBook) CoverImageURL() string     { return b.coverImageURL }
func (b *CachedBook) ChapterCount() int         { return b.chapterCount }
func (b *CachedBook) SetChapterCount(n int)     { b.chapterCount = n }
func (b *CachedBook) AverageRating() float64    { return b.averageRating }
func (b *CachedBook) SetAverageRating(r float64) { b.averageRating = r }
func (b *CachedBook) TotalRatings() int         { return b.totalRatings }
func (b *CachedBook) SetTotalRatings(n int)     { b.totalRatings = n }

// Validate checks that the cached book names a remote entry.
func (b *CachedBook) Validate() error {
	if b.remoteID == "" {
		return fmt.Errorf("remote book id is required")
	}
	if b.title == "" {
		return fmt.Errorf("book title is required")
	}
	return nil
}

// ReadingStatus enumerates the shelf a history entry sits on.
type ReadingStatus string

const (
	StatusReading    ReadingStatus = "reading"
	StatusWantToRead ReadingStatus = "wantToRead"
	StatusCompleted  ReadingStatus = "completed"
)

// ValidStatus reports whether s is a known reading status.
func ValidStatus(s ReadingStatus) bool {
	switch s {
	case StatusReading, StatusWantToRead, StatusCompleted:
		return true
	}
	return false
}

// HistoryEntry records local reading activity for one book.
type HistoryEntry struct {
	persisted
	remoteBookID string
	title        string
	author       string
	status       ReadingStatus
	chapterIndex int
	chapterCount int
	minutesRead  int
	lastReadAt   time.Time
}

// NewHistoryEntry creates a history entry for a book in the given status.
func NewHistoryEntry(sequence int, book Book, status ReadingStatus) *HistoryEntry {
	return &HistoryEntry{
		persisted:    newPersisted(sequence),
		remoteBookID: book.ID,
		title:        book.Title,
		author:       book.Author,
		status:       status,
		chapterCount: len(book.Chapters),
		lastReadAt:   time.Now(),
	}
}

func (h *HistoryEntry) RemoteBookID() string        { return h.remoteBookID }
func (h *HistoryEntry) Title() string               { return h.title }
func (h *HistoryEntry) Author() string              { return h.author }
func (h *HistoryEntry) Status() ReadingStatus       { return h.status }
func (h *HistoryEntry) SetStatus(s ReadingStatus)   { h.status = s }
func (h *HistoryEntry) ChapterIndex() int           { return h.chapterIndex }
func (h *HistoryEntry) SetChapterIndex(i int)       { h.chapterIndex = i }
func (h *HistoryEntry) ChapterCount() int           { return h.chapterCount }
func (h *HistoryEntry) SetChapterCount(n int)       { h.chapterCount = n }
func (h *HistoryEntry) MinutesRead() int            { return h.minutesRead }
func (h *HistoryEntry) AddMinutesRead(m int)        { h.minutesRead += m }
func (h *HistoryEntry) SetMinutesRead(m int)        { h.minutesRead = m }
func (h *HistoryEntry) LastReadAt() time.Time       { return h.lastReadAt }
func (h *HistoryEntry) SetLastReadAt(t time.Time)   { h.lastReadAt = t }

// Validate checks the entry names a book and a known status.
func (h *HistoryEntry) Validate() error {
	if h.remoteBookID == "" {
		return fmt.Errorf("remote book id is required")
	}
	if !ValidStatus(h.status) {
		return fmt.Errorf("unknown reading status: %s", h.status)
	}
	return nil
}

// GoalType enumerates what a reading goal counts.
type GoalType string

const (
	GoalBooks GoalType = "books"
	GoalPages GoalType = "pages"
	GoalTime  GoalType = "time"
)

// ReadingGoal is a locally tracked reading target over a time window.
type ReadingGoal struct {
	persisted
	goalType  GoalType
	target    int
	current   int
	timeframe string
	startDate time.Time
	endDate   time.Time
	status    string
}

// NewReadingGoal creates an in-progress goal for the given window.
func NewReadingGoal(sequence int, goalType GoalType, target int, timeframe string, start, end time.Time) *ReadingGoal {
	return &ReadingGoal{
		persisted: newPersisted(sequence),
		goalType:  goalType,
		target:    target,
		timeframe: timeframe,
		startDate: start,
		endDate:   end,
		status:    "in-progress",
	}
}

func (g *ReadingGoal) GoalType() GoalType      { return g.goalType }
func (g *ReadingGoal) Target() int             { return g.target }
func (g *ReadingGoal) Current() int            { return g.current }
func (g *ReadingGoal) SetCurrent(c int)        { g.current = c }
func (g *ReadingGoal) Timeframe() string       { return g.timeframe }
func (g *ReadingGoal) StartDate() time.Time    { return g.startDate }
func (g *ReadingGoal) SetStartDate(t time.Time) { g.startDate = t }
func (g *ReadingGoal) EndDate() time.Time      { return g.endDate }
func (g *ReadingGoal) SetEndDate(t time.Time)  { g.endDate = t }
func (g *ReadingGoal) Status() string          { return g.status }
func (g *ReadingGoal) SetStatus(s string)      { g.status = s }

// ProgressPercent returns the goal's completion as a percentage of the target.
func (g *ReadingGoal) ProgressPercent() float64 {
	if g.target <= 0 {
		return 0
	}
	return float64(g.current) / float64(g.target) * 100
}

// FormatTarget renders the target with its unit.
func (g *ReadingGoal) FormatTarget() string {
	switch g.goalType {
	case GoalBooks:
		return fmt.Sprintf("%d books", g.target)
	case GoalPages:
		return fmt.Sprintf("%d pages", g.target)
	case GoalTime:
		return fmt.Sprintf("%d minutes", g.target)
	default:
		return fmt.Sprintf("%d", g.target)
	}
}

// Validate checks the goal's type, target, and window.
func (g *ReadingGoal) Validate() error {
	switch g.goalType {
	case GoalBooks, GoalPages, GoalTime:
	default:
		return fmt.Errorf("unknown goal type: %s", g.goalType)
	}
	if g.target <= 0 {
		return fmt.Errorf("goal target must be positive")
	}
	if g.endDate.Before(g.startDate) {
		return fmt.Errorf("goal end date precedes start date")
	}
	return nil
}
