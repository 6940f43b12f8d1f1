package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// HistoryRepository implements [models.Repository] for [models.HistoryEntry] persistence.
//
// One entry per book (remote_book_id UNIQUE); the entry moves between reading
// statuses rather than accumulating duplicates.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new [HistoryRepository] with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a new history entry with generated ID and sequence
func (r *HistoryRepository) Create(entry *models.HistoryEntry) error {
	sequence, err := NextSequence(r.db, "reading_history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	entry.SetID(id)
	entry.SetSequence(sequence)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO reading_history (id, sequence, remote_book_id, title, author, status, chapter_index, chapter_count, minutes_read, last_read_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		entry.RemoteBookID(),
		entry.Title(),
		entry.Author(),
		string(entry.Status()),
		entry.ChapterIndex(),
		entry.ChapterCount(),
		entry.MinutesRead(),
		entry.LastReadAt(),
		entry.CreatedAt(),
		entry.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return nil
}

// Get retrieves a history entry by ID, excluding soft-deleted entries
func (r *HistoryRepository) Get(id string) (*models.HistoryEntry, error) {
	query := historySelect + " WHERE id = ? AND deleted_at IS NULL"
	entry, err := r.scanOne(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history entry not found: %s", id)
	}
	return entry, err
}

// GetByBook retrieves the entry for a platform book ID, or nil when absent.
func (r *HistoryRepository) GetByBook(remoteBookID string) (*models.HistoryEntry, error) {
	query := historySelect + " WHERE remote_book_id = ? AND deleted_at IS NULL"
	entry, err := r.scanOne(r.db.QueryRow(query, remoteBookID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

// Update modifies an existing history entry
func (r *HistoryRepository) Update(entry *models.HistoryEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	entry.SetUpdatedAt(now)

	query := `
		UPDATE reading_history
		SET status = ?, chapter_index = ?, chapter_count = ?, minutes_read = ?, last_read_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(entry.Status()),
		entry.ChapterIndex(),
		entry.ChapterCount(),
		entry.MinutesRead(),
		entry.LastReadAt(),
		now,
		entry.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update history entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("history entry not found or already deleted: %s", entry.ID())
	}

	return nil
}

// Delete soft-deletes a history entry by ID
func (r *HistoryRepository) Delete(id string) error {
	now := time.Now()

	result, err := r.db.Exec("UPDATE reading_history SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", now, id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("history entry not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves history entries matching the given criteria.
//
// Supported criteria: "status" (shelf filter) and "order" ("oldest" for
// ascending by last read time; default is newest first).
func (r *HistoryRepository) List(criteria map[string]any) ([]*models.HistoryEntry, error) {
	query := historySelect + " WHERE deleted_at IS NULL"
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if order, ok := criteria["order"].(string); ok && order == "oldest" {
		query += " ORDER BY last_read_at ASC"
	} else {
		query += " ORDER BY last_read_at DESC"
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		entry, err := r.scanRows(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Counters aggregates the reading stats achievements unlock against.
//
// Streak days count distinct consecutive calendar days with reading activity
// ending today or yesterday.
func (r *HistoryRepository) Counters() (models.ReadingCounters, error) {
	var counters models.ReadingCounters

	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM reading_history WHERE status = ? AND deleted_at IS NULL",
		string(models.StatusCompleted),
	).Scan(&counters.BooksCompleted)
	if err != nil {
		return counters, fmt.Errorf("failed to count completed books: %w", err)
	}

	var minutes sql.NullInt64
	err = r.db.QueryRow("SELECT SUM(minutes_read) FROM reading_history WHERE deleted_at IS NULL").Scan(&minutes)
	if err != nil {
		return counters, fmt.Errorf("failed to sum reading time: %w", err)
	}
	counters.HoursRead = int(minutes.Int64) / 60

	days, err := r.readingDays()
	if err != nil {
		return counters, err
	}
	counters.StreakDays = currentStreak(days, time.Now())

	return counters, nil
}

func (r *HistoryRepository) readingDays() ([]time.Time, error) {
	rows, err := r.db.Query("SELECT last_read_at FROM reading_history WHERE deleted_at IS NULL")
	if err != nil {
		return nil, fmt.Errorf("failed to query reading days: %w", err)
	}
	defer rows.Close()

	seen := map[string]time.Time{}
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan reading day: %w", err)
		}
		day := t.Truncate(24 * time.Hour)
		seen[day.Format("2006-01-02")] = day
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	days := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		days = append(days, day)
	}
	return days, nil
}

// currentStreak counts consecutive days with activity walking back from now.
func currentStreak(days []time.Time, now time.Time) int {
	set := map[string]bool{}
	for _, day := range days {
		set[day.Format("2006-01-02")] = true
	}

	cursor := now.Truncate(24 * time.Hour)
	if !set[cursor.Format("2006-01-02")] {
		// A streak may still be alive if the last activity was yesterday.
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for set[cursor.Format("2006-01-02")] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

const historySelect = `
	SELECT id, sequence, remote_book_id, title, author, status, chapter_index, chapter_count, minutes_read, last_read_at, created_at, updated_at, deleted_at
	FROM reading_history`

type historyColumns struct {
	id           string
	sequence     int
	remoteBookID string
	title        string
	author       string
	status       string
	chapterIndex int
	chapterCount int
	minutesRead  int
	lastReadAt   time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    sql.NullTime
}

func (c *historyColumns) fields() []any {
	return []any{
		&c.id, &c.sequence, &c.remoteBookID, &c.title, &c.author, &c.status,
		&c.chapterIndex, &c.chapterCount, &c.minutesRead, &c.lastReadAt,
		&c.createdAt, &c.updatedAt, &c.deletedAt,
	}
}

func (c *historyColumns) build() *models.HistoryEntry {
	entry := models.NewHistoryEntry(c.sequence, models.Book{
		ID:     c.remoteBookID,
		Title:  c.title,
		Author: c.author,
	}, models.ReadingStatus(c.status))
	entry.SetID(c.id)
	entry.SetChapterIndex(c.chapterIndex)
	entry.SetChapterCount(c.chapterCount)
	entry.SetMinutesRead(c.minutesRead)
	entry.SetLastReadAt(c.lastReadAt)
	entry.SetCreatedAt(c.createdAt)
	entry.SetUpdatedAt(c.updatedAt)
	if c.deletedAt.Valid {
		entry.SetDeletedAt(&c.deletedAt.Time)
	}
	return entry
}

func (r *HistoryRepository) scanOne(row *sql.Row) (*models.HistoryEntry, error) {
	var c historyColumns
	err := row.Scan(c.fields()...)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query history entry: %w", err)
	}
	return c.build(), nil
}

func (r *HistoryRepository) scanRows(rows *sql.Rows) (*models.HistoryEntry, error) {
	var c historyColumns
	if err := rows.Scan(c.fields()...); err != nil {
		return nil, fmt.Errorf("failed to scan history entry: %w", err)
	}
	return c.build(), nil
}

// ReadingTracker adapts the history repository to reader activity. Opening a
// book upserts its entry as reading; chapter progress moves the entry along
// and flips it to completed when the last chapter is reached.
type ReadingTracker struct {
	repo *HistoryRepository
}

// NewReadingTracker creates the adapter over a history repository.
func NewReadingTracker(repo *HistoryRepository) *ReadingTracker {
	return &ReadingTracker{repo: repo}
}

// Open records that a reader was opened on the book.
func (t *ReadingTracker) Open(book models.Book) error {
	entry, err := t.repo.GetByBook(book.ID)
	if err != nil {
		return err
	}
	if entry == nil {
		return t.repo.Create(models.NewHistoryEntry(0, book, models.StatusReading))
	}
	if entry.Status() != models.StatusCompleted {
		entry.SetStatus(models.StatusReading)
	}
	entry.SetLastReadAt(time.Now())
	return t.repo.Update(entry)
}

// Progress records the chapter the reader moved to. finished marks the book
// completed.
func (t *ReadingTracker) Progress(book models.Book, chapterIndex int, finished bool) error {
	entry, err := t.repo.GetByBook(book.ID)
	if err != nil {
		return err
	}
	if entry == nil {
		entry = models.NewHistoryEntry(0, book, models.StatusReading)
	}
	entry.SetChapterIndex(chapterIndex)
	if finished {
		entry.SetStatus(models.StatusCompleted)
	}
	entry.SetLastReadAt(time.Now())

	if entry.Sequence() == 0 {
		return t.repo.Create(entry)
	}
	return t.repo.Update(entry)
}
