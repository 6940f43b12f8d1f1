package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// BookRepository implements [models.Repository] for [models.CachedBook] persistence.
//
// Caches catalog entries fetched from the platform so listings and exports
// keep working offline. Entries deduplicate on remote_id.
type BookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new [BookRepository] with the given database connection
func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts a new cached book with generated ID and sequence
func (r *BookRepository) Create(book *models.CachedBook) error {
	sequence, err := NextSequence(r.db, "books")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	book.SetID(id)
	book.SetSequence(sequence)

	if err := book.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO books (id, sequence, remote_id, title, author, description, isbn, category, publication_year, publisher, language, cover_image_url, chapter_count, average_rating, total_ratings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		book.RemoteID(),
		book.Title(),
		book.Author(),
		book.Description(),
		book.ISBN(),
		book.Category(),
		book.PublicationYear(),
		book.Publisher(),
		book.Language(),
		book.CoverImageURL(),
		book.ChapterCount(),
		book.AverageRating(),
		book.TotalRatings(),
		book.CreatedAt(),
		book.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

// Get retrieves a cached book by ID, excluding soft-deleted entries
func (r *BookRepository) Get(id string) (*models.CachedBook, error) {
	query := bookSelect + " WHERE id = ? AND deleted_at IS NULL"
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a cached book by its platform ID
func (r *BookRepository) GetByRemoteID(remoteID string) (*models.CachedBook, error) {
	query := bookSelect + " WHERE remote_id = ? AND deleted_at IS NULL"
	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing cached book
func (r *BookRepository) Update(book *models.CachedBook) error {
	if err := book.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	book.SetUpdatedAt(now)

	query := `
		UPDATE books
		SET title = ?, author = ?, chapter_count = ?, average_rating = ?, total_ratings = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		book.Title(),
		book.Author(),
		book.ChapterCount(),
		book.AverageRating(),
		book.TotalRatings(),
		now,
		book.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("book not found or already deleted: %s", book.ID())
	}

	return nil
}

// Delete soft-deletes a cached book by ID
func (r *BookRepository) Delete(id string) error {
	now := time.Now()

	result, err := r.db.Exec("UPDATE books SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", now, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("book not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves cached books matching the given criteria
func (r *BookRepository) List(criteria map[string]any) ([]*models.CachedBook, error) {
	query := bookSelect + " WHERE deleted_at IS NULL"
	args := []any{}

	if author, ok := criteria["author"].(string); ok && author != "" {
		query += " AND author = ?"
		args = append(args, author)
	}
	if category, ok := criteria["category"].(string); ok && category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []*models.CachedBook
	for rows.Next() {
		book, err := r.scanRows(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return books, nil
}

const bookSelect = `
	SELECT id, sequence, remote_id, title, author, description, isbn, category, publication_year, publisher, language, cover_image_url, chapter_count, average_rating, total_ratings, created_at, updated_at, deleted_at
	FROM books`

type bookColumns struct {
	id              string
	sequence        int
	remoteID        string
	title           string
	author          string
	description     sql.NullString
	isbn            sql.NullString
	category        sql.NullString
	publicationYear sql.NullInt64
	publisher       sql.NullString
	language        sql.NullString
	coverImageURL   sql.NullString
	chapterCount    int
	averageRating   float64
	totalRatings    int
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       sql.NullTime
}

func (c *bookColumns) fields() []any {
	return []any{
		&c.id, &c.sequence, &c.remoteID, &c.title, &c.author, &c.description,
		&c.isbn, &c.category, &c.publicationYear, &c.publisher, &c.language,
		&c.coverImageURL, &c.chapterCount, &c.averageRating, &c.totalRatings,
		&c.createdAt, &c.updatedAt, &c.deletedAt,
	}
}

func (c *bookColumns) build() *models.CachedBook {
	book := models.NewCachedBook(c.sequence, models.Book{
		ID:              c.remoteID,
		Title:           c.title,
		Author:          c.author,
		Description:     c.description.String,
		ISBN:            c.isbn.String,
		Category:        c.category.String,
		PublicationYear: int(c.publicationYear.Int64),
		Publisher:       c.publisher.String,
		Language:        c.language.String,
		CoverImageURL:   c.coverImageURL.String,
		Rating:          models.Rating{AverageRating: c.averageRating, TotalRatings: c.totalRatings},
	})
	book.SetID(c.id)
	book.SetChapterCount(c.chapterCount)
	book.SetCreatedAt(c.createdAt)
	book.SetUpdatedAt(c.updatedAt)
	if c.deletedAt.Valid {
		book.SetDeletedAt(&c.deletedAt.Time)
	}
	return book
}

func (r *BookRepository) scanOne(row *sql.Row) (*models.CachedBook, error) {
	var c bookColumns
	err := row.Scan(c.fields()...)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: not cached", shared.ErrBookNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}
	return c.build(), nil
}

func (r *BookRepository) scanRows(rows *sql.Rows) (*models.CachedBook, error) {
	var c bookColumns
	if err := rows.Scan(c.fields()...); err != nil {
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}
	return c.build(), nil
}

// BookCacheAdapter caches catalog entries as they are fetched, with
// deduplication on the remote_id UNIQUE constraint.
type BookCacheAdapter struct {
	repo *BookRepository
}

// NewBookCacheAdapter creates a new BookCacheAdapter with the given repository
func NewBookCacheAdapter(repo *BookRepository) *BookCacheAdapter {
	return &BookCacheAdapter{repo: repo}
}

// CacheBook stores a catalog entry locally. Existing entries are refreshed
// with the latest rating and chapter count; constraint violations from
// concurrent inserts are silently ignored.
func (a *BookCacheAdapter) CacheBook(book models.Book) error {
	existing, err := a.repo.GetByRemoteID(book.ID)
	if err == nil && existing != nil {
		existing.SetTitle(book.Title)
		existing.SetAuthor(book.Author)
		existing.SetChapterCount(len(book.Chapters))
		existing.SetAverageRating(book.Rating.AverageRating)
		existing.SetTotalRatings(book.Rating.TotalRatings)
		return a.repo.Update(existing)
	}

	err = a.repo.Create(models.NewCachedBook(0, book))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache book: %w", err)
	}

	return nil
}
