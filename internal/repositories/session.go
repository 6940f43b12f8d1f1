package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// SessionRepository implements [models.Repository] for [models.Session] persistence.
//
// At most one live session row exists; Save replaces any prior session.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session into the database with generated ID and sequence
func (r *SessionRepository) Create(session *models.Session) error {
	sequence, err := NextSequence(r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	session.SetID(id)
	session.SetSequence(sequence)

	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (id, sequence, token, user_id, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, session.Token(), session.UserID(), session.Email(), session.CreatedAt(), session.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID, excluding soft-deleted sessions
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	query := `
		SELECT id, sequence, token, user_id, email, created_at, updated_at, deleted_at
		FROM sessions
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Current retrieves the live session, or nil when none exists.
func (r *SessionRepository) Current() (*models.Session, error) {
	query := `
		SELECT id, sequence, token, user_id, email, created_at, updated_at, deleted_at
		FROM sessions
		WHERE deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`

	session, err := r.scanOne(r.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return session, err
}

// Update modifies an existing session in the database
func (r *SessionRepository) Update(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	session.SetUpdatedAt(now)

	query := `
		UPDATE sessions
		SET token = ?, user_id = ?, email = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, session.Token(), session.UserID(), session.Email(), now, session.ID())
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session not found or already deleted: %s", session.ID())
	}

	return nil
}

// Delete soft-deletes a session by ID
func (r *SessionRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE sessions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all live sessions (at most one in practice)
func (r *SessionRepository) List(criteria map[string]any) ([]*models.Session, error) {
	query := `
		SELECT id, sequence, token, user_id, email, created_at, updated_at, deleted_at
		FROM sessions
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepository) scanOne(row *sql.Row) (*models.Session, error) {
	var (
		id        string
		sequence  int
		token     string
		userID    sql.NullString
		email     sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &token, &userID, &email, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return buildSession(id, sequence, token, userID.String, email.String, createdAt, updatedAt, deletedAt), nil
}

func (r *SessionRepository) scanRow(rows *sql.Rows) (*models.Session, error) {
	var (
		id        string
		sequence  int
		token     string
		userID    sql.NullString
		email     sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	if err := rows.Scan(&id, &sequence, &token, &userID, &email, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	return buildSession(id, sequence, token, userID.String, email.String, createdAt, updatedAt, deletedAt), nil
}

func buildSession(id string, sequence int, token, userID, email string, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.Session {
	session := models.NewSession(sequence, token, userID, email)
	session.SetID(id)
	session.SetCreatedAt(createdAt)
	session.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		session.SetDeletedAt(&deletedAt.Time)
	}
	return session
}

// SessionStore adapts SessionRepository to the session package's TokenStore.
type SessionStore struct {
	repo *SessionRepository
}

// NewSessionStore creates a TokenStore over the given repository.
func NewSessionStore(repo *SessionRepository) *SessionStore {
	return &SessionStore{repo: repo}
}

// Token returns the persisted token, or "" when no live session exists.
func (s *SessionStore) Token() (string, error) {
	session, err := s.repo.Current()
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", nil
	}
	return session.Token(), nil
}

// Save replaces any prior session with a new one for the given identity.
func (s *SessionStore) Save(token, userID, email string) error {
	if err := s.Clear(); err != nil {
		return err
	}
	return s.repo.Create(models.NewSession(0, token, userID, email))
}

// Clear soft-deletes every live session.
func (s *SessionStore) Clear() error {
	sessions, err := s.repo.List(map[string]any{})
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if err := s.repo.Delete(session.ID()); err != nil {
			return err
		}
	}
	return nil
}
