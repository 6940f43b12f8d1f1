// package services defines interface Service for interacting with the NovTok platform API
package services

import (
	"context"
	"io"

	"github.com/desertthunder/novtok/internal/models"
)

// Service defines the client surface of the NovTok REST API: authentication,
// the book catalog with its social actions, profile management, uploads, and
// notifications.
type Service interface {
	// CheckStatus validates the current session token against the platform.
	// A false result with a nil error means the platform positively denied
	// the session; transport failures return an error.
	CheckStatus(ctx context.Context, key string) (bool, error)

	// Login exchanges credentials for a session token.
	Login(ctx context.Context, email, password string) (*AuthResponse, error)

	// Register creates an account and returns its first session token.
	Register(ctx context.Context, name, email, password string) (*AuthResponse, error)

	// Profile retrieves the authenticated user's profile.
	Profile(ctx context.Context) (*models.Profile, error)

	// UpdateProfile replaces the authenticated user's profile.
	UpdateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)

	// UploadAvatar uploads a new avatar image (multipart).
	UploadAvatar(ctx context.Context, filename string, data []byte) (string, error)

	// Books retrieves one page of the catalog listing.
	Books(ctx context.Context, page, limit int, sort, order string) (*models.BookPage, error)

	// UpdateBook replaces mutable fields of a book.
	UpdateBook(ctx context.Context, bookID string, fields map[string]any) (*models.Book, error)

	// DeleteBook removes a book.
	DeleteBook(ctx context.Context, bookID string) error

	// ToggleLike flips the current user's membership in the book's likes set.
	ToggleLike(ctx context.Context, bookID string) (*models.Book, error)

	// ToggleFavorite flips the current user's membership in the book's favorites set.
	ToggleFavorite(ctx context.Context, bookID string) (*models.Book, error)

	// Comments lists a book's comments in insertion order.
	Comments(ctx context.Context, bookID string) ([]models.Comment, error)

	// AddComment appends a comment to a book.
	AddComment(ctx context.Context, bookID, content string) (*models.Comment, error)

	// Rate submits a 1..5 star rating for a book.
	Rate(ctx context.Context, bookID string, stars int) (*models.Book, error)

	// UploadBook creates a book from a prepared multipart body.
	UploadBook(ctx context.Context, body io.Reader, contentType string) (*models.Book, error)

	// MarkNotificationsRead marks all of the user's notifications read.
	MarkNotificationsRead(ctx context.Context) error

	// SetToken installs the session token used for authorized calls.
	SetToken(token string)

	// Name returns the name of the backing service.
	Name() string
}

// AuthResponse is the platform's reply to login and register.
type AuthResponse struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}
