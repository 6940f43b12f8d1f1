// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/services"
)

// MockService is a test double for [services.Service]. Behavior is
// overridden per test through the function fields; unset fields return
// zero values.
type MockService struct {
	CheckStatusFunc    func(ctx context.Context, key string) (bool, error)
	LoginFunc          func(ctx context.Context, email, password string) (*services.AuthResponse, error)
	RegisterFunc       func(ctx context.Context, name, email, password string) (*services.AuthResponse, error)
	ProfileFunc        func(ctx context.Context) (*models.Profile, error)
	UpdateProfileFunc  func(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	UploadAvatarFunc   func(ctx context.Context, filename string, data []byte) (string, error)
	BooksFunc          func(ctx context.Context, page, limit int, sort, order string) (*models.BookPage, error)
	UpdateBookFunc     func(ctx context.Context, bookID string, fields map[string]any) (*models.Book, error)
	DeleteBookFunc     func(ctx context.Context, bookID string) error
	ToggleLikeFunc     func(ctx context.Context, bookID string) (*models.Book, error)
	ToggleFavoriteFunc func(ctx context.Context, bookID string) (*models.Book, error)
	CommentsFunc       func(ctx context.Context, bookID string) ([]models.Comment, error)
	AddCommentFunc     func(ctx context.Context, bookID, content string) (*models.Comment, error)
	RateFunc           func(ctx context.Context, bookID string, stars int) (*models.Book, error)
	UploadBookFunc     func(ctx context.Context, body io.Reader, contentType string) (*models.Book, error)
	MarkReadFunc       func(ctx context.Context) error

	Token string
}

func (m *MockService) CheckStatus(ctx context.Context, key string) (bool, error) {
	if m.CheckStatusFunc != nil {
		return m.CheckStatusFunc(ctx, key)
	}
	return true, nil
}

func (m *MockService) Login(ctx context.Context, email, password string) (*services.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &services.AuthResponse{}, nil
}

func (m *MockService) Register(ctx context.Context, name, email, password string) (*services.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	return &services.AuthResponse{}, nil
}

func (m *MockService) Profile(ctx context.Context) (*models.Profile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx)
	}
	return &models.Profile{}, nil
}

func (m *MockService) UpdateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, profile)
	}
	return profile, nil
}

func (m *MockService) UploadAvatar(ctx context.Context, filename string, data []byte) (string, error) {
	if m.UploadAvatarFunc != nil {
		return m.UploadAvatarFunc(ctx, filename, data)
	}
	return "", nil
}

func (m *MockService) Books(ctx context.Context, page, limit int, sort, order string) (*models.BookPage, error) {
	if m.BooksFunc != nil {
		return m.BooksFunc(ctx, page, limit, sort, order)
	}
	return &models.BookPage{CurrentPage: 1, TotalPages: 1}, nil
}

func (m *MockService) UpdateBook(ctx context.Context, bookID string, fields map[string]any) (*models.Book, error) {
	if m.UpdateBookFunc != nil {
		return m.UpdateBookFunc(ctx, bookID, fields)
	}
	return &models.Book{ID: bookID}, nil
}

func (m *MockService) DeleteBook(ctx context.Context, bookID string) error {
	if m.DeleteBookFunc != nil {
		return m.DeleteBookFunc(ctx, bookID)
	}
	return nil
}

func (m *MockService) ToggleLike(ctx context.Context, bookID string) (*models.Book, error) {
	if m.ToggleLikeFunc != nil {
		return m.ToggleLikeFunc(ctx, bookID)
	}
	return &models.Book{ID: bookID}, nil
}

func (m *MockService) ToggleFavorite(ctx context.Context, bookID string) (*models.Book, error) {
	if m.ToggleFavoriteFunc != nil {
		return m.ToggleFavoriteFunc(ctx, bookID)
	}
	return &models.Book{ID: bookID}, nil
}

func (m *MockService) Comments(ctx context.Context, bookID string) ([]models.Comment, error) {
	if m.CommentsFunc != nil {
		return m.CommentsFunc(ctx, bookID)
	}
	return []models.Comment{}, nil
}

func (m *MockService) AddComment(ctx context.Context, bookID, content string) (*models.Comment, error) {
	if m.AddCommentFunc != nil {
		return m.AddCommentFunc(ctx, bookID, content)
	}
	return &models.Comment{Content: content}, nil
}

func (m *MockService) Rate(ctx context.Context, bookID string, stars int) (*models.Book, error) {
	if m.RateFunc != nil {
		return m.RateFunc(ctx, bookID, stars)
	}
	return &models.Book{ID: bookID}, nil
}

func (m *MockService) UploadBook(ctx context.Context, body io.Reader, contentType string) (*models.Book, error) {
	if m.UploadBookFunc != nil {
		return m.UploadBookFunc(ctx, body, contentType)
	}
	return &models.Book{}, nil
}

func (m *MockService) MarkNotificationsRead(ctx context.Context) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx)
	}
	return nil
}

func (m *MockService) SetToken(token string) { m.Token = token }

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
