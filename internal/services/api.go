// NovTok platform API implementation of [Service]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// APIService implements [Service] against a NovTok API deployment.
type APIService struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// APIOption configures an APIService.
type APIOption func(*APIService)

// WithHTTPClient overrides the HTTP client (used by tests and custom transports).
func WithHTTPClient(client *http.Client) APIOption {
	return func(a *APIService) { a.httpClient = client }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSecond int) APIOption {
	return func(a *APIService) {
		if perSecond > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) APIOption {
	return func(a *APIService) { a.httpClient.Timeout = d }
}

// NewAPIService creates a client for the NovTok API at baseURL.
func NewAPIService(baseURL string, opts ...APIOption) *APIService {
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	svc := &APIService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

// SetToken installs the session token used for authorized calls.
func (a *APIService) SetToken(token string) {
	a.token = token
}

func (a *APIService) Name() string {
	return "NovTok"
}

// errorEnvelope is the API's error body shape.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// doRequest performs an HTTP request against the API, attaching the bearer
// token when present and decoding the JSON response into result.
//
// A 401 maps to [shared.ErrNotAuthenticated]; other non-2xx statuses map to
// [shared.ErrAPIRequest] carrying the server-provided message when one exists.
func (a *APIService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	apiURL := a.baseURL + endpoint

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, serverMessage(data))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(data)
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, msg)
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// doMultipart performs an authorized request with a prepared multipart body.
func (a *APIService) doMultipart(ctx context.Context, method, endpoint string, body io.Reader, contentType string, result any) error {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, serverMessage(data))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(data)
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, msg)
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// serverMessage extracts the error message from an API error body, if any.
func serverMessage(data []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}

// CheckStatus validates the session token via the status endpoint.
func (a *APIService) CheckStatus(ctx context.Context, key string) (bool, error) {
	var result struct {
		IsAuthenticated bool `json:"isAuthenticated"`
	}

	endpoint := "/api/auth/check-status?key=" + url.QueryEscape(key)
	if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return false, err
	}

	return result.IsAuthenticated, nil
}

// Login exchanges credentials for a session token.
func (a *APIService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	payload := map[string]string{"email": email, "password": password}

	var auth AuthResponse
	if err := a.doRequest(ctx, http.MethodPost, "/api/auth/login", payload, &auth); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return &auth, nil
}

// Register creates an account and returns its first session token.
func (a *APIService) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}

	var auth AuthResponse
	if err := a.doRequest(ctx, http.MethodPost, "/api/auth/register", payload, &auth); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return &auth, nil
}

// Profile retrieves the authenticated user's profile.
func (a *APIService) Profile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := a.doRequest(ctx, http.MethodGet, "/api/auth/user", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile replaces the authenticated user's profile.
func (a *APIService) UpdateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	var updated models.Profile
	if err := a.doRequest(ctx, http.MethodPut, "/api/auth/user", profile, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UploadAvatar uploads a new avatar image and returns its URL.
func (a *APIService) UploadAvatar(ctx context.Context, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("avatar", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write avatar data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	var result struct {
		AvatarURL string `json:"avatarUrl"`
	}
	if err := a.doMultipart(ctx, http.MethodPost, "/api/auth/user/avatar", &buf, writer.FormDataContentType(), &result); err != nil {
		return "", err
	}

	return result.AvatarURL, nil
}

// Books retrieves one page of the catalog listing.
//
// The API sometimes responds with a bare array and sometimes with an object
// wrapping the array under "books"; both shapes are accepted. Page metadata
// defaults to a single page when absent.
func (a *APIService) Books(ctx context.Context, page, limit int, sort, order string) (*models.BookPage, error) {
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("limit", fmt.Sprintf("%d", limit))
	if sort != "" {
		params.Set("sort", sort)
	}
	if order != "" {
		params.Set("order", order)
	}

	var raw json.RawMessage
	endpoint := "/api/books?" + params.Encode()
	if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &raw); err != nil {
		return nil, err
	}

	result, err := unwrapBookPage(raw)
	if err != nil {
		return nil, err
	}
	if result.CurrentPage == 0 {
		result.CurrentPage = page
	}

	return result, nil
}

// unwrapBookPage normalizes the two observed list response shapes into one.
func unwrapBookPage(raw json.RawMessage) (*models.BookPage, error) {
	var page models.BookPage
	if err := json.Unmarshal(raw, &page); err == nil && page.Books != nil {
		if page.TotalPages == 0 {
			page.TotalPages = 1
		}
		return &page, nil
	}

	var books []models.Book
	if err := json.Unmarshal(raw, &books); err == nil {
		return &models.BookPage{Books: books, CurrentPage: 1, TotalPages: 1, TotalBooks: len(books)}, nil
	}

	return nil, fmt.Errorf("%w: unrecognized book list shape", shared.ErrAPIRequest)
}

// UpdateBook replaces mutable fields of a book.
func (a *APIService) UpdateBook(ctx context.Context, bookID string, fields map[string]any) (*models.Book, error) {
	var book models.Book
	endpoint := fmt.Sprintf("/api/books/%s", bookID)
	if err := a.doRequest(ctx, http.MethodPut, endpoint, fields, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes a book.
func (a *APIService) DeleteBook(ctx context.Context, bookID string) error {
	endpoint := fmt.Sprintf("/api/books/%s", bookID)
	return a.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// ToggleLike flips the current user's like on a book.
func (a *APIService) ToggleLike(ctx context.Context, bookID string) (*models.Book, error) {
	var book models.Book
	endpoint := fmt.Sprintf("/api/books/%s/like", bookID)
	if err := a.doRequest(ctx, http.MethodPost, endpoint, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// ToggleFavorite flips the current user's favorite on a book.
func (a *APIService) ToggleFavorite(ctx context.Context, bookID string) (*models.Book, error) {
	var book models.Book
	endpoint := fmt.Sprintf("/api/books/%s/favorite", bookID)
	if err := a.doRequest(ctx, http.MethodPost, endpoint, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Comments lists a book's comments in insertion order.
func (a *APIService) Comments(ctx context.Context, bookID string) ([]models.Comment, error) {
	var comments []models.Comment
	endpoint := fmt.Sprintf("/api/books/%s/comments", bookID)
	if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment appends a comment to a book.
func (a *APIService) AddComment(ctx context.Context, bookID, content string) (*models.Comment, error) {
	payload := map[string]string{"content": content}

	var comment models.Comment
	endpoint := fmt.Sprintf("/api/books/%s/comment", bookID)
	if err := a.doRequest(ctx, http.MethodPost, endpoint, payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Rate submits a 1..5 star rating for a book.
func (a *APIService) Rate(ctx context.Context, bookID string, stars int) (*models.Book, error) {
	if stars < 1 || stars > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", shared.ErrInvalidInput)
	}

	payload := map[string]int{"rating": stars}

	var book models.Book
	endpoint := fmt.Sprintf("/api/books/%s/rate", bookID)
	if err := a.doRequest(ctx, http.MethodPost, endpoint, payload, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UploadBook creates a book from a prepared multipart body.
func (a *APIService) UploadBook(ctx context.Context, body io.Reader, contentType string) (*models.Book, error) {
	var book models.Book
	if err := a.doMultipart(ctx, http.MethodPost, "/api/upload-book", body, contentType, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// MarkNotificationsRead marks all of the user's notifications read.
func (a *APIService) MarkNotificationsRead(ctx context.Context) error {
	return a.doRequest(ctx, http.MethodPut, "/api/notifications/read", nil, nil)
}
