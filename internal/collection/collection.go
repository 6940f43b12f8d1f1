// package collection implements the queryable, paginated view over the book
// catalog and its social actions.
package collection

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// CatalogService is the slice of the platform API the collection view uses.
type CatalogService interface {
	Books(ctx context.Context, page, limit int, sort, order string) (*models.BookPage, error)
	ToggleLike(ctx context.Context, bookID string) (*models.Book, error)
	ToggleFavorite(ctx context.Context, bookID string) (*models.Book, error)
	Comments(ctx context.Context, bookID string) ([]models.Comment, error)
	AddComment(ctx context.Context, bookID, content string) (*models.Comment, error)
	Rate(ctx context.Context, bookID string, stars int) (*models.Book, error)
	UpdateBook(ctx context.Context, bookID string, fields map[string]any) (*models.Book, error)
}

// Sort fields accepted by the catalog listing.
var SortFields = []string{"createdAt", "title", "author", "rating.averageRating", "likes", "favorites"}

// NormalizeSortField maps friendly aliases onto the API's sort keys.
func NormalizeSortField(field string) string {
	if field == "rating" {
		return "rating.averageRating"
	}
	return field
}

// ValidSortField reports whether field is an accepted sort key.
func ValidSortField(field string) bool {
	for _, f := range SortFields {
		if f == field {
			return true
		}
	}
	return false
}

// Filters is the client-side filter applied over the loaded page.
//
// A book matches when the search text is empty or contained in title/author
// (case-insensitive), the status set is empty or contains the book's status,
// and FavoriteOnly is off or the book is favorited by the user.
type Filters struct {
	SearchText    string
	StatusFilters []string
	FavoriteOnly  bool
}

// Apply filters books without mutating the input. Applying the same filter
// twice yields the same result as applying it once.
func Apply(books []models.Book, f Filters, userID string) []models.Book {
	statuses := map[string]bool{}
	for _, s := range f.StatusFilters {
		statuses[s] = true
	}

	var out []models.Book
	for _, b := range books {
		if !b.MatchesSearch(f.SearchText) {
			continue
		}
		if len(statuses) > 0 && !statuses[b.Status] {
			continue
		}
		if f.FavoriteOnly && !b.FavoritedBy(userID) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Window computes the visible page buttons: pages [current-2, current+2]
// clamped to [1, totalPages]. jumpToLast reports whether an explicit
// jump-to-last-page affordance is needed because the window stops short.
func Window(current, total int) (pages []int, jumpToLast bool) {
	if total < 1 {
		return nil, false
	}

	lo := shared.Clamp(current-2, 1, total)
	hi := shared.Clamp(current+2, 1, total)
	for p := lo; p <= hi; p++ {
		pages = append(pages, p)
	}

	return pages, hi < total
}

// View holds one instance of the collection state: the loaded page, the
// working copy social actions mutate optimistically, and the filters.
//
// Fetches are tagged with a generation token so a stale, late-arriving
// response cannot overwrite state produced by a newer request.
type View struct {
	mu       sync.Mutex
	svc      CatalogService
	logger   *log.Logger
	userID   string
	pageSize int

	generation uint64
	books      []models.Book
	comments   map[string][]models.Comment
	page       int
	totalPages int
	lastError  string
}

// NewView creates a collection view for the given user.
func NewView(svc CatalogService, userID string, pageSize int, logger *log.Logger) *View {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &View{
		svc:        svc,
		logger:     logger,
		userID:     userID,
		pageSize:   pageSize,
		comments:   map[string][]models.Comment{},
		page:       1,
		totalPages: 1,
	}
}

// BeginFetch reserves a generation token for an outgoing fetch. Only the
// most recently issued token may apply its result.
func (v *View) BeginFetch() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	return v.generation
}

// Fetch loads one page from the catalog. Failures degrade to an empty page so
// the caller never crashes, with the error preserved for display.
func (v *View) Fetch(ctx context.Context, page int, sort, order string) (*models.BookPage, error) {
	result, err := v.svc.Books(ctx, page, v.pageSize, sort, order)
	if err != nil {
		v.logger.Warn("book list fetch failed", "page", page, "error", err)
		return &models.BookPage{Books: []models.Book{}, CurrentPage: page, TotalPages: 1}, err
	}
	return result, nil
}

// ApplyFetch installs a fetch result. Results from superseded generations are
// dropped and false is returned.
func (v *View) ApplyFetch(generation uint64, result *models.BookPage, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if generation != v.generation {
		v.logger.Debug("dropping stale fetch result", "generation", generation, "current", v.generation)
		return false
	}

	v.books = result.Books
	v.page = result.CurrentPage
	v.totalPages = result.TotalPages
	if err != nil {
		v.lastError = err.Error()
	} else {
		v.lastError = ""
	}
	return true
}

// Books returns the working copy of the loaded page.
func (v *View) Books() []models.Book {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.books
}

// Visible applies f over the working copy without mutating it.
func (v *View) Visible(f Filters) []models.Book {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Apply(v.books, f, v.userID)
}

// Page returns the current page number.
func (v *View) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// TotalPages returns the page count reported by the last fetch.
func (v *View) TotalPages() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalPages
}

// LastError returns the visible error state from the last failed fetch, or "".
func (v *View) LastError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastError
}

// PageWindow returns the visible page buttons for the current position.
func (v *View) PageWindow() ([]int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Window(v.page, v.totalPages)
}

// Comments returns the loaded comments for a book, insertion order preserved.
func (v *View) Comments(bookID string) []models.Comment {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.comments[bookID]
}

// LoadComments fetches and installs a book's comment list.
func (v *View) LoadComments(ctx context.Context, bookID string) ([]models.Comment, error) {
	comments, err := v.svc.Comments(ctx, bookID)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.comments[bookID] = comments
	v.mu.Unlock()
	return comments, nil
}

// findBook returns a pointer into the working copy. Callers hold v.mu.
func (v *View) findBook(bookID string) *models.Book {
	for i := range v.books {
		if v.books[i].ID == bookID {
			return &v.books[i]
		}
	}
	return nil
}

// ToggleLike optimistically flips the user's like membership, then issues the
// request. On failure the local change is rolled back so the set never holds
// a state a real toggle could not produce. Each call issues one request.
func (v *View) ToggleLike(ctx context.Context, bookID string) error {
	return v.toggleMembership(ctx, bookID, "like")
}

// ToggleFavorite mirrors ToggleLike for the favorites set.
func (v *View) ToggleFavorite(ctx context.Context, bookID string) error {
	return v.toggleMembership(ctx, bookID, "favorite")
}

func (v *View) toggleMembership(ctx context.Context, bookID, action string) error {
	v.mu.Lock()
	book := v.findBook(bookID)
	if book == nil {
		v.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrBookNotFound, bookID)
	}

	var undo func()
	if action == "like" {
		before := book.Likes
		book.Likes = flipMembership(book.Likes, v.userID)
		undo = func() { book.Likes = before }
	} else {
		before := book.Favorites
		book.Favorites = flipMembership(book.Favorites, v.userID)
		undo = func() { book.Favorites = before }
	}
	v.mu.Unlock()

	var updated *models.Book
	var err error
	if action == "like" {
		updated, err = v.svc.ToggleLike(ctx, bookID)
	} else {
		updated, err = v.svc.ToggleFavorite(ctx, bookID)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.logger.Warn("toggle failed, rolling back", "action", action, "book", bookID, "error", err)
		undo()
		return err
	}

	// Reconcile with the authoritative sets when the server returns them.
	if updated != nil {
		if current := v.findBook(bookID); current != nil {
			if updated.Likes != nil {
				current.Likes = updated.Likes
			}
			if updated.Favorites != nil {
				current.Favorites = updated.Favorites
			}
		}
	}
	return nil
}

func flipMembership(set []string, userID string) []string {
	for i, id := range set {
		if id == userID {
			return append(append([]string{}, set[:i]...), set[i+1:]...)
		}
	}
	return append(append([]string{}, set...), userID)
}

// AddComment appends a comment to a book. Blank or whitespace-only text is
// rejected locally without any network call.
func (v *View) AddComment(ctx context.Context, bookID, text string) (*models.Comment, error) {
	if shared.BlankString(text) {
		return nil, fmt.Errorf("%w: comment cannot be empty", shared.ErrValidation)
	}

	comment, err := v.svc.AddComment(ctx, bookID, text)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.comments[bookID] = append(v.comments[bookID], *comment)
	v.mu.Unlock()
	return comment, nil
}

// RateBook applies the running-mean rating update locally, then submits the
// rating. newAverage = (oldAverage*oldCount + stars) / (oldCount + 1); the
// count increments by one. On failure the previous rating is restored.
func (v *View) RateBook(ctx context.Context, bookID string, stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", shared.ErrInvalidInput)
	}

	v.mu.Lock()
	book := v.findBook(bookID)
	if book == nil {
		v.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrBookNotFound, bookID)
	}

	before := book.Rating
	book.Rating = NextRating(before, stars)
	v.mu.Unlock()

	updated, err := v.svc.Rate(ctx, bookID, stars)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.logger.Warn("rating failed, rolling back", "book", bookID, "error", err)
		if current := v.findBook(bookID); current != nil {
			current.Rating = before
		}
		return err
	}

	if updated != nil && updated.Rating.TotalRatings > 0 {
		if current := v.findBook(bookID); current != nil {
			current.Rating = updated.Rating
		}
	}
	return nil
}

// NextRating folds one star value into a running mean.
func NextRating(r models.Rating, stars int) models.Rating {
	count := r.TotalRatings
	return models.Rating{
		AverageRating: (r.AverageRating*float64(count) + float64(stars)) / float64(count+1),
		TotalRatings:  count + 1,
	}
}

// AddTag adds a trimmed tag to the book's tag set and pushes the update.
// Blank tags are rejected before any state change; duplicate adds are
// idempotent and skip the network.
func (v *View) AddTag(ctx context.Context, bookID, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("%w: tag cannot be empty", shared.ErrValidation)
	}

	v.mu.Lock()
	book := v.findBook(bookID)
	if book == nil {
		v.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrBookNotFound, bookID)
	}
	if book.HasTag(tag) {
		v.mu.Unlock()
		return nil
	}

	before := book.Tags
	book.Tags = append(append([]string{}, before...), tag)
	next := book.Tags
	v.mu.Unlock()

	return v.pushTags(ctx, bookID, next, before)
}

// RemoveTag removes a tag from the book's set and pushes the update. Removing
// an absent tag is a no-op.
func (v *View) RemoveTag(ctx context.Context, bookID, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("%w: tag cannot be empty", shared.ErrValidation)
	}

	v.mu.Lock()
	book := v.findBook(bookID)
	if book == nil {
		v.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrBookNotFound, bookID)
	}
	if !book.HasTag(tag) {
		v.mu.Unlock()
		return nil
	}

	before := book.Tags
	var next []string
	for _, t := range before {
		if t != tag {
			next = append(next, t)
		}
	}
	book.Tags = next
	v.mu.Unlock()

	return v.pushTags(ctx, bookID, next, before)
}

func (v *View) pushTags(ctx context.Context, bookID string, tags, rollback []string) error {
	_, err := v.svc.UpdateBook(ctx, bookID, map[string]any{"tags": tags})
	if err != nil {
		v.mu.Lock()
		if current := v.findBook(bookID); current != nil {
			current.Tags = rollback
		}
		v.mu.Unlock()
		v.logger.Warn("tag update failed, rolling back", "book", bookID, "error", err)
		return err
	}
	return nil
}
