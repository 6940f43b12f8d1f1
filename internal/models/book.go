package models

import (
	"strings"
	"time"
)

// Chapter is a titled block of book content. Chapter numbers are 1-based and
// dense within a book.
type Chapter struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	ChapterNumber int    `json:"chapterNumber"`
}

// Rating holds a book's running average rating.
type Rating struct {
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}

// Book is the catalog entry shape served by the platform API.
type Book struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	ISBN            string    `json:"isbn"`
	Category        string    `json:"category"`
	PublicationYear int       `json:"publicationYear"`
	Publisher       string    `json:"publisher"`
	Language        string    `json:"language"`
	CoverImageURL   string    `json:"coverImage"`
	Chapters        []Chapter `json:"chapters"`
	Likes           []string  `json:"likes"`
	Favorites       []string  `json:"favorites"`
	Rating          Rating    `json:"rating"`
	Downloads       int       `json:"downloads"`
	Tags            []string  `json:"tags"`
	Notes           string    `json:"notes"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// LikedBy reports whether userID is in the book's likes set.
func (b Book) LikedBy(userID string) bool {
	return contains(b.Likes, userID)
}

// FavoritedBy reports whether userID is in the book's favorites set.
func (b Book) FavoritedBy(userID string) bool {
	return contains(b.Favorites, userID)
}

// HasTag reports whether the book carries the given tag.
func (b Book) HasTag(tag string) bool {
	return contains(b.Tags, tag)
}

// MatchesSearch reports whether the book's title or author contains the query,
// case-insensitively. An empty query matches everything.
func (b Book) MatchesSearch(query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.Author), q)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Comment is a reader comment on a book. Append-only from the client's view.
type Comment struct {
	ID        string    `json:"_id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookPage is one page of the paginated catalog listing.
type BookPage struct {
	Books       []Book `json:"books"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalBooks  int    `json:"totalBooks"`
}

// Notification is a platform notification for the current user.
type Notification struct {
	ID        string    `json:"_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the authenticated user's profile as served by the API.
type Profile struct {
	ID                   string          `json:"_id"`
	Name                 string          `json:"name"`
	Email                string          `json:"email"`
	AvatarURL            string          `json:"avatarUrl"`
	Bio                  string          `json:"bio"`
	Role                 string          `json:"role"`
	Theme                string          `json:"theme"`
	Language             string          `json:"language"`
	ReadingPreferences   []string        `json:"readingPreferences"`
	NotificationSettings map[string]bool `json:"notificationSettings"`
	PrivacySettings      map[string]bool `json:"privacySettings"`
}

// AvailableInterests is the fixed genre list offered for reading preferences.
var AvailableInterests = []string{
	"Fiction", "Non-Fiction", "Mystery", "Science Fiction", "Fantasy",
	"Romance", "Thriller", "Biography", "History", "Science",
	"Self-Help", "Poetry", "Drama", "Adventure", "Horror",
}

// ToggleInterest flips membership of genre in the profile's reading
// preferences, returning the updated set. Duplicate adds are idempotent.
func (p *Profile) ToggleInterest(genre string) []string {
	if contains(p.ReadingPreferences, genre) {
		next := make([]string, 0, len(p.ReadingPreferences))
		for _, g := range p.ReadingPreferences {
			if g != genre {
				next = append(next, g)
			}
		}
		p.ReadingPreferences = next
	} else {
		p.ReadingPreferences = append(p.ReadingPreferences, genre)
	}
	return p.ReadingPreferences
}
