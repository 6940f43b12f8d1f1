package collection

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
	tu "github.com/desertthunder/novtok/internal/testing"
)

const userID = "user-1"

func testPage(books ...models.Book) *models.BookPage {
	return &models.BookPage{Books: books, CurrentPage: 1, TotalPages: 1, TotalBooks: len(books)}
}

func loadedView(t *testing.T, svc *tu.MockService, books ...models.Book) *View {
	t.Helper()
	view := NewView(svc, userID, 10, nil)
	gen := view.BeginFetch()
	if !view.ApplyFetch(gen, testPage(books...), nil) {
		t.Fatal("failed to load test page")
	}
	return view
}

func TestFilters(t *testing.T) {
	books := []models.Book{
		{ID: "1", Title: "Dune", Author: "Herbert", Status: "published", Favorites: []string{userID}},
		{ID: "2", Title: "Neuromancer", Author: "Gibson", Status: "draft"},
		{ID: "3", Title: "Dune Messiah", Author: "Herbert", Status: "published"},
	}

	t.Run("empty filter matches everything", func(t *testing.T) {
		if got := Apply(books, Filters{}, userID); len(got) != 3 {
			t.Errorf("expected 3 books, got %d", len(got))
		}
	})

	t.Run("search matches title and author case-insensitively", func(t *testing.T) {
		got := Apply(books, Filters{SearchText: "dune"}, userID)
		if len(got) != 2 {
			t.Errorf("expected 2 books, got %d", len(got))
		}
		got = Apply(books, Filters{SearchText: "GIBSON"}, userID)
		if len(got) != 1 || got[0].ID != "2" {
			t.Errorf("expected only Neuromancer, got %v", got)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		got := Apply(books, Filters{StatusFilters: []string{"draft"}}, userID)
		if len(got) != 1 || got[0].ID != "2" {
			t.Errorf("expected only the draft, got %v", got)
		}
	})

	t.Run("favorites only", func(t *testing.T) {
		got := Apply(books, Filters{FavoriteOnly: true}, userID)
		if len(got) != 1 || got[0].ID != "1" {
			t.Errorf("expected only the favorited book, got %v", got)
		}
	})

	t.Run("applying twice equals applying once", func(t *testing.T) {
		f := Filters{SearchText: "dune", StatusFilters: []string{"published"}}
		once := Apply(books, f, userID)
		twice := Apply(once, f, userID)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("expected idempotent filtering, got %v then %v", once, twice)
		}
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		before := len(books)
		Apply(books, Filters{SearchText: "dune"}, userID)
		if len(books) != before {
			t.Error("input slice was mutated")
		}
	})
}

func TestSortFields(t *testing.T) {
	t.Run("rating is an alias for the nested key", func(t *testing.T) {
		got := NormalizeSortField("rating")
		if got != "rating.averageRating" {
			t.Errorf("expected rating.averageRating, got %q", got)
		}
		if !ValidSortField(got) {
			t.Error("expected the normalized field to be accepted")
		}
	})

	t.Run("other fields pass through", func(t *testing.T) {
		for _, field := range SortFields {
			if NormalizeSortField(field) != field {
				t.Errorf("expected %q to pass through", field)
			}
		}
		if ValidSortField("pageCount") {
			t.Error("expected an unknown field to be rejected")
		}
	})
}

func TestWindow(t *testing.T) {
	cases := []struct {
		name     string
		current  int
		total    int
		want     []int
		wantJump bool
	}{
		{name: "middle of a long run", current: 5, total: 20, want: []int{3, 4, 5, 6, 7}, wantJump: true},
		{name: "clamped at the start", current: 1, total: 20, want: []int{1, 2, 3}, wantJump: true},
		{name: "clamped at the end", current: 20, total: 20, want: []int{18, 19, 20}, wantJump: false},
		{name: "short run shows everything", current: 2, total: 3, want: []int{1, 2, 3}, wantJump: false},
		{name: "single page", current: 1, total: 1, want: []int{1}, wantJump: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pages, jump := Window(tc.current, tc.total)
			if !reflect.DeepEqual(pages, tc.want) {
				t.Errorf("expected pages %v, got %v", tc.want, pages)
			}
			if jump != tc.wantJump {
				t.Errorf("expected jumpToLast=%v, got %v", tc.wantJump, jump)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	t.Run("failure degrades to an empty page with the error preserved", func(t *testing.T) {
		svc := &tu.MockService{
			BooksFunc: func(ctx context.Context, page, limit int, sort, order string) (*models.BookPage, error) {
				return nil, errors.New("connection refused")
			},
		}
		view := NewView(svc, userID, 10, nil)

		gen := view.BeginFetch()
		page, err := view.Fetch(context.Background(), 1, "createdAt", "desc")
		if err == nil {
			t.Fatal("expected fetch error")
		}
		if page == nil || len(page.Books) != 0 {
			t.Fatal("expected an empty page, not nil")
		}

		view.ApplyFetch(gen, page, err)
		if len(view.Books()) != 0 {
			t.Error("expected empty working copy")
		}
		if view.LastError() == "" {
			t.Error("expected the error to be preserved for display")
		}
	})

	t.Run("a stale generation is dropped", func(t *testing.T) {
		svc := &tu.MockService{}
		view := NewView(svc, userID, 10, nil)

		stale := view.BeginFetch()
		fresh := view.BeginFetch()

		if !view.ApplyFetch(fresh, testPage(models.Book{ID: "new"}), nil) {
			t.Fatal("expected fresh result to apply")
		}
		if view.ApplyFetch(stale, testPage(models.Book{ID: "old"}), nil) {
			t.Fatal("expected stale result to be dropped")
		}
		if books := view.Books(); len(books) != 1 || books[0].ID != "new" {
			t.Errorf("expected the fresh page to win, got %v", books)
		}
	})

	t.Run("success clears a previous error", func(t *testing.T) {
		svc := &tu.MockService{}
		view := NewView(svc, userID, 10, nil)

		gen := view.BeginFetch()
		view.ApplyFetch(gen, testPage(), errors.New("boom"))
		if view.LastError() == "" {
			t.Fatal("expected an error recorded")
		}

		gen = view.BeginFetch()
		view.ApplyFetch(gen, testPage(models.Book{ID: "1"}), nil)
		if view.LastError() != "" {
			t.Error("expected error cleared after a successful fetch")
		}
	})
}

func TestToggleLike(t *testing.T) {
	t.Run("optimistic add then server reconcile", func(t *testing.T) {
		svc := &tu.MockService{
			ToggleLikeFunc: func(ctx context.Context, bookID string) (*models.Book, error) {
				return &models.Book{ID: bookID, Likes: []string{"someone-else", userID}}, nil
			},
		}
		view := loadedView(t, svc, models.Book{ID: "1"})

		if err := view.ToggleLike(context.Background(), "1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		books := view.Books()
		if !books[0].LikedBy(userID) {
			t.Error("expected user in likes set")
		}
		if len(books[0].Likes) != 2 {
			t.Errorf("expected the server's authoritative set, got %v", books[0].Likes)
		}
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		svc := &tu.MockService{
			ToggleLikeFunc: func(ctx context.Context, bookID string) (*models.Book, error) {
				return nil, errors.New("server error")
			},
		}
		view := loadedView(t, svc, models.Book{ID: "1"})

		if err := view.ToggleLike(context.Background(), "1"); err == nil {
			t.Fatal("expected error")
		}
		if view.Books()[0].LikedBy(userID) {
			t.Error("expected the optimistic like to be rolled back")
		}
	})

	t.Run("toggling twice removes the membership", func(t *testing.T) {
		svc := &tu.MockService{
			ToggleLikeFunc: func(ctx context.Context, bookID string) (*models.Book, error) {
				return nil, nil
			},
		}
		view := loadedView(t, svc, models.Book{ID: "1"})

		view.ToggleLike(context.Background(), "1")
		view.ToggleLike(context.Background(), "1")
		if view.Books()[0].LikedBy(userID) {
			t.Error("expected like removed after second toggle")
		}
	})

	t.Run("unknown book", func(t *testing.T) {
		view := loadedView(t, &tu.MockService{}, models.Book{ID: "1"})
		if err := view.ToggleLike(context.Background(), "missing"); !errors.Is(err, shared.ErrBookNotFound) {
			t.Errorf("expected ErrBookNotFound, got %v", err)
		}
	})
}

func TestAddComment(t *testing.T) {
	t.Run("blank text never reaches the network", func(t *testing.T) {
		called := false
		svc := &tu.MockService{
			AddCommentFunc: func(ctx context.Context, bookID, content string) (*models.Comment, error) {
				called = true
				return &models.Comment{}, nil
			},
		}
		view := loadedView(t, svc, models.Book{ID: "1"})

		_, err := view.AddComment(context.Background(), "1", "   \t  ")
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if called {
			t.Error("expected no network call for a blank comment")
		}
	})

	t.Run("stores the accepted comment", func(t *testing.T) {
		svc := &tu.MockService{}
		view := loadedView(t, svc, models.Book{ID: "1"})

		if _, err := view.AddComment(context.Background(), "1", "great book"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if comments := view.Comments("1"); len(comments) != 1 || comments[0].Content != "great book" {
			t.Errorf("expected stored comment, got %v", comments)
		}
	})
}

func TestRateBook(t *testing.T) {
	t.Run("NextRating folds the star into the running mean", func(t *testing.T) {
		cases := []struct {
			rating models.Rating
			stars  int
			want   models.Rating
		}{
			{rating: models.Rating{}, stars: 5, want: models.Rating{AverageRating: 5, TotalRatings: 1}},
			{rating: models.Rating{AverageRating: 4.0, TotalRatings: 1}, stars: 2, want: models.Rating{AverageRating: 3.0, TotalRatings: 2}},
			{rating: models.Rating{AverageRating: 3.0, TotalRatings: 3}, stars: 5, want: models.Rating{AverageRating: 3.5, TotalRatings: 4}},
		}
		for _, tc := range cases {
			if got := NextRating(tc.rating, tc.stars); got != tc.want {
				t.Errorf("NextRating(%v, %d) = %v, want %v", tc.rating, tc.stars, got, tc.want)
			}
		}
	})

	t.Run("rejects out-of-range stars", func(t *testing.T) {
		view := loadedView(t, &tu.MockService{}, models.Book{ID: "1"})
		for _, stars := range []int{0, 6, -1} {
			if err := view.RateBook(context.Background(), "1", stars); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("stars=%d: expected ErrInvalidInput, got %v", stars, err)
			}
		}
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		svc := &tu.MockService{
			RateFunc: func(ctx context.Context, bookID string, stars int) (*models.Book, error) {
				return nil, errors.New("server error")
			},
		}
		before := models.Rating{AverageRating: 4.0, TotalRatings: 10}
		view := loadedView(t, svc, models.Book{ID: "1", Rating: before})

		if err := view.RateBook(context.Background(), "1", 5); err == nil {
			t.Fatal("expected error")
		}
		if got := view.Books()[0].Rating; got != before {
			t.Errorf("expected rating restored to %v, got %v", before, got)
		}
	})
}

func TestTags(t *testing.T) {
	t.Run("add trims and pushes the update", func(t *testing.T) {
		var pushed []string
		svc := &tu.MockService{
			UpdateBookFunc: func(ctx context.Context, bookID string, fields map[string]any) (*models.Book, error) {
				pushed = fields["tags"].([]string)
				return &models.Book{ID: bookID}, nil
			},
		}
		view := loadedView(t, svc, models.Book{ID: "1"})

		if err := view.AddTag(context.Background(), "1", "  classic  "); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(pushed, []string{"classic"}) {
			t.Errorf("expected pushed tags [classic], got %v", pushed)
		}
	})

	t.Run("duplicate add skips the network", func(t *testing.T) {
		called := false
		svc := &tu.MockService{
			UpdateBookFunc: func(ctx context.Context, bookID string, fields map[string]any) (*models.Book, error) {
				called = true
				return &models.Book{ID: bookID}, nil
			},
		}
		view := loadedView(t, svc, models.Book{ID: "1", Tags: []string{"classic"}})

		if err := view.AddTag(context.Background(), "1", "classic"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if called {
			t.Error("expected no network call for a duplicate tag")
		}
	})

	t.Run("blank tag is rejected", func(t *testing.T) {
		view := loadedView(t, &tu.MockService{}, models.Book{ID: "1"})
		if err := view.AddTag(context.Background(), "1", "   "); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("remove rolls back on failure", func(t *testing.T) {
		svc := &tu.MockService{
			UpdateBookFunc: func(ctx context.Context, bookID string, fields map[string]any) (*models.Book, error) {
				return nil, errors.New("server error")
			},
		}
		view := loadedView(t, svc, models.Book{ID: "1", Tags: []string{"classic", "sci-fi"}})

		if err := view.RemoveTag(context.Background(), "1", "classic"); err == nil {
			t.Fatal("expected error")
		}
		if got := view.Books()[0].Tags; !reflect.DeepEqual(got, []string{"classic", "sci-fi"}) {
			t.Errorf("expected tags restored, got %v", got)
		}
	})
}
