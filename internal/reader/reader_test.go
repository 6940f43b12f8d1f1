package reader

import (
	"errors"
	"testing"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

func testBook(chapters int) models.Book {
	book := models.Book{ID: "book-1", Title: "Test Book", Author: "Author"}
	for i := 1; i <= chapters; i++ {
		book.Chapters = append(book.Chapters, models.Chapter{
			Title:         "Chapter",
			Content:       "content",
			ChapterNumber: i,
		})
	}
	return book
}

func TestReader(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("opens at the first chapter", func(t *testing.T) {
			r, err := New(testBook(3))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Index() != 0 {
				t.Errorf("expected index 0, got %d", r.Index())
			}
			if r.Theme() != ThemeLight {
				t.Errorf("expected light theme, got %s", r.Theme())
			}
		})

		t.Run("rejects a book without chapters", func(t *testing.T) {
			_, err := New(testBook(0))
			if !errors.Is(err, shared.ErrNoChapters) {
				t.Errorf("expected ErrNoChapters, got %v", err)
			}
		})

		t.Run("applies options", func(t *testing.T) {
			r, err := New(testBook(1), WithFontSize(20), WithTheme(ThemeDark))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.FontSize() != 20 {
				t.Errorf("expected font size 20, got %d", r.FontSize())
			}
			if r.Theme() != ThemeDark {
				t.Errorf("expected dark theme, got %s", r.Theme())
			}
		})
	})

	t.Run("Navigation", func(t *testing.T) {
		t.Run("clamps at the last chapter", func(t *testing.T) {
			r, _ := New(testBook(2))
			if !r.NextChapter() {
				t.Error("expected first advance to succeed")
			}
			if r.NextChapter() {
				t.Error("expected advance past the end to be a no-op")
			}
			if r.Index() != 1 {
				t.Errorf("expected index 1, got %d", r.Index())
			}
		})

		t.Run("clamps at the first chapter", func(t *testing.T) {
			r, _ := New(testBook(2))
			if r.PreviousChapter() {
				t.Error("expected retreat before the start to be a no-op")
			}
			if r.Index() != 0 {
				t.Errorf("expected index 0, got %d", r.Index())
			}
		})
	})

	t.Run("FontSize", func(t *testing.T) {
		t.Run("clamps to the maximum", func(t *testing.T) {
			r, _ := New(testBook(1), WithFontSize(FontMax))
			if got := r.AdjustFontSize(1); got != FontMax {
				t.Errorf("expected %d, got %d", FontMax, got)
			}
		})

		t.Run("clamps to the minimum", func(t *testing.T) {
			r, _ := New(testBook(1), WithFontSize(FontMin))
			if got := r.AdjustFontSize(-1); got != FontMin {
				t.Errorf("expected %d, got %d", FontMin, got)
			}
		})

		t.Run("steps within the range", func(t *testing.T) {
			r, _ := New(testBook(1), WithFontSize(16))
			if got := r.AdjustFontSize(2); got != 18 {
				t.Errorf("expected 18, got %d", got)
			}
		})
	})

	t.Run("Themes", func(t *testing.T) {
		t.Run("ignores unknown themes", func(t *testing.T) {
			r, _ := New(testBook(1))
			r.SetTheme(Theme("neon"))
			if r.Theme() != ThemeLight {
				t.Errorf("expected theme unchanged, got %s", r.Theme())
			}
		})

		t.Run("every theme has a full style triple", func(t *testing.T) {
			for name, style := range Themes {
				if style.Background == "" || style.Text == "" || style.PaperBackground == "" {
					t.Errorf("theme %s has an incomplete style", name)
				}
			}
		})
	})

	t.Run("Bookmark", func(t *testing.T) {
		t.Run("toggling twice restores the original state", func(t *testing.T) {
			r, _ := New(testBook(3))
			r.NextChapter()

			r.ToggleBookmark()
			if !r.Bookmarked() {
				t.Error("expected chapter to be bookmarked")
			}
			r.ToggleBookmark()
			if r.Bookmarked() {
				t.Error("expected bookmark to be removed")
			}
		})

		t.Run("bookmark follows the chapter, not the reader", func(t *testing.T) {
			r, _ := New(testBook(3))
			r.ToggleBookmark()
			r.NextChapter()
			if r.Bookmarked() {
				t.Error("expected new chapter to be unbookmarked")
			}
			r.PreviousChapter()
			if !r.Bookmarked() {
				t.Error("expected original chapter to stay bookmarked")
			}
		})
	})

	t.Run("Fullscreen", func(t *testing.T) {
		r, _ := New(testBook(1))
		if !r.ToggleFullscreen() {
			t.Error("expected fullscreen on")
		}
		if r.ToggleFullscreen() {
			t.Error("expected fullscreen off")
		}
	})

	t.Run("ProgressPercent", func(t *testing.T) {
		cases := []struct {
			chapters int
			index    int
			want     int
		}{
			{chapters: 1, index: 0, want: 100},
			{chapters: 3, index: 0, want: 33},
			{chapters: 3, index: 1, want: 67},
			{chapters: 3, index: 2, want: 100},
			{chapters: 4, index: 1, want: 50},
		}

		for _, tc := range cases {
			r, _ := New(testBook(tc.chapters))
			for i := 0; i < tc.index; i++ {
				r.NextChapter()
			}
			if got := r.ProgressPercent(); got != tc.want {
				t.Errorf("chapter %d/%d: expected %d%%, got %d%%", tc.index+1, tc.chapters, tc.want, got)
			}
		}
	})
}

func TestCarousel(t *testing.T) {
	books := func(n int) []models.Book {
		out := make([]models.Book, n)
		for i := range out {
			out[i] = models.Book{ID: string(rune('a' + i))}
		}
		return out
	}

	t.Run("chunks books in pairs", func(t *testing.T) {
		c := NewCarousel(books(5))
		if c.Len() != 3 {
			t.Fatalf("expected 3 groups, got %d", c.Len())
		}
		if len(c.Current()) != 2 {
			t.Errorf("expected first group of 2, got %d", len(c.Current()))
		}
	})

	t.Run("advance wraps to the start", func(t *testing.T) {
		c := NewCarousel(books(4))
		c.Advance()
		if c.Pos() != 1 {
			t.Errorf("expected pos 1, got %d", c.Pos())
		}
		c.Advance()
		if c.Pos() != 0 {
			t.Errorf("expected wrap to pos 0, got %d", c.Pos())
		}
	})

	t.Run("empty carousel is safe", func(t *testing.T) {
		c := NewCarousel(nil)
		c.Advance()
		if c.Current() != nil {
			t.Error("expected nil current group")
		}
	})
}
