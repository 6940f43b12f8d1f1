package models

import (
	"testing"
	"time"
)

func TestBookMembership(t *testing.T) {
	book := Book{
		Likes:     []string{"user-1", "user-2"},
		Favorites: []string{"user-2"},
		Tags:      []string{"classic"},
	}

	if !book.LikedBy("user-1") || book.LikedBy("user-3") {
		t.Error("unexpected likes membership")
	}
	if !book.FavoritedBy("user-2") || book.FavoritedBy("user-1") {
		t.Error("unexpected favorites membership")
	}
	if !book.HasTag("classic") || book.HasTag("sci-fi") {
		t.Error("unexpected tag membership")
	}
}

func TestMatchesSearch(t *testing.T) {
	book := Book{Title: "The Long Voyage", Author: "A. Writer"}

	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "empty matches everything", query: "", want: true},
		{name: "whitespace matches everything", query: "   ", want: true},
		{name: "title substring", query: "voyage", want: true},
		{name: "mixed case", query: "LONG", want: true},
		{name: "author substring", query: "writer", want: true},
		{name: "no match", query: "submarine", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := book.MatchesSearch(tc.query); got != tc.want {
				t.Errorf("MatchesSearch(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}

func TestToggleInterest(t *testing.T) {
	profile := &Profile{}

	got := profile.ToggleInterest("Fantasy")
	if len(got) != 1 || got[0] != "Fantasy" {
		t.Errorf("unexpected preferences after add: %v", got)
	}

	got = profile.ToggleInterest("Mystery")
	if len(got) != 2 {
		t.Errorf("unexpected preferences after second add: %v", got)
	}

	got = profile.ToggleInterest("Fantasy")
	if len(got) != 1 || got[0] != "Mystery" {
		t.Errorf("unexpected preferences after remove: %v", got)
	}
}

func TestBadgeUnlocked(t *testing.T) {
	counters := ReadingCounters{BooksCompleted: 5, StreakDays: 3, HoursRead: 12}

	cases := []struct {
		badge Badge
		want  bool
	}{
		{badge: Badge{Kind: BadgeBooks, Requirement: 1}, want: true},
		{badge: Badge{Kind: BadgeBooks, Requirement: 5}, want: true},
		{badge: Badge{Kind: BadgeBooks, Requirement: 10}, want: false},
		{badge: Badge{Kind: BadgeStreak, Requirement: 7}, want: false},
		{badge: Badge{Kind: BadgeTime, Requirement: 10}, want: true},
		{badge: Badge{Kind: "unknown", Requirement: 0}, want: false},
	}

	for _, tc := range cases {
		if got := tc.badge.Unlocked(counters); got != tc.want {
			t.Errorf("Unlocked(%s %d) = %v, want %v", tc.badge.Kind, tc.badge.Requirement, got, tc.want)
		}
	}
}

func TestHistoryEntry(t *testing.T) {
	book := Book{
		ID:     "b1",
		Title:  "First",
		Author: "Author",
		Chapters: []Chapter{
			{ChapterNumber: 1, Title: "One"},
			{ChapterNumber: 2, Title: "Two"},
		},
	}

	t.Run("new entries capture the book", func(t *testing.T) {
		entry := NewHistoryEntry(0, book, StatusReading)
		if entry.RemoteBookID() != "b1" || entry.ChapterCount() != 2 {
			t.Errorf("unexpected entry: %+v", entry)
		}
		if err := entry.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("validation rejects unknown statuses", func(t *testing.T) {
		entry := NewHistoryEntry(0, book, ReadingStatus("shelved"))
		if err := entry.Validate(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("minutes accumulate", func(t *testing.T) {
		entry := NewHistoryEntry(0, book, StatusReading)
		entry.AddMinutesRead(30)
		entry.AddMinutesRead(15)
		if entry.MinutesRead() != 45 {
			t.Errorf("expected 45 minutes, got %d", entry.MinutesRead())
		}
	})
}

func TestValidStatus(t *testing.T) {
	for _, s := range []ReadingStatus{StatusReading, StatusWantToRead, StatusCompleted} {
		if !ValidStatus(s) {
			t.Errorf("expected %s valid", s)
		}
	}
	if ValidStatus("paused") {
		t.Error("expected paused invalid")
	}
}

func TestReadingGoal(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	t.Run("progress percent", func(t *testing.T) {
		goal := NewReadingGoal(0, GoalBooks, 4, "monthly", start, end)
		goal.SetCurrent(1)
		if got := goal.ProgressPercent(); got != 25 {
			t.Errorf("expected 25, got %v", got)
		}

		zero := NewReadingGoal(0, GoalBooks, 0, "monthly", start, end)
		if got := zero.ProgressPercent(); got != 0 {
			t.Errorf("expected 0 for a zero target, got %v", got)
		}
	})

	t.Run("target formatting", func(t *testing.T) {
		cases := []struct {
			goalType GoalType
			want     string
		}{
			{goalType: GoalBooks, want: "12 books"},
			{goalType: GoalPages, want: "12 pages"},
			{goalType: GoalTime, want: "12 minutes"},
		}
		for _, tc := range cases {
			goal := NewReadingGoal(0, tc.goalType, 12, "monthly", start, end)
			if got := goal.FormatTarget(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		}
	})

	t.Run("validation", func(t *testing.T) {
		if err := NewReadingGoal(0, GoalBooks, 5, "monthly", start, end).Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := NewReadingGoal(0, GoalType("steps"), 5, "monthly", start, end).Validate(); err == nil {
			t.Error("expected an error for an unknown type")
		}
		if err := NewReadingGoal(0, GoalBooks, 5, "monthly", end, start).Validate(); err == nil {
			t.Error("expected an error for an inverted window")
		}
	})
}
