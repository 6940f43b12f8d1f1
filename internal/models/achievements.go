package models

// BadgeKind enumerates which reading counter a badge tracks.
type BadgeKind string

const (
	BadgeBooks  BadgeKind = "books"
	BadgeStreak BadgeKind = "streak"
	BadgeTime   BadgeKind = "time"
)

// Badge is a fixed achievement definition unlocked by local reading counters.
type Badge struct {
	Name        string
	Description string
	Requirement int
	Kind        BadgeKind
}

// DefaultBadges is the fixed achievement table.
var DefaultBadges = []Badge{
	{Name: "Bookworm Beginner", Description: "Read your first book", Requirement: 1, Kind: BadgeBooks},
	{Name: "Book Explorer", Description: "Read 5 books", Requirement: 5, Kind: BadgeBooks},
	{Name: "Reading Master", Description: "Read 10 books", Requirement: 10, Kind: BadgeBooks},
	{Name: "Reading Streak", Description: "7-day reading streak", Requirement: 7, Kind: BadgeStreak},
	{Name: "Time Champion", Description: "Read for 10 hours", Requirement: 10, Kind: BadgeTime},
}

// ReadingCounters aggregates the local stats badges unlock against.
type ReadingCounters struct {
	BooksCompleted int
	StreakDays     int
	HoursRead      int
}

// Unlocked reports whether the badge's requirement is met by the counters.
func (b Badge) Unlocked(c ReadingCounters) bool {
	switch b.Kind {
	case BadgeBooks:
		return c.BooksCompleted >= b.Requirement
	case BadgeStreak:
		return c.StreakDays >= b.Requirement
	case BadgeTime:
		return c.HoursRead >= b.Requirement
	default:
		return false
	}
}
