package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/repositories"
	"github.com/desertthunder/novtok/internal/shared"
)

func (r *Runner) requireDB() error {
	if r.db == nil {
		return fmt.Errorf("%w: no local database (run `novtok setup database`)", shared.ErrMissingConfig)
	}
	return nil
}

// HistorySet records or updates a book's local reading status.
func (r *Runner) HistorySet(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	status := models.ReadingStatus(cmd.String("status"))
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidFlag, cmd.String("status"))
	}

	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	book, err := r.fetchBook(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	repo := repositories.NewHistoryRepository(r.db)

	entry, err := repo.GetByBook(book.ID)
	if err != nil {
		return err
	}
	if entry == nil {
		entry = models.NewHistoryEntry(0, *book, status)
		entry.SetChapterIndex(cmd.Int("chapter"))
		entry.AddMinutesRead(cmd.Int("minutes"))
		if err := repo.Create(entry); err != nil {
			return err
		}
		return r.writePlain("✓ %q marked %s\n", book.Title, status)
	}

	entry.SetStatus(status)
	if cmd.IsSet("chapter") {
		entry.SetChapterIndex(cmd.Int("chapter"))
	}
	entry.AddMinutesRead(cmd.Int("minutes"))
	entry.SetLastReadAt(time.Now())

	if err := repo.Update(entry); err != nil {
		return err
	}
	return r.writePlain("✓ %q marked %s\n", book.Title, status)
}

// HistoryList prints the local reading history.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	repo := repositories.NewHistoryRepository(r.db)
	entries, err := repo.List(map[string]any{"status": cmd.String("status")})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		rows := make([]map[string]any, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, map[string]any{
				"bookId":       e.RemoteBookID(),
				"title":        e.Title(),
				"author":       e.Author(),
				"status":       e.Status(),
				"chapterIndex": e.ChapterIndex(),
				"chapterCount": e.ChapterCount(),
				"minutesRead":  e.MinutesRead(),
				"lastReadAt":   e.LastReadAt(),
			})
		}
		return r.writeJSON(rows, true)
	}

	if len(entries) == 0 {
		return r.writePlain("No reading history yet\n")
	}

	r.writePlainHeader("Reading history")
	for _, e := range entries {
		r.writePlain("%s by %s — %s (chapter %d/%d, %s)\n",
			e.Title(), e.Author(), e.Status(), e.ChapterIndex()+1, e.ChapterCount(),
			shared.FormatCount(e.MinutesRead(), "minute"))
	}
	return nil
}

// goalWindow derives the goal's date window from its timeframe label.
func goalWindow(timeframe string, now time.Time) (time.Time, time.Time, error) {
	switch timeframe {
	case "weekly":
		return now, now.AddDate(0, 0, 7), nil
	case "monthly":
		return now, now.AddDate(0, 1, 0), nil
	case "yearly":
		return now, now.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown timeframe %q", shared.ErrInvalidFlag, timeframe)
	}
}

// GoalsAdd creates a new reading goal.
func (r *Runner) GoalsAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	start, end, err := goalWindow(cmd.String("timeframe"), time.Now())
	if err != nil {
		return err
	}

	goal := models.NewReadingGoal(0, models.GoalType(cmd.String("type")), cmd.Int("target"), cmd.String("timeframe"), start, end)

	repo := repositories.NewGoalRepository(r.db)
	if err := repo.Create(goal); err != nil {
		return err
	}

	return r.writePlain("✓ Goal created: %s by %s\n", goal.FormatTarget(), end.Format("2006-01-02"))
}

// GoalsList prints reading goals with their progress.
func (r *Runner) GoalsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	repo := repositories.NewGoalRepository(r.db)
	goals, err := repo.List(map[string]any{"status": cmd.String("status")})
	if err != nil {
		return err
	}

	if len(goals) == 0 {
		return r.writePlain("No reading goals yet\n")
	}

	r.writePlainHeader("Reading goals")
	for _, g := range goals {
		r.writePlain("%s  %s (%s): %d/%d (%.0f%%) — %s\n",
			g.ID(), g.FormatTarget(), g.Timeframe(), g.Current(), g.Target(), g.ProgressPercent(), g.Status())
	}
	return nil
}

// GoalsProgress adds progress toward a goal, completing it at the target.
func (r *Runner) GoalsProgress(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	repo := repositories.NewGoalRepository(r.db)
	goal, err := repo.AddProgress(cmd.StringArg("id"), cmd.Int("amount"))
	if err != nil {
		return err
	}

	if goal.Status() == "completed" {
		return r.writePlain("🎉 Goal completed: %s\n", goal.FormatTarget())
	}
	return r.writePlain("✓ Progress: %d/%d (%.0f%%)\n", goal.Current(), goal.Target(), goal.ProgressPercent())
}

// GoalsAchievements prints the badge table with unlock state from the local
// reading counters.
func (r *Runner) GoalsAchievements(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	counters, err := repositories.NewHistoryRepository(r.db).Counters()
	if err != nil {
		return err
	}

	r.writePlainHeader("Achievements")
	r.writePlain("Books completed: %d  Streak: %s  Hours read: %d\n\n",
		counters.BooksCompleted, shared.FormatCount(counters.StreakDays, "day"), counters.HoursRead)

	for _, badge := range models.DefaultBadges {
		mark := "✗"
		if badge.Unlocked(counters) {
			mark = "✓"
		}
		r.writePlain("%s %s — %s\n", mark, badge.Name, badge.Description)
	}
	return nil
}
