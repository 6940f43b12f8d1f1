package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/novtok/internal/collection"
	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// BooksList prints one page of the catalog with local filters applied.
func (r *Runner) BooksList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	sort := collection.NormalizeSortField(cmd.String("sort"))
	if !collection.ValidSortField(sort) {
		return fmt.Errorf("%w: unknown sort field %q", shared.ErrInvalidFlag, sort)
	}

	view := collection.NewView(r.svc, r.gate.UserID(), r.config.API.PageSize, r.logger)
	gen := view.BeginFetch()
	page, err := view.Fetch(ctx, cmd.Int("page"), sort, cmd.String("order"))
	view.ApplyFetch(gen, page, err)

	if lastErr := view.LastError(); lastErr != "" {
		r.writePlain("⚠ %s\n", lastErr)
	}

	filters := collection.Filters{
		SearchText:   cmd.String("search"),
		FavoriteOnly: cmd.Bool("favorites"),
	}
	if statuses := cmd.String("status"); statuses != "" {
		filters.StatusFilters = strings.Split(statuses, ",")
	}

	visible := view.Visible(filters)

	if cmd.Bool("json") {
		return r.writeJSON(visible, true)
	}

	r.writePlainHeader(fmt.Sprintf("Books — page %d of %d", view.Page(), view.TotalPages()))
	for _, book := range visible {
		r.writePlain("%s  %s by %s (%s, %s)\n",
			book.ID, book.Title, book.Author, book.Category, shared.FormatCount(len(book.Chapters), "chapter"))
	}

	pages, jump := view.PageWindow()
	var pager strings.Builder
	for _, p := range pages {
		if p == view.Page() {
			pager.WriteString(fmt.Sprintf("[%d] ", p))
		} else {
			pager.WriteString(fmt.Sprintf("%d ", p))
		}
	}
	if jump {
		pager.WriteString(fmt.Sprintf("… %d", view.TotalPages()))
	}
	return r.writePlain("\n%s\n", pager.String())
}

// fetchBook pages through the catalog until it finds the book with the given
// id. The platform has no single-book endpoint, so this mirrors how the web
// client resolves deep links.
func (r *Runner) fetchBook(ctx context.Context, bookID string) (*models.Book, error) {
	if bookID == "" {
		return nil, fmt.Errorf("%w: book id", shared.ErrMissingArgument)
	}

	page := 1
	for {
		result, err := r.svc.Books(ctx, page, r.config.API.PageSize, "createdAt", "desc")
		if err != nil {
			return nil, err
		}
		for _, book := range result.Books {
			if book.ID == bookID {
				return &book, nil
			}
		}
		if page >= result.TotalPages || len(result.Books) == 0 {
			return nil, fmt.Errorf("%w: %s", shared.ErrBookNotFound, bookID)
		}
		page++
	}
}

// BooksShow prints a book's metadata and chapter listing.
func (r *Runner) BooksShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	book, err := r.fetchBook(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(book, true)
	}

	r.writePlainHeader(book.Title)
	r.writePlain("Author: %s\nCategory: %s\nLanguage: %s\n", book.Author, book.Category, book.Language)
	r.writePlain("Rating: %.1f (%s)\n", book.Rating.AverageRating, shared.FormatCount(book.Rating.TotalRatings, "rating"))
	r.writePlain("Likes: %d  Favorites: %d  Downloads: %d\n", len(book.Likes), len(book.Favorites), book.Downloads)
	if len(book.Tags) > 0 {
		r.writePlain("Tags: %s\n", strings.Join(book.Tags, ", "))
	}
	if book.Description != "" {
		r.writePlain("\n%s\n", book.Description)
	}
	r.writePlain("\nChapters:\n")
	for _, ch := range book.Chapters {
		r.writePlain("  %d. %s\n", ch.ChapterNumber, ch.Title)
	}
	return nil
}

// BooksLike toggles the like on a book.
func (r *Runner) BooksLike(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	book, err := r.svc.ToggleLike(ctx, cmd.StringArg("id"))
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}

	if book.LikedBy(r.gate.UserID()) {
		return r.writePlain("✓ Liked %q (%d likes)\n", book.Title, len(book.Likes))
	}
	return r.writePlain("✓ Unliked %q (%d likes)\n", book.Title, len(book.Likes))
}

// BooksFavorite toggles the favorite on a book.
func (r *Runner) BooksFavorite(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	book, err := r.svc.ToggleFavorite(ctx, cmd.StringArg("id"))
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}

	if book.FavoritedBy(r.gate.UserID()) {
		return r.writePlain("✓ Added %q to favorites\n", book.Title)
	}
	return r.writePlain("✓ Removed %q from favorites\n", book.Title)
}

// BooksRate submits a star rating for a book.
func (r *Runner) BooksRate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	stars := cmd.Int("stars")
	book, err := r.svc.Rate(ctx, cmd.StringArg("id"), stars)
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}

	return r.writePlain("✓ Rated %q %d stars (average %.1f from %s)\n",
		book.Title, stars, book.Rating.AverageRating, shared.FormatCount(book.Rating.TotalRatings, "rating"))
}

// BooksComments lists a book's comments.
func (r *Runner) BooksComments(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	comments, err := r.svc.Comments(ctx, cmd.StringArg("id"))
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}

	if len(comments) == 0 {
		return r.writePlain("No comments yet\n")
	}
	for _, c := range comments {
		r.writePlain("%s: %s\n", c.UserName, c.Content)
	}
	return nil
}

// BooksComment adds a comment to a book. Blank comments are rejected locally.
func (r *Runner) BooksComment(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	text := cmd.StringArg("text")
	if shared.BlankString(text) {
		return fmt.Errorf("%w: comment cannot be empty", shared.ErrValidation)
	}

	comment, err := r.svc.AddComment(ctx, cmd.StringArg("id"), text)
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}

	return r.writePlain("✓ Comment added by %s\n", comment.UserName)
}

// BooksTag adds a tag to a book.
func (r *Runner) BooksTag(ctx context.Context, cmd *cli.Command) error {
	return r.updateTags(ctx, cmd, true)
}

// BooksUntag removes a tag from a book.
func (r *Runner) BooksUntag(ctx context.Context, cmd *cli.Command) error {
	return r.updateTags(ctx, cmd, false)
}

func (r *Runner) updateTags(ctx context.Context, cmd *cli.Command, add bool) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	tag := strings.TrimSpace(cmd.StringArg("tag"))
	if tag == "" {
		return fmt.Errorf("%w: tag cannot be empty", shared.ErrValidation)
	}

	book, err := r.fetchBook(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if add == book.HasTag(tag) {
		return r.writePlain("Nothing to do: tag %q already in that state\n", tag)
	}

	var tags []string
	if add {
		tags = append(append(tags, book.Tags...), tag)
	} else {
		for _, t := range book.Tags {
			if t != tag {
				tags = append(tags, t)
			}
		}
	}

	updated, err := r.svc.UpdateBook(ctx, book.ID, map[string]any{"tags": tags})
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}

	return r.writePlain("✓ Tags for %q: %s\n", updated.Title, strings.Join(updated.Tags, ", "))
}

// BooksUpdate updates a book's notes or status.
func (r *Runner) BooksUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	fields := map[string]any{}
	if cmd.IsSet("notes") {
		fields["notes"] = cmd.String("notes")
	}
	if cmd.IsSet("status") {
		fields["status"] = cmd.String("status")
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	book, err := r.svc.UpdateBook(ctx, cmd.StringArg("id"), fields)
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}
	return r.writePlain("✓ Updated %q\n", book.Title)
}

// BooksDelete deletes a book.
func (r *Runner) BooksDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if err := r.svc.DeleteBook(ctx, id); err != nil {
		r.gate.HandleUnauthorized(err)
		return err
	}
	return r.writePlain("✓ Deleted book %s\n", id)
}

// BooksOpen opens a book's cover image in the default browser.
func (r *Runner) BooksOpen(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	book, err := r.fetchBook(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	if book.CoverImageURL == "" {
		return fmt.Errorf("%w: book has no cover image", shared.ErrBookNotFound)
	}

	r.logger.Info("opening cover image", "url", book.CoverImageURL)
	return shared.OpenBrowser(book.CoverImageURL)
}
