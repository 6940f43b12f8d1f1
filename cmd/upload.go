package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/novtok/internal/shared"
	"github.com/desertthunder/novtok/internal/upload"
)

// Upload assembles and submits a new book from flags, chapter files, or a PDF.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	form := upload.NewForm()
	form.Title = cmd.String("title")
	form.Author = cmd.String("author")
	form.ISBN = cmd.String("isbn")
	form.Description = cmd.String("description")
	form.Category = cmd.String("category")
	form.Language = cmd.String("language")
	if year := cmd.Int("year"); year > 0 {
		form.PublicationYear = strconv.Itoa(year)
	}
	form.Publisher = cmd.String("publisher")

	switch {
	case cmd.String("from-pdf") != "":
		path := cmd.String("from-pdf")
		r.logger.Info("importing chapters from PDF", "path", path)
		if err := form.ImportPDF(path); err != nil {
			return fmt.Errorf("failed to import PDF: %w", err)
		}
	case len(cmd.StringSlice("chapter")) > 0:
		if err := loadChapters(form, cmd.StringSlice("chapter")); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: provide --from-pdf or at least one --chapter", shared.ErrMissingArgument)
	}

	if coverPath := cmd.String("cover"); coverPath != "" {
		if err := r.attachCover(ctx, form, coverPath); err != nil {
			return err
		}
	}

	body, contentType, err := form.MultipartBody()
	if err != nil {
		return err
	}

	r.logger.Info("uploading book", "title", form.Title, "chapters", len(form.Chapters))

	book, err := r.svc.UploadBook(ctx, body, contentType)
	if err != nil {
		r.gate.HandleUnauthorized(err)
		return fmt.Errorf("upload failed: %w", err)
	}

	return r.writePlain("✓ Published %q (%s)\n", book.Title, shared.FormatCount(len(book.Chapters), "chapter"))
}

// loadChapters parses repeated --chapter flags of the form "Title=path".
func loadChapters(form *upload.Form, specs []string) error {
	form.Chapters = form.Chapters[:0]
	for _, spec := range specs {
		title, path, found := strings.Cut(spec, "=")
		if !found || shared.BlankString(title) || shared.BlankString(path) {
			return fmt.Errorf("%w: chapter must be 'Title=path', got %q", shared.ErrInvalidFlag, spec)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read chapter file: %w", err)
		}

		form.AddChapter()
		ch := &form.Chapters[len(form.Chapters)-1]
		ch.Title = strings.TrimSpace(title)
		ch.Content = string(content)
	}
	return nil
}

// attachCover validates the cover file locally, pushes it to the media host,
// and records the hosted URL on the form.
func (r *Runner) attachCover(ctx context.Context, form *upload.Form, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read cover image: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if err := upload.ValidateCover(mimeType, info.Size()); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read cover image: %w", err)
	}

	if r.media == nil {
		return fmt.Errorf("%w: media uploader not configured", shared.ErrServiceUnavailable)
	}

	url, err := r.media.Upload(ctx, filepath.Base(path), data)
	if err != nil {
		return fmt.Errorf("cover upload failed: %w", err)
	}

	form.CoverURL = url
	return nil
}
