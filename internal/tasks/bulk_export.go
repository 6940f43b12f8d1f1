package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/novtok/internal/formatter"
	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// BulkExportOpts contains configuration for bulk book exports.
type BulkExportOpts struct {
	Format     string  // Export format: markdown, csv, txt
	OutputDir  string  // Base output directory (default: novtok_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Exports started per second (default: 5)
	WithCovers bool    // Download cover images for markdown exports
}

// BookExportError records a single failed export.
type BookExportError struct {
	BookID string
	Title  string
	Err    error
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	TotalBooks      int
	Succeeded       int
	Failed          int
	OutputDirectory string
	ManifestFile    string
	Errors          []BookExportError
}

// BulkExport exports multiple books concurrently with rate limiting and progress tracking.
//
// Implements a worker pool over the formatter's writers, handles partial
// failures gracefully, and generates a manifest file summarizing results.
func (e *LibraryEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, books []models.Book, opts BulkExportOpts) (*BulkExportResult, error) {
	if len(books) == 0 {
		return nil, fmt.Errorf("%w: no books to export", shared.ErrInvalidInput)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("novtok_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	switch opts.Format {
	case "markdown", "csv", "txt":
	case "":
		opts.Format = "markdown"
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, opts.Format)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalBooks:      len(books),
		OutputDirectory: opts.OutputDir,
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	type job struct {
		index int
		book  models.Book
	}
	jobs := make(chan job)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for w := 0; w < opts.NumWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					mu.Lock()
					result.Failed++
					result.Errors = append(result.Errors, BookExportError{BookID: j.book.ID, Title: j.book.Title, Err: err})
					mu.Unlock()
					continue
				}

				e.sendProgress(prog, exportingBookUpdate(j.index+1, len(books), j.book.Title))

				files, err := exportOne(j.book, opts)
				mu.Lock()
				if err != nil {
					result.Failed++
					result.Errors = append(result.Errors, BookExportError{BookID: j.book.ID, Title: j.book.Title, Err: err})
					mu.Unlock()
					e.sendProgress(prog, exportFailedUpdate(j.index+1, len(books), j.book.Title, err))
					continue
				}
				result.Succeeded++
				mu.Unlock()
				e.sendProgress(prog, exportCompletedUpdate(j.index+1, len(books), j.book.Title, files))
			}
		}()
	}

	for i, book := range books {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return result, ctx.Err()
		case jobs <- job{index: i, book: book}:
		}
	}
	close(jobs)
	wg.Wait()

	manifest, err := writeManifest(result, opts)
	if err != nil {
		return result, err
	}
	result.ManifestFile = manifest

	return result, nil
}

func exportOne(book models.Book, opts BulkExportOpts) (int, error) {
	base := filepath.Join(opts.OutputDir, exportSlug(book))

	switch opts.Format {
	case "markdown":
		imageURL := ""
		if opts.WithCovers {
			imageURL = book.CoverImageURL
		}
		md, err := formatter.WriteMarkdownExport(book, base, imageURL)
		if err != nil {
			return 0, err
		}
		return len(md.Files), nil
	case "csv":
		csvResult, err := formatter.WriteCSVExport(book, base)
		if err != nil {
			return 0, err
		}
		files := 0
		if csvResult.ChaptersFile != "" {
			files++
		}
		if csvResult.MetadataFile != "" {
			files++
		}
		return files, nil
	case "txt":
		if _, err := formatter.WriteTextExport(book, base+".txt"); err != nil {
			return 0, err
		}
		return 1, nil
	}

	return 0, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, opts.Format)
}

// exportSlug derives a filesystem-safe name for a book's export artifacts.
func exportSlug(book models.Book) string {
	name := book.Title
	if name == "" {
		name = book.ID
	}
	name = strings.ToLower(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return book.ID
	}
	return b.String()
}

func writeManifest(result *BulkExportResult, opts BulkExportOpts) (string, error) {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Export completed at %s\n", time.Now().Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("Format: %s\n", opts.Format))
	buf.WriteString(fmt.Sprintf("Total: %d\nSucceeded: %d\nFailed: %d\n", result.TotalBooks, result.Succeeded, result.Failed))

	for _, failure := range result.Errors {
		buf.WriteString(fmt.Sprintf("FAILED %s (%s): %v\n", failure.Title, failure.BookID, failure.Err))
	}

	path := filepath.Join(opts.OutputDir, "manifest.txt")
	if err := os.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}
