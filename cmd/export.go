package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/novtok/internal/formatter"
	"github.com/desertthunder/novtok/internal/shared"
	"github.com/desertthunder/novtok/internal/tasks"
)

// ExportBook exports a single book to disk in the requested format.
func (r *Runner) ExportBook(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	book, err := r.fetchBook(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	format := cmd.String("format")
	output := cmd.String("output")
	if output == "" {
		output = strings.ToLower(strings.ReplaceAll(book.Title, " ", "_"))
	}

	switch format {
	case "markdown":
		imageURL := ""
		if cmd.Bool("cover") {
			imageURL = book.CoverImageURL
		}
		result, err := formatter.WriteMarkdownExport(*book, output, imageURL)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %q to %s\n", book.Title, strings.Join(result.Files, ", "))
	case "csv":
		result, err := formatter.WriteCSVExport(*book, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %q to %s and %s\n", book.Title, result.ChaptersFile, result.MetadataFile)
	case "txt":
		path, err := formatter.WriteTextExport(*book, output+".txt")
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %q to %s\n", book.Title, path)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// ExportAll mirrors the catalog and exports every book with a worker pool.
func (r *Runner) ExportAll(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}
	if r.engine == nil {
		return fmt.Errorf("%w: library engine not initialized (run `novtok setup database`)", shared.ErrServiceUnavailable)
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	sync, err := r.engine.FetchAll(ctx, progress, r.config.API.PageSize, "createdAt", "desc")
	if err != nil {
		close(progress)
		<-done
		return fmt.Errorf("catalog fetch failed: %w", err)
	}

	result, err := r.engine.BulkExport(ctx, progress, sync.Books, tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		WithCovers: cmd.Bool("covers"),
	})
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("bulk export failed: %w", err)
	}

	r.writePlainHeader("Export complete")
	r.writePlain("Succeeded: %d/%d\n", result.Succeeded, result.TotalBooks)
	if result.Failed > 0 {
		r.writePlain("Failed: %d\n", result.Failed)
		for _, failure := range result.Errors {
			r.writePlain("  ✗ %s: %v\n", failure.Title, failure.Err)
		}
	}
	r.writePlain("Output: %s\nManifest: %s\n", result.OutputDirectory, result.ManifestFile)
	return nil
}

// ExportSync mirrors the remote catalog into the local cache without writing
// any export files.
func (r *Runner) ExportSync(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}
	if r.engine == nil {
		return fmt.Errorf("%w: library engine not initialized (run `novtok setup database`)", shared.ErrServiceUnavailable)
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := r.engine.FetchAll(ctx, progress, r.config.API.PageSize, "createdAt", "desc")
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r.writePlain("✓ Cached %s from %s\n",
		shared.FormatCount(result.CachedCount, "book"), shared.FormatCount(result.PagesLoaded, "page"))
	if len(result.FailedPages) > 0 {
		r.writePlain("⚠ %s could not be loaded\n", shared.FormatCount(len(result.FailedPages), "page"))
	}
	return nil
}
