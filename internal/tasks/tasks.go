// package tasks implements long-running catalog operations.
//
// The core abstraction is LibraryEngine, which orchestrates full catalog
// fetches, local caching, and bulk exports. Operations emit progress updates
// via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/services"
	"github.com/desertthunder/novtok/internal/shared"
)

// BookCacher persists catalog entries as they stream through the engine.
type BookCacher interface {
	CacheBook(book models.Book) error
}

// SyncResult contains all data from a full catalog fetch.
type SyncResult struct {
	Books       []models.Book // Every fetched catalog entry
	PagesLoaded int           // Pages requested
	CachedCount int           // Entries persisted to the local cache
	FailedPages []int         // Pages that could not be fetched
}

// LibraryEngine orchestrates catalog fetches and exports against the platform API.
type LibraryEngine struct {
	svc   services.Service
	cache BookCacher
}

// NewLibraryEngine creates a LibraryEngine. The cache is optional; a nil
// cacher disables local persistence.
func NewLibraryEngine(svc services.Service, cache BookCacher) *LibraryEngine {
	return &LibraryEngine{svc: svc, cache: cache}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// FetchAll pages through the entire catalog, caching entries locally.
//
// Individual page failures are recorded and skipped; the fetch only fails
// outright when the first page is unreachable.
func (e *LibraryEngine) FetchAll(ctx context.Context, progress chan<- ProgressUpdate, pageSize int, sort, order string) (*SyncResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	first, err := e.svc.Books(ctx, 1, pageSize, sort, order)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	result := &SyncResult{Books: first.Books, PagesLoaded: 1}
	totalPages := first.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	e.sendProgress(progress, fetchPageUpdate(1, totalPages))

	for page := 2; page <= totalPages; page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.sendProgress(progress, fetchPageUpdate(page, totalPages))

		pageResult, err := e.svc.Books(ctx, page, pageSize, sort, order)
		if err != nil {
			result.FailedPages = append(result.FailedPages, page)
			continue
		}
		result.Books = append(result.Books, pageResult.Books...)
		result.PagesLoaded++
	}

	if e.cache != nil {
		for i, book := range result.Books {
			e.sendProgress(progress, cacheBookUpdate(i+1, len(result.Books), book))
			if err := e.cache.CacheBook(book); err != nil {
				continue
			}
			result.CachedCount++
		}
	}

	return result, nil
}
