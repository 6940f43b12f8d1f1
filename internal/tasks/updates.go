package tasks

import (
	"fmt"

	"github.com/desertthunder/novtok/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchCatalog Phase = iota
	CacheBooks
	FetchChapters
	ExportBook
	SyncHistory
)

func (p Phase) String() string {
	switch p {
	case FetchCatalog:
		return "fetch_catalog"
	case CacheBooks:
		return "cache_books"
	case FetchChapters:
		return "fetch_chapters"
	case ExportBook:
		return "export_book"
	case SyncHistory:
		return "sync_history"
	default:
		return ""
	}
}

func fetchPageUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalog,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching catalog page %d/%d...", step, total),
	}
}

func cacheBookUpdate(step, total int, book models.Book) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheBooks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, book.Author, book.Title),
	}
}

func exportingBookUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportBook,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, title),
	}
}

func exportCompletedUpdate(step, total int, title string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportBook,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, title, filesCount),
	}
}

func exportFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportBook,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}
