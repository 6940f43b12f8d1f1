package upload

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// ImportPDF replaces the form's chapters with drafts extracted from a local
// PDF, one chapter per non-blank page, densely renumbered. The drafts still
// need titles edited before the form validates.
func (f *Form) ImportPDF(path string) error {
	file, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	var chapters []models.Chapter
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		if shared.BlankString(text) {
			continue
		}

		chapters = append(chapters, models.Chapter{
			Title:         fmt.Sprintf("Chapter %d", len(chapters)+1),
			Content:       strings.TrimSpace(text),
			ChapterNumber: len(chapters) + 1,
		})
	}

	if len(chapters) == 0 {
		return fmt.Errorf("%w: pdf contains no extractable text", shared.ErrInvalidInput)
	}

	f.Chapters = chapters
	return nil
}
