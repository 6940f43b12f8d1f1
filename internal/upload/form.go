// package upload implements the book creation form: metadata, the dynamic
// chapter list, cover validation, and multipart assembly.
package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// MaxCoverBytes is the largest accepted cover image (5MB).
const MaxCoverBytes = 5 * 1024 * 1024

// Form collects book metadata and an ordered chapter list before submission.
type Form struct {
	Title           string
	Author          string
	Description     string
	ISBN            string
	Category        string
	PublicationYear string
	Publisher       string
	Language        string
	Chapters        []models.Chapter
	CoverURL        string
}

// NewForm returns a form in its initial state: default category and language,
// one empty chapter.
func NewForm() *Form {
	f := &Form{}
	f.Reset()
	return f
}

// Reset returns the form to its initial empty single-chapter state.
func (f *Form) Reset() {
	*f = Form{
		Category: "Fiction",
		Language: "English",
		Chapters: []models.Chapter{{ChapterNumber: 1}},
	}
}

// AddChapter appends a new empty chapter numbered after the current count.
func (f *Form) AddChapter() {
	f.Chapters = append(f.Chapters, models.Chapter{ChapterNumber: len(f.Chapters) + 1})
}

// RemoveChapter deletes the chapter at index and renumbers the rest to a
// dense 1-based sequence. Removing the last remaining chapter is rejected.
func (f *Form) RemoveChapter(index int) error {
	if len(f.Chapters) <= 1 {
		return fmt.Errorf("%w: cannot remove the last chapter", shared.ErrValidation)
	}
	if index < 0 || index >= len(f.Chapters) {
		return fmt.Errorf("%w: chapter index out of range", shared.ErrInvalidArgument)
	}

	f.Chapters = append(f.Chapters[:index], f.Chapters[index+1:]...)
	for i := range f.Chapters {
		f.Chapters[i].ChapterNumber = i + 1
	}
	return nil
}

// ValidateCover checks a candidate cover image before any upload attempt.
// The two failure classes stay distinguishable: [shared.ErrCoverNotImage]
// and [shared.ErrCoverTooLarge].
func ValidateCover(mimeType string, size int64) error {
	if !strings.HasPrefix(mimeType, "image/") {
		return shared.ErrCoverNotImage
	}
	if size > MaxCoverBytes {
		return shared.ErrCoverTooLarge
	}
	return nil
}

// Validate checks the form is submittable: title, author, and ISBN present,
// and every chapter carrying both a title and content. Nothing is sent over
// the network when validation fails.
func (f *Form) Validate() error {
	if shared.BlankString(f.Title) {
		return fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if shared.BlankString(f.Author) {
		return fmt.Errorf("%w: author is required", shared.ErrValidation)
	}
	if shared.BlankString(f.ISBN) {
		return fmt.Errorf("%w: isbn is required", shared.ErrValidation)
	}

	for i, ch := range f.Chapters {
		if shared.BlankString(ch.Title) {
			return fmt.Errorf("%w: chapter %d is missing a title", shared.ErrValidation, i+1)
		}
		if shared.BlankString(ch.Content) {
			return fmt.Errorf("%w: chapter %d is missing content", shared.ErrValidation, i+1)
		}
	}

	return nil
}

// MultipartBody assembles the submission body. Chapters travel as one
// JSON-encoded field; scalar metadata as plain form fields.
func (f *Form) MultipartBody() (*bytes.Buffer, string, error) {
	if err := f.Validate(); err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	chapters, err := json.Marshal(f.Chapters)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode chapters: %w", err)
	}

	fields := map[string]string{
		"title":           f.Title,
		"author":          f.Author,
		"description":     f.Description,
		"isbn":            f.ISBN,
		"category":        f.Category,
		"publicationYear": f.PublicationYear,
		"publisher":       f.Publisher,
		"language":        f.Language,
		"chapters":        string(chapters),
	}
	if f.CoverURL != "" {
		fields["coverImage"] = f.CoverURL
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
