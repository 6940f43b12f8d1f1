// package formatter provides functions to export book data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/novtok/internal/models"
	"github.com/desertthunder/novtok/internal/shared"
)

// ExportToCSV converts a book's chapter list to CSV format with columns: Number, Title, Words
func ExportToCSV(book models.Book) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Number", "Title", "Words"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, chapter := range book.Chapters {
		record := []string{
			strconv.Itoa(chapter.ChapterNumber),
			chapter.Title,
			strconv.Itoa(wordCount(chapter.Content)),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func wordCount(s string) int {
	count := 0
	inWord := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}

// ExportToMarkdown converts a book to Markdown format with optional cover image
func ExportToMarkdown(book models.Book, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", book.Title))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Author**: %s\n", book.Author))
	if book.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n", book.Description))
	}
	if book.ISBN != "" {
		buf.WriteString(fmt.Sprintf("**ISBN**: %s\n", book.ISBN))
	}
	buf.WriteString(fmt.Sprintf("**Chapters**: %d\n", len(book.Chapters)))
	if book.Rating.TotalRatings > 0 {
		buf.WriteString(fmt.Sprintf("**Rating**: %.1f (%s)\n", book.Rating.AverageRating, shared.FormatCount(book.Rating.TotalRatings, "rating")))
	}
	buf.WriteString("\n")

	for _, chapter := range book.Chapters {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", chapter.ChapterNumber, chapter.Title))
		buf.WriteString(chapter.Content)
		buf.WriteString("\n\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a book to plain text format
func ExportToText(book models.Book) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Title: %s\n", book.Title))
	buf.WriteString(fmt.Sprintf("Author: %s\n", book.Author))
	buf.WriteString(fmt.Sprintf("Chapters: %d\n\n", len(book.Chapters)))

	for _, chapter := range book.Chapters {
		buf.WriteString(fmt.Sprintf("%d. %s\n\n", chapter.ChapterNumber, chapter.Title))
		buf.WriteString(chapter.Content)
		buf.WriteString("\n\n")
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of book metadata (without chapter content)
func ToMetadataJSON(book models.Book) ([]byte, error) {
	book.Chapters = nil
	return shared.MarshalJSON(book, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ChaptersFile string
	MetadataFile string
}

// WriteCSVExport exports a book to CSV format with an accompanying metadata JSON file.
//
// Defaults to the book ID as the base filename & creates {base}_chapters.csv and {base}_metadata.json
func WriteCSVExport(book models.Book, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = book.ID
	}

	csvData, err := ExportToCSV(book)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	chaptersFile := baseFilepath + "_chapters.csv"
	if err := os.WriteFile(chaptersFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(book)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ChaptersFile: chaptersFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a book to Markdown format in a dedicated directory.
//
// Directory name defaults to the book ID.
// The imageURL parameter is optional - if provided, attempts to download the cover image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(book models.Book, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = book.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := fmt.Sprintf("%s/%s", outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(book, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a book to plain text format.
//
// Defaults to {book.ID}.txt as the filename.
func WriteTextExport(book models.Book, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s.txt", book.ID)
	}

	textData, err := ExportToText(book)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
