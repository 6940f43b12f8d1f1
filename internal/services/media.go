// External media host upload client for book covers.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// maxCoverBytes is the largest accepted cover image (5MB).
const maxCoverBytes = 5 * 1024 * 1024

// MediaUploader posts cover images to the external image-hosting provider.
//
// This is a direct client of the provider's unauthenticated upload endpoint,
// outside the platform's own API.
type MediaUploader struct {
	uploadURL    string
	uploadPreset string
	folder       string
	httpClient   *http.Client
}

// NewMediaUploader creates an uploader for the given provider endpoint.
func NewMediaUploader(uploadURL, uploadPreset, folder string, client *http.Client) *MediaUploader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &MediaUploader{
		uploadURL:    uploadURL,
		uploadPreset: uploadPreset,
		folder:       folder,
		httpClient:   client,
	}
}

// mediaResponse is the provider's upload reply.
type mediaResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

// Upload posts the image and returns the hosted URL.
//
// Validation of type and size happens in the upload form before this call;
// the uploader only rejects what it cannot send.
func (m *MediaUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image data")
	}
	if len(data) > maxCoverBytes {
		return "", fmt.Errorf("image exceeds %d bytes", maxCoverBytes)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}

	fields := map[string]string{
		"upload_preset": m.uploadPreset,
		"folder":        m.folder,
		"timestamp":     fmt.Sprintf("%d", time.Now().Unix()),
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("media host error: status %d", resp.StatusCode)
	}

	var result mediaResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	if result.URL != "" {
		return result.URL, nil
	}
	return "", fmt.Errorf("media host returned no URL")
}
