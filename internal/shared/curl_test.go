package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	t.Run("extracts the bearer token", func(t *testing.T) {
		cmd := `curl 'https://api.novtok.app/api/books' \
  -H 'Accept: application/json' \
  -H 'Authorization: Bearer tok-abc123' \
  -H 'Referer: https://novtok.app/'`

		session, err := ParseCurlCommand([]byte(cmd))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.Token != "tok-abc123" {
			t.Errorf("unexpected token: %q", session.Token)
		}
		if session.Headers["Accept"] != "application/json" {
			t.Errorf("unexpected headers: %v", session.Headers)
		}
	})

	t.Run("accepts double-quoted headers", func(t *testing.T) {
		cmd := `curl "https://api.novtok.app/api/books" -H "authorization: Bearer tok-xyz"`

		session, err := ParseCurlCommand([]byte(cmd))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.Token != "tok-xyz" {
			t.Errorf("unexpected token: %q", session.Token)
		}
	})

	t.Run("errors without an authorization header", func(t *testing.T) {
		cmd := `curl 'https://api.novtok.app/api/books' -H 'Accept: application/json'`
		if _, err := ParseCurlCommand([]byte(cmd)); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestParseCurlFile(t *testing.T) {
	t.Run("reads and parses a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.sh")
		cmd := `curl 'https://api.novtok.app/api/auth/user' -H 'Authorization: Bearer tok-file'`
		if err := os.WriteFile(path, []byte(cmd), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		session, err := ParseCurlFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.Token != "tok-file" {
			t.Errorf("unexpected token: %q", session.Token)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := ParseCurlFile(filepath.Join(t.TempDir(), "missing.sh")); err == nil {
			t.Error("expected an error")
		}
	})
}
