package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/novtok/internal/shared"
	tu "github.com/desertthunder/novtok/internal/testing"
)

func TestNewRunner(t *testing.T) {
	t.Run("fills in defaults", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})

		if r.config == nil || r.logger == nil || r.output == nil || r.input == nil || r.httpClient == nil {
			t.Error("expected every default populated")
		}
		if r.config.API.PageSize == 0 {
			t.Error("expected the embedded default config")
		}
	})

	t.Run("keeps provided dependencies", func(t *testing.T) {
		var buf bytes.Buffer
		svc := &tu.MockService{}
		r := NewRunner(RunnerOpts{Service: svc, Output: &buf})

		if r.svc != svc {
			t.Error("expected the provided service")
		}
		if r.output != &buf {
			t.Error("expected the provided output")
		}
	})
}

func TestRegister(t *testing.T) {
	r := NewRunner(RunnerOpts{})
	commands := r.register()

	if len(commands) != 10 {
		t.Fatalf("expected 10 command groups, got %d", len(commands))
	}

	names := map[string]bool{}
	for _, cmd := range commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"setup", "auth", "books", "upload", "profile", "notifications", "export", "history", "goals", "tui"} {
		if !names[want] {
			t.Errorf("expected command %q", want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	t.Run("compact output", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writeJSON(map[string]int{"count": 3}, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "{\"count\":3}\n" {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("pretty output", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writeJSON(map[string]int{"count": 3}, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "  \"count\": 3") {
			t.Errorf("expected indented output, got %q", buf.String())
		}
	})

	t.Run("write failures surface", func(t *testing.T) {
		r := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
		if err := r.writeJSON(map[string]int{}, false); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("unmarshalable values error", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})
		if err := r.writeJSON(func() {}, false); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestWritePlain(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(RunnerOpts{Output: &buf})

	if err := r.writePlain("%d %s\n", 3, "books"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "3 books\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}

	r = NewRunner(RunnerOpts{Output: &tu.FWriter{}})
	if err := r.writePlain("fails"); err == nil {
		t.Error("expected an error")
	}
}

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{name: "valid", email: "reader@example.com", password: "secret1", wantErr: false},
		{name: "missing at sign", email: "reader.example.com", password: "secret1", wantErr: true},
		{name: "missing domain dot", email: "reader@example", password: "secret1", wantErr: true},
		{name: "empty email", email: "", password: "secret1", wantErr: true},
		{name: "short password", email: "reader@example.com", password: "12345", wantErr: true},
		{name: "minimum length password", email: "reader@example.com", password: "123456", wantErr: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateCredentials(tc.email, tc.password)
			if tc.wantErr && !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGoalWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		timeframe string
		wantEnd   time.Time
	}{
		{timeframe: "weekly", wantEnd: time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)},
		{timeframe: "monthly", wantEnd: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)},
		{timeframe: "yearly", wantEnd: time.Date(2027, 3, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.timeframe, func(t *testing.T) {
			start, end, err := goalWindow(tc.timeframe, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !start.Equal(now) || !end.Equal(tc.wantEnd) {
				t.Errorf("unexpected window: %v -> %v", start, end)
			}
		})
	}

	t.Run("unknown timeframe", func(t *testing.T) {
		if _, _, err := goalWindow("daily", now); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}
