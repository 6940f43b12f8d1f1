package shared

import (
	"testing"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		name       string
		v, lo, hi  int
		want       int
	}{
		{name: "within range", v: 5, lo: 1, hi: 10, want: 5},
		{name: "below range", v: -3, lo: 1, hi: 10, want: 1},
		{name: "above range", v: 42, lo: 1, hi: 10, want: 10},
		{name: "at lower bound", v: 1, lo: 1, hi: 10, want: 1},
		{name: "at upper bound", v: 10, lo: 1, hi: 10, want: 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
				t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tc.v, tc.lo, tc.hi, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{name: "short string untouched", s: "hello", n: 10, want: "hello"},
		{name: "exact length untouched", s: "hello", n: 5, want: "hello"},
		{name: "cut with ellipsis", s: "hello world", n: 8, want: "hello w…"},
		{name: "multibyte runes", s: "北京欢迎你", n: 3, want: "北京…"},
		{name: "single rune budget", s: "hello", n: 1, want: "h"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Truncate(tc.s, tc.n); got != tc.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tc.s, tc.n, got, tc.want)
			}
		})
	}
}

func TestBlankString(t *testing.T) {
	for _, s := range []string{"", " ", "\t\n", "   "} {
		if !BlankString(s) {
			t.Errorf("expected %q to be blank", s)
		}
	}
	for _, s := range []string{"a", " a ", "0"} {
		if BlankString(s) {
			t.Errorf("expected %q to be non-blank", s)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1, "chapter"); got != "1 chapter" {
		t.Errorf("unexpected singular: %q", got)
	}
	if got := FormatCount(3, "chapter"); got != "3 chapters" {
		t.Errorf("unexpected plural: %q", got)
	}
	if got := FormatCount(0, "book"); got != "0 books" {
		t.Errorf("unexpected zero: %q", got)
	}
}

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()
	if first == second {
		t.Error("expected unique ids")
	}
	if len(first) != 36 {
		t.Errorf("expected a uuid string, got %q", first)
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"count": 3}

	compact, err := MarshalJSON(v, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(compact) != `{"count":3}` {
		t.Errorf("unexpected compact output: %s", compact)
	}

	indented, err := MarshalJSON(v, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(indented) != "{\n  \"count\": 3\n}" {
		t.Errorf("unexpected indented output: %s", indented)
	}
}
