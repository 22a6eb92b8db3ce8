package ui

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  short  ", 10, "short"},
		{"abcdefghij", 0, "abcdefghij"},
		{"abcdefghij", 3, "abc"},
		{"abcdefghij", 8, "abcde..."},
		{"äöüäöüäöü", 6, "äöü..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("http://magnetdb.example.org:8000", 11)
	if got != "http:…:8000" {
		t.Fatalf("truncateMiddle url = %q", got)
	}
	if n := len([]rune(got)); n != 11 {
		t.Fatalf("truncateMiddle length = %d, want 11", n)
	}
}

func TestNextValue(t *testing.T) {
	values := []string{"a", "b"}
	steps := []string{"a", "b", "", "a"}
	current := ""
	for i, want := range steps {
		current = nextValue(values, current)
		if current != want {
			t.Fatalf("step %d: nextValue = %q, want %q", i, current, want)
		}
	}
	if got := nextValue(values, "unknown"); got != "" {
		t.Fatalf("unknown value should reset, got %q", got)
	}
	if got := nextValue(nil, "a"); got != "" {
		t.Fatalf("empty list should give empty, got %q", got)
	}
}

func TestOrDash(t *testing.T) {
	if orDash(" ") != "—" || orDash("x") != "x" {
		t.Fatalf("orDash mismatch")
	}
}
