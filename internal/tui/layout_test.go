package tui

import (
	"strings"
	"testing"
)

func TestNormalizePanePadsAndTruncates(t *testing.T) {
	t.Parallel()

	out := normalizePane("ab\nthis line is far too long", 10, 4)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	if lines[0] != "ab        " {
		t.Fatalf("short line not padded: %q", lines[0])
	}
	if lines[1] != "this line…" {
		t.Fatalf("long line not truncated: %q", lines[1])
	}
	if lines[2] != strings.Repeat(" ", 10) || lines[3] != strings.Repeat(" ", 10) {
		t.Fatal("missing blank fill lines")
	}
}

func TestNormalizePaneClampsHeight(t *testing.T) {
	t.Parallel()

	out := normalizePane("a\nb\nc\nd", 1, 2)
	if got := len(strings.Split(out, "\n")); got != 2 {
		t.Fatalf("lines = %d, want 2", got)
	}
}
