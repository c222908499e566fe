package diagnostics

import (
	"strings"
	"testing"

	"bfc/internal/bfir"
)

func TestRenderWithCaret(t *testing.T) {
	source := "+++[-]++"
	info := NewInfo(LevelWarning, "prog.bf", Warning{
		Message:  "These instructions have no effect.",
		Position: &bfir.Position{Start: 6, End: 7},
	}).WithSource(source)

	out := Render(info, false)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	if lines[1] != source {
		t.Fatalf("expected source line echoed, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "      ^~") {
		t.Fatalf("expected caret at column 6 spanning one extra byte, got %q", lines[2])
	}
	if !strings.Contains(lines[0], "prog.bf:1:7") {
		t.Fatalf("expected 1-based line:column in header, got %q", lines[0])
	}
}

func TestRenderWithoutSourceSkipsCaret(t *testing.T) {
	info := NewInfo(LevelError, "prog.bf", Warning{Message: "This [ has no matching ]"})
	out := Render(info, false)
	if strings.Contains(out, "^") {
		t.Fatalf("did not expect a caret without source text: %q", out)
	}
}

func TestRenderColorWrapsLevelAndCarets(t *testing.T) {
	info := NewInfo(LevelError, "prog.bf", Warning{
		Message:  "bad",
		Position: &bfir.Position{Start: 0, End: 0},
	}).WithSource("x")

	out := Render(info, true)
	if !strings.Contains(out, colorRed) {
		t.Fatalf("expected red color code in error rendering: %q", out)
	}
}
