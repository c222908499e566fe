package linker

import (
	"strings"
	"testing"
)

func TestShellCommandCapturesStdout(t *testing.T) {
	out, err := shellCommand("echo", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Fatalf("expected stdout %q, got %q", "hello", out)
	}
}

func TestShellCommandMissingBinary(t *testing.T) {
	_, err := shellCommand("bfc-definitely-not-a-real-binary")
	if err == nil {
		t.Fatalf("expected an error for a nonexistent binary")
	}
	if !strings.Contains(err.Error(), "$PATH") {
		t.Fatalf("expected a not-on-$PATH message, got: %v", err)
	}
}

func TestShellCommandNonZeroExit(t *testing.T) {
	_, err := shellCommand("false")
	if err == nil {
		t.Fatalf("expected an error for a nonzero exit")
	}
}

func TestLinkWrapsCompilerError(t *testing.T) {
	// Use a compiler name that does not exist so we can assert on the
	// wrapped error message without depending on a real toolchain.
	err := Link("bfc-no-such-cc", "prog.o", "prog")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "link failed") {
		t.Fatalf("expected the error to be wrapped with context, got: %v", err)
	}
}
