package runtime

import (
	"bytes"
	"strings"
	"testing"

	"bfc/internal/bfir"
	"bfc/internal/parser"
)

func mustParse(t *testing.T, src string) []bfir.Node {
	t.Helper()
	instrs, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return instrs
}

func TestInterpreterHelloCell(t *testing.T) {
	instrs := mustParse(t, "++++++++[>++++++++<-]>.")
	var out bytes.Buffer
	ip := New(strings.NewReader(""), &out)
	if err := ip.Run(instrs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 || out.Bytes()[0] != 64 {
		t.Fatalf("expected output byte 64, got %v", out.Bytes())
	}
}

func TestInterpreterReadEchoesInput(t *testing.T) {
	instrs := mustParse(t, ",.")
	var out bytes.Buffer
	ip := New(strings.NewReader("A"), &out)
	if err := ip.Run(instrs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 || out.Bytes()[0] != 'A' {
		t.Fatalf("expected echoed 'A', got %v", out.Bytes())
	}
}

func TestInterpreterReadOnEOFLeavesCellUnchanged(t *testing.T) {
	instrs := mustParse(t, "+,.")
	var out bytes.Buffer
	ip := New(strings.NewReader(""), &out)
	if err := ip.Run(instrs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 || out.Bytes()[0] != 1 {
		t.Fatalf("expected the pre-Read value 1 to survive EOF, got %v", out.Bytes())
	}
}

func TestInterpreterLoopSkippedOnZero(t *testing.T) {
	instrs := mustParse(t, "[+]")
	ip := New(strings.NewReader(""), &bytes.Buffer{})
	if err := ip.Run(instrs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := ip.Tape.ValueAt(0); v != 0 {
		t.Fatalf("expected cell 0 to remain zero, got %d", v)
	}
}

func TestInterpreterNegativePointerIsRangeError(t *testing.T) {
	instrs := []bfir.Node{bfir.PointerIncrement(-1, nil)}
	ip := New(strings.NewReader(""), &bytes.Buffer{})
	err := ip.Run(instrs)
	if err == nil {
		t.Fatalf("expected a range error")
	}
	if _, ok := err.(*RangeError); !ok {
		t.Fatalf("expected *RangeError, got %T: %v", err, err)
	}
}

func TestInterpreterTapeGrowsForward(t *testing.T) {
	instrs := mustParse(t, ">>>+")
	ip := New(strings.NewReader(""), &bytes.Buffer{})
	if err := ip.Run(instrs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := ip.Tape.Snapshot()
	if len(snap) < 4 || snap[3] != 1 {
		t.Fatalf("expected tape to grow to at least 4 cells with snap[3]==1, got %v", snap)
	}
}

func TestInterpreterMultiplyMoveDistributes(t *testing.T) {
	instrs := []bfir.Node{
		bfir.Increment(3, 0, nil),
		bfir.MultiplyMove(map[int]bfir.Cell{1: 2}, nil),
	}
	ip := New(strings.NewReader(""), &bytes.Buffer{})
	if err := ip.Run(instrs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v0, _ := ip.Tape.ValueAt(0)
	v1, _ := ip.Tape.ValueAt(1)
	if v0 != 0 {
		t.Fatalf("expected cell 0 zeroed after MultiplyMove, got %d", v0)
	}
	if v1 != 6 {
		t.Fatalf("expected cell 1 == 3*2 == 6, got %d", v1)
	}
}
