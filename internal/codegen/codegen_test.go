package codegen

import (
	"testing"

	"github.com/llir/llvm/ir"

	"bfc/internal/bfir"
	"bfc/internal/interp"
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

func TestBuildCompletedProgramHasNoResidual(t *testing.T) {
	instrs := mustParse(t, "++++++++[>++++++++<-]>.")
	state, warn := interp.Execute(instrs, interp.MaxSteps)
	if warn != nil {
		t.Fatalf("unexpected interpreter error: %v", warn)
	}
	m := Build("hello", instrs, state)

	if m.SourceFilename != "hello" {
		t.Fatalf("expected module name %q, got %q", "hello", m.SourceFilename)
	}
	if len(m.Funcs) != 2 {
		t.Fatalf("expected two functions (putchar declaration, main), got %d", len(m.Funcs))
	}
	if len(m.Globals) != 2 {
		t.Fatalf("expected two globals (tape, cell_ptr), got %d", len(m.Globals))
	}

	found := false
	for _, fn := range m.Funcs {
		if fn.GlobalName == "main" {
			found = true
			if len(fn.Blocks) != 2 {
				t.Fatalf("expected entry+residual blocks, got %d", len(fn.Blocks))
			}
		}
	}
	if !found {
		t.Fatalf("expected a main function")
	}
}

func TestBuildResidualProgramLeavesBlockUnreachable(t *testing.T) {
	instrs := mustParse(t, ",+.")
	state, warn := interp.Execute(instrs, interp.MaxSteps)
	if warn != nil {
		t.Fatalf("unexpected interpreter error: %v", warn)
	}
	if state.StartInstr == nil {
		t.Fatalf("expected a residual instruction at the Read")
	}
	m := Build("echo", instrs, state)
	if len(m.Funcs) != 2 {
		t.Fatalf("expected two functions, got %d", len(m.Funcs))
	}
	for _, fn := range m.Funcs {
		if fn.GlobalName == "main" {
			last := fn.Blocks[len(fn.Blocks)-1]
			if _, ok := last.Term.(*ir.TermUnreachable); !ok {
				t.Fatalf("expected the residual block to end in unreachable, got %T", last.Term)
			}
		}
	}
}
