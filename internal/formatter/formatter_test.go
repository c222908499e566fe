package formatter

import (
	"testing"

	"bfc/internal/bfir"
	"bfc/internal/optimizer"
	"bfc/internal/parser"
	"bfc/internal/runtime"
)

func mustParse(t *testing.T, src string) []bfir.Node {
	t.Helper()
	instrs, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return instrs
}

func TestFormatRoundTripsThroughParser(t *testing.T) {
	const src = "++++++++[>++++++++<-]>.,."
	instrs := mustParse(t, src)

	formatted := Format(instrs)
	reparsed, err := parser.Parse([]byte(formatted))
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	if !bfir.Equal(stripPos(instrs), stripPos(reparsed)) {
		t.Fatalf("round trip changed program semantics:\nwant %s\ngot  %s", bfir.Dump(instrs), bfir.Dump(reparsed))
	}
}

func TestFormatExpandsSetAndMultiplyMove(t *testing.T) {
	instrs := mustParse(t, "++++++++[>++++++++<-]>.")
	optimized, _ := optimizer.Optimize(instrs, nil)

	formatted := Format(optimized)
	reparsed, err := parser.Parse([]byte(formatted))
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}

	var out []byte
	ip := runtime.New(nil, &byteSink{&out})
	if err := ip.Run(reparsed); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(out) != 1 || out[0] != 64 {
		t.Fatalf("expected a single byte 64, got %v", out)
	}
}

// stripPos drops positions so two trees can be compared on shape alone;
// formatting intentionally does not preserve source spans.
func stripPos(instrs []bfir.Node) []bfir.Node {
	out := make([]bfir.Node, len(instrs))
	for i, n := range instrs {
		n.Pos = nil
		if n.Kind == bfir.KindLoop {
			n.Body = stripPos(n.Body)
		}
		out[i] = n
	}
	return out
}

type byteSink struct {
	buf *[]byte
}

func (s *byteSink) Write(p []byte) (int, error) {
	*s.buf = append(*s.buf, p...)
	return len(p), nil
}
