// Package parser turns Brainfuck source bytes into the bfir tree in a
// single linear scan, diagnosing unbalanced loops with source positions.
package parser

import (
	"bfc/internal/bfir"
	"bfc/internal/diagnostics"
)

// frame is one entry of the bracket stack: the instructions accumulated
// so far in the enclosing scope, and the byte offset of the '[' that
// opened the scope we are currently inside.
type frame struct {
	instrs    []bfir.Node
	openIndex int
}

// Parse scans src and returns the top-level instruction sequence. On
// unbalanced brackets it returns a diagnostics.Warning describing the
// first such failure and a nil instruction slice, per spec.md section 4.1.
func Parse(src []byte) ([]bfir.Node, *diagnostics.Warning) {
	var stack []frame
	current := make([]bfir.Node, 0)

	for i, b := range src {
		pos := &bfir.Position{Start: i, End: i}
		switch b {
		case '+':
			current = append(current, bfir.Increment(1, 0, pos))
		case '-':
			current = append(current, bfir.Increment(-1, 0, pos))
		case '>':
			current = append(current, bfir.PointerIncrement(1, pos))
		case '<':
			current = append(current, bfir.PointerIncrement(-1, pos))
		case '.':
			current = append(current, bfir.Write(pos))
		case ',':
			current = append(current, bfir.Read(pos))
		case '[':
			stack = append(stack, frame{instrs: current, openIndex: i})
			current = make([]bfir.Node, 0)
		case ']':
			if len(stack) == 0 {
				return nil, &diagnostics.Warning{
					Message:  "This ] has no matching [",
					Position: pos,
				}
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			loopPos := &bfir.Position{Start: top.openIndex, End: i}
			top.instrs = append(top.instrs, bfir.LoopNode(current, loopPos))
			current = top.instrs
		default:
			// comment byte, ignored.
		}
	}

	if len(stack) > 0 {
		unmatched := stack[len(stack)-1]
		return nil, &diagnostics.Warning{
			Message:  "This [ has no matching ]",
			Position: &bfir.Position{Start: unmatched.openIndex, End: unmatched.openIndex},
		}
	}

	return current, nil
}
