package bfir

import (
	"fmt"
	"strings"
)

// Dump renders an IR sequence in the human-readable one-instruction-per-line
// format described in spec.md section 6: each primitive as its variant
// name with field values, Loop as a position header followed by its body
// indented by one extra space per nesting level.
func Dump(instrs []Node) string {
	var sb strings.Builder
	dumpAt(&sb, instrs, 0)
	return sb.String()
}

func dumpAt(sb *strings.Builder, instrs []Node, depth int) {
	indent := strings.Repeat(" ", depth)
	for _, instr := range instrs {
		sb.WriteString(indent)
		sb.WriteString(dumpLine(instr))
		sb.WriteString("\n")
		if instr.Kind == KindLoop {
			dumpAt(sb, instr.Body, depth+1)
		}
	}
}

func dumpLine(instr Node) string {
	switch instr.Kind {
	case KindIncrement:
		return fmt.Sprintf("Increment { amount: %d, offset: %d }", instr.Amount, instr.Offset)
	case KindPointerIncrement:
		return fmt.Sprintf("PointerIncrement { amount: %d }", instr.PtrAmount)
	case KindSet:
		return fmt.Sprintf("Set { amount: %d, offset: %d }", instr.Amount, instr.Offset)
	case KindMultiplyMove:
		parts := make([]string, 0, len(instr.Changes))
		for _, off := range SortedOffsets(instr.Changes) {
			parts = append(parts, fmt.Sprintf("%d: %d", off, instr.Changes[off]))
		}
		return fmt.Sprintf("MultiplyMove { changes: {%s} }", strings.Join(parts, ", "))
	case KindRead:
		return "Read"
	case KindWrite:
		return "Write"
	case KindLoop:
		return fmt.Sprintf("Loop { position: %s }", posString(instr.Pos))
	default:
		return "<unknown instruction>"
	}
}

func posString(pos *Position) string {
	if pos == nil {
		return "none"
	}
	return fmt.Sprintf("%d..%d", pos.Start, pos.End)
}
