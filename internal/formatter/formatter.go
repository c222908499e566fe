// Package formatter re-serializes optimized IR back into Brainfuck source
// text. It exists for the CLI's `dump -emit=bf` mode and for round-trip
// testing (parse -> optimize -> format -> parse should describe the same
// program), not as a general pretty-printer — Set and MultiplyMove have no
// native Brainfuck syntax, so they are expanded back into the primitive
// sequences that produce the same effect.
package formatter

import (
	"strings"

	"bfc/internal/bfir"
)

// Format renders instrs as Brainfuck source.
func Format(instrs []bfir.Node) string {
	var sb strings.Builder
	writeSeq(&sb, instrs)
	return sb.String()
}

func writeSeq(sb *strings.Builder, instrs []bfir.Node) {
	for _, n := range instrs {
		writeNode(sb, n)
	}
}

func writeNode(sb *strings.Builder, n bfir.Node) {
	switch n.Kind {
	case bfir.KindIncrement:
		moveTo(sb, n.Offset)
		repeat(sb, n.Amount)
		moveTo(sb, -n.Offset)

	case bfir.KindSet:
		moveTo(sb, n.Offset)
		sb.WriteString("[-]")
		repeat(sb, n.Amount)
		moveTo(sb, -n.Offset)

	case bfir.KindPointerIncrement:
		moveTo(sb, n.PtrAmount)

	case bfir.KindRead:
		sb.WriteByte(',')

	case bfir.KindWrite:
		sb.WriteByte('.')

	case bfir.KindMultiplyMove:
		sb.WriteString("[-")
		for _, off := range bfir.SortedOffsets(n.Changes) {
			moveTo(sb, off)
			repeat(sb, n.Changes[off])
			moveTo(sb, -off)
		}
		sb.WriteByte(']')

	case bfir.KindLoop:
		sb.WriteByte('[')
		writeSeq(sb, n.Body)
		sb.WriteByte(']')
	}
}

// moveTo emits the '>'/'<' run that shifts the pointer by delta.
func moveTo(sb *strings.Builder, delta int) {
	if delta > 0 {
		sb.WriteString(strings.Repeat(">", delta))
	} else if delta < 0 {
		sb.WriteString(strings.Repeat("<", -delta))
	}
}

// repeat emits the shorter of a run of '+' or a wrapped run of '-' to reach
// amount from zero.
func repeat(sb *strings.Builder, amount bfir.Cell) {
	up := int(uint8(amount))
	down := 256 - up
	if down < up {
		sb.WriteString(strings.Repeat("-", down))
	} else {
		sb.WriteString(strings.Repeat("+", up))
	}
}
