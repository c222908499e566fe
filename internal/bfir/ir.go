package bfir

import "sort"

// Cell is an 8-bit wrapping signed integer. Go's defined overflow
// semantics for fixed-width integer types give us mod-256 wraparound for
// free: no arithmetic here ever needs to be range-checked.
type Cell int8

// Kind tags which variant a Node holds. Every pass that pattern-matches on
// it should exhaust this list, the way spec.md section 9 calls for.
type Kind int

const (
	KindIncrement Kind = iota
	KindPointerIncrement
	KindSet
	KindMultiplyMove
	KindRead
	KindWrite
	KindLoop
)

func (k Kind) String() string {
	switch k {
	case KindIncrement:
		return "Increment"
	case KindPointerIncrement:
		return "PointerIncrement"
	case KindSet:
		return "Set"
	case KindMultiplyMove:
		return "MultiplyMove"
	case KindRead:
		return "Read"
	case KindWrite:
		return "Write"
	case KindLoop:
		return "Loop"
	default:
		return "Unknown"
	}
}

// Node is one instruction in the IR tree. It is a closed tagged union: the
// fields populated depend on Kind. Node is a plain value (not an
// interface), so whole trees can be compared structurally with Equal,
// which the optimizer's fixed-point driver and tests both rely on.
//
// Parser output only ever constructs Increment, PointerIncrement, Read,
// Write and Loop; Set and MultiplyMove are produced solely by the
// optimizer (spec.md section 3 invariant).
type Node struct {
	Kind Kind

	// Increment, Set
	Amount Cell
	Offset int

	// PointerIncrement
	PtrAmount int

	// MultiplyMove: additive effect on the cell at ptr+offset, keyed by
	// offset. The key 0 is never present.
	Changes map[int]Cell

	// Loop
	Body []Node

	Pos *Position
}

func Increment(amount Cell, offset int, pos *Position) Node {
	return Node{Kind: KindIncrement, Amount: amount, Offset: offset, Pos: pos}
}

func PointerIncrement(amount int, pos *Position) Node {
	return Node{Kind: KindPointerIncrement, PtrAmount: amount, Pos: pos}
}

func Set(amount Cell, offset int, pos *Position) Node {
	return Node{Kind: KindSet, Amount: amount, Offset: offset, Pos: pos}
}

func MultiplyMove(changes map[int]Cell, pos *Position) Node {
	return Node{Kind: KindMultiplyMove, Changes: changes, Pos: pos}
}

func Read(pos *Position) Node {
	return Node{Kind: KindRead, Pos: pos}
}

func Write(pos *Position) Node {
	return Node{Kind: KindWrite, Pos: pos}
}

func LoopNode(body []Node, pos *Position) Node {
	return Node{Kind: KindLoop, Body: body, Pos: pos}
}

// SortedOffsets returns the keys of a MultiplyMove's Changes map in
// ascending order. Map iteration order is undefined in Go, and spec.md
// section 9 calls out that IR dumps and position-merging both need a
// deterministic order.
func SortedOffsets(changes map[int]Cell) []int {
	offsets := make([]int, 0, len(changes))
	for off := range changes {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)
	return offsets
}

// Equal reports whether two IR sequences are structurally identical,
// including positions. The optimizer's fixed-point driver uses it to
// detect convergence, and tests use it to compare expected and actual IR.
func Equal(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b Node) bool {
	if a.Kind != b.Kind {
		return false
	}
	if !posEqual(a.Pos, b.Pos) {
		return false
	}
	switch a.Kind {
	case KindIncrement, KindSet:
		return a.Amount == b.Amount && a.Offset == b.Offset
	case KindPointerIncrement:
		return a.PtrAmount == b.PtrAmount
	case KindMultiplyMove:
		if len(a.Changes) != len(b.Changes) {
			return false
		}
		for k, v := range a.Changes {
			if bv, ok := b.Changes[k]; !ok || bv != v {
				return false
			}
		}
		return true
	case KindRead, KindWrite:
		return true
	case KindLoop:
		return Equal(a.Body, b.Body)
	default:
		return false
	}
}

func posEqual(a, b *Position) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
