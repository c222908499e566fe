// Package runtime implements the direct tree-walking interpreter: the
// reference execution mode that actually performs I/O, as opposed to the
// bounded symbolic executor in internal/interp. See spec.md section 5.
package runtime

import (
	"fmt"

	"bfc/internal/bfir"
)

// Tape is a growable cell array, growing forward as the pointer advances
// past its current length (the pointer may never go negative). See
// other_examples' MonkeyBuisness BFRuntime.Next, which grows the same way.
type Tape struct {
	cells []bfir.Cell
	ptr   int
}

// NewTape returns a tape with a single zeroed cell.
func NewTape() *Tape {
	return &Tape{cells: make([]bfir.Cell, 1)}
}

func (t *Tape) growTo(idx int) {
	for idx >= len(t.cells) {
		t.cells = append(t.cells, 0)
	}
}

// Pointer returns the current cell index.
func (t *Tape) Pointer() int { return t.ptr }

// Move shifts the pointer by amount, growing the tape forward as needed.
// Moving below cell 0 is a runtime error.
func (t *Tape) Move(amount int) error {
	next := t.ptr + amount
	if next < 0 {
		return &RangeError{Index: next}
	}
	t.growTo(next)
	t.ptr = next
	return nil
}

// ValueAt returns the cell at ptr+offset, growing the tape if needed.
func (t *Tape) ValueAt(offset int) (bfir.Cell, error) {
	idx := t.ptr + offset
	if idx < 0 {
		return 0, &RangeError{Index: idx}
	}
	t.growTo(idx)
	return t.cells[idx], nil
}

// IncAt adds amount to the cell at ptr+offset.
func (t *Tape) IncAt(offset int, amount bfir.Cell) error {
	idx := t.ptr + offset
	if idx < 0 {
		return &RangeError{Index: idx}
	}
	t.growTo(idx)
	t.cells[idx] += amount
	return nil
}

// SetAt assigns the cell at ptr+offset.
func (t *Tape) SetAt(offset int, amount bfir.Cell) error {
	idx := t.ptr + offset
	if idx < 0 {
		return &RangeError{Index: idx}
	}
	t.growTo(idx)
	t.cells[idx] = amount
	return nil
}

// Snapshot returns a copy of the tape's current cell values.
func (t *Tape) Snapshot() []bfir.Cell {
	cp := make([]bfir.Cell, len(t.cells))
	copy(cp, t.cells)
	return cp
}

// RangeError reports an attempt to move the data pointer before cell 0.
type RangeError struct {
	Index int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("pointer moved to cell %d, before the start of the tape", e.Index)
}
