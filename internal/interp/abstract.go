// Package interp implements the bounded abstract interpreter: a symbolic
// executor that runs a program up to the first Read or a step budget,
// producing a residual instruction suffix plus the cell state it could
// determine statically. See spec.md section 4.3.
package interp

import (
	"fmt"

	"bfc/internal/bfir"
	"bfc/internal/bounds"
	"bfc/internal/diagnostics"
)

// MaxSteps is the default step budget, per spec.md section 4.3.
const MaxSteps uint64 = 10_000_000

// State is the abstract interpreter's output: the cells it could compute,
// the data pointer, the bytes written, and — if execution did not run to
// completion — a path identifying the residual instruction where real
// execution must resume.
//
// StartInstr is a sequence of indices descending into nested Loop bodies
// (spec.md section 9's recommended representation, rather than a raw
// pointer into the IR) so State stays a plain, serializable value. A nil
// StartInstr means the whole program was symbolically executed.
type State struct {
	StartInstr []int
	Cells      []bfir.Cell
	CellPtr    int
	Outputs    []byte
}

// NewState allocates a zero-initialized cell tape sized to the program's
// static bound.
func NewState(instrs []bfir.Node) *State {
	return &State{
		Cells: make([]bfir.Cell, bounds.HighestCellIndex(instrs)+1),
	}
}

// OutcomeKind classifies how execution stopped.
type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota
	OutcomeReachedRuntimeValue
	OutcomeRuntimeError
	OutcomeOutOfSteps
)

// Outcome is the result of one executeWithState call.
type Outcome struct {
	Kind           OutcomeKind
	RemainingSteps uint64
	Error          *diagnostics.Warning
}

// Execute runs instrs from a freshly allocated State up to steps
// instructions. If the outcome is a runtime error, it is also returned as
// a *diagnostics.Warning for the caller to surface; any other outcome is
// recoverable via State.StartInstr.
func Execute(instrs []bfir.Node, steps uint64) (*State, *diagnostics.Warning) {
	state := NewState(instrs)
	outcome := executeWithState(instrs, state, steps, nil)
	if outcome.Kind == OutcomeRuntimeError {
		return state, outcome.Error
	}
	return state, nil
}

func executeWithState(instrs []bfir.Node, state *State, steps uint64, path []int) Outcome {
	stepsLeft := steps
	i := 0

	for i < len(instrs) && stepsLeft > 0 {
		instr := instrs[i]

		switch instr.Kind {
		case bfir.KindIncrement:
			target := state.CellPtr + instr.Offset
			state.Cells[target] += instr.Amount
			i++
			stepsLeft--

		case bfir.KindSet:
			target := state.CellPtr + instr.Offset
			state.Cells[target] = instr.Amount
			i++
			stepsLeft--

		case bfir.KindPointerIncrement:
			newPtr := state.CellPtr + instr.PtrAmount
			if newPtr < 0 || newPtr >= len(state.Cells) {
				state.StartInstr = appendPath(path, i)
				return Outcome{Kind: OutcomeRuntimeError, Error: pointerRangeError(instr, newPtr, len(state.Cells))}
			}
			state.CellPtr = newPtr
			i++
			stepsLeft--

		case bfir.KindWrite:
			state.Outputs = append(state.Outputs, byte(state.Cells[state.CellPtr]))
			i++
			stepsLeft--

		case bfir.KindRead:
			state.StartInstr = appendPath(path, i)
			return Outcome{Kind: OutcomeReachedRuntimeValue}

		case bfir.KindMultiplyMove:
			current := state.Cells[state.CellPtr]
			if current != 0 {
				for _, off := range bfir.SortedOffsets(instr.Changes) {
					target := state.CellPtr + off
					if target < 0 || target >= len(state.Cells) {
						state.StartInstr = appendPath(path, i)
						return Outcome{Kind: OutcomeRuntimeError, Error: pointerRangeError(instr, target, len(state.Cells))}
					}
					state.Cells[target] += current * instr.Changes[off]
				}
				state.Cells[state.CellPtr] = 0
			}
			i++
			stepsLeft--

		case bfir.KindLoop:
			if state.Cells[state.CellPtr] == 0 {
				i++
			} else {
				budgetBefore := stepsLeft
				childPath := appendPath(path, i)
				loopOutcome := executeWithState(instr.Body, state, stepsLeft, childPath)
				if loopOutcome.Kind == OutcomeCompleted {
					stepsLeft = loopOutcome.RemainingSteps
					// Re-check the loop condition on the next outer
					// iteration: i deliberately stays put. Entering and
					// retesting the loop is not itself a primitive, so it
					// costs no step (spec.md section 4.3) — except when the
					// body made no use of the budget at all (an empty body,
					// or a body of only no-progress loops), in which case
					// charging nothing would spin this call forever on a
					// non-terminating program instead of exhausting the
					// step budget.
					if stepsLeft == budgetBefore {
						stepsLeft--
					}
				} else {
					if state.StartInstr == nil {
						state.StartInstr = childPath
					}
					return loopOutcome
				}
			}
		}
	}

	if stepsLeft == 0 {
		if i < len(instrs) {
			state.StartInstr = appendPath(path, i)
		}
		return Outcome{Kind: OutcomeOutOfSteps}
	}
	return Outcome{Kind: OutcomeCompleted, RemainingSteps: stepsLeft}
}

func appendPath(path []int, i int) []int {
	next := make([]int, len(path)+1)
	copy(next, path)
	next[len(path)] = i
	return next
}

func pointerRangeError(instr bfir.Node, ptr, tapeSize int) *diagnostics.Warning {
	var message string
	if ptr < 0 {
		message = fmt.Sprintf("This instruction moves the pointer to cell %d.", ptr)
	} else {
		message = fmt.Sprintf("This instruction moves the pointer after the last cell (%d), to cell %d.", tapeSize-1, ptr)
	}
	return &diagnostics.Warning{Message: message, Position: instr.Pos}
}

// NodeAt resolves a StartInstr path back into the IR, returning the node
// and the slice it lives in (so a caller can splice a residual suffix).
func NodeAt(instrs []bfir.Node, path []int) (bfir.Node, []bfir.Node, int) {
	cur := instrs
	for depth := 0; depth < len(path)-1; depth++ {
		cur = cur[path[depth]].Body
	}
	idx := path[len(path)-1]
	return cur[idx], cur, idx
}
