// Package codegen builds a minimal LLVM IR module out of an abstract
// interpreter State: a tape global pre-populated with everything it could
// compute statically, the bytes it already produced pre-emitted as
// putchar calls, and — if the program did not run to completion — a
// residual block marking where a full lowering pass would resume
// generating code for the remaining instructions. It does not lower
// Brainfuck control flow to LLVM terminators itself; that is out of
// scope (see spec.md section 6 and DESIGN.md).
package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"bfc/internal/bfir"
	"bfc/internal/interp"
)

// Build constructs the module for instrs given the abstract interpreter's
// final state.
func Build(name string, instrs []bfir.Node, state *interp.State) *ir.Module {
	m := ir.NewModule()
	m.SourceFilename = name

	newTapeGlobal(m, state.Cells)
	m.NewGlobalDef("cell_ptr", constant.NewInt(types.I64, int64(state.CellPtr)))

	putchar := m.NewFunc("putchar", types.I32, ir.NewParam("c", types.I32))
	putchar.Sig.Variadic = false

	main := m.NewFunc("main", types.I32)
	entry := main.NewBlock("entry")
	for _, b := range state.Outputs {
		entry.NewCall(putchar, constant.NewInt(types.I32, int64(b)))
	}

	residual := main.NewBlock("residual")
	entry.NewBr(residual)
	annotateResidual(residual, instrs, state)

	return m
}

func newTapeGlobal(m *ir.Module, cells []bfir.Cell) *ir.Global {
	arrayType := types.NewArray(uint64(len(cells)), types.I8)
	elems := make([]constant.Constant, len(cells))
	for i, c := range cells {
		elems[i] = constant.NewInt(types.I8, int64(c))
	}
	return m.NewGlobalDef("tape", constant.NewArray(arrayType, elems...))
}

// annotateResidual terminates the residual block. If the interpreter ran
// the whole program to completion, the module's job is done; otherwise the
// block is left unreachable, standing in for wherever a full generator
// would resume lowering the instruction the interpreter could not resolve
// statically.
func annotateResidual(residual *ir.Block, instrs []bfir.Node, state *interp.State) {
	if state.StartInstr == nil {
		residual.NewRet(constant.NewInt(types.I32, 0))
		return
	}
	// Resolve the node purely to confirm the path is valid; a full
	// generator would lower it here.
	_, _, _ = interp.NodeAt(instrs, state.StartInstr)
	residual.NewUnreachable()
}
