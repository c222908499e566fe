// Package optimizer runs the peephole optimizer: an ordered sequence of
// local rewrites applied to a fixed point. See spec.md section 4.4.
package optimizer

import (
	"fmt"
	"strings"

	"bfc/internal/bfir"
	"bfc/internal/diagnostics"
)

// MaxOptIterations bounds how many times the full pass sequence is applied
// before giving up and reporting non-convergence.
const MaxOptIterations = 40

// defaultPassOrder is the pass sequence used when no pass list is given.
// Order matters: later passes rely on the normal forms earlier passes
// produce (e.g. dead_loop's previousCellChange lookup relies on combine_set
// having already folded adjacent mutations).
var defaultPassOrder = []string{
	"combine_inc",
	"combine_ptr",
	"known_zero",
	"multiply",
	"zeroing_loop",
	"combine_set",
	"dead_loop",
	"redundant_set",
	"read_clobber",
	"pure_removal",
	"offset_sort",
}

// Optimize drives the fixed-point iteration: apply the ordered pass
// sequence once, and if the result differs from the input, apply it again,
// up to MaxOptIterations times. passSpec, if non-nil, is a comma-separated
// list of pass names to run instead of the default order; unknown names are
// silently skipped.
func Optimize(instrs []bfir.Node, passSpec *string) ([]bfir.Node, []diagnostics.Warning) {
	var warnings []diagnostics.Warning

	prev := instrs
	result, w := optimizeOnce(instrs, passSpec)
	warnings = append(warnings, w...)

	for iter := 1; iter < MaxOptIterations; iter++ {
		if bfir.Equal(prev, result) {
			return result, warnings
		}
		prev = result
		var nw []diagnostics.Warning
		result, nw = optimizeOnce(result, passSpec)
		warnings = append(warnings, nw...)
	}

	if !bfir.Equal(prev, result) {
		warnings = append(warnings, diagnostics.Warning{
			Message: fmt.Sprintf("ran peephole optimisations %d times but did not reach a fixed point", MaxOptIterations),
		})
	}
	return result, warnings
}

func enabledPasses(passSpec *string) map[string]bool {
	names := defaultPassOrder
	if passSpec != nil {
		names = strings.Split(*passSpec, ",")
	}
	enabled := make(map[string]bool, len(names))
	for _, n := range names {
		enabled[strings.TrimSpace(n)] = true
	}
	return enabled
}

func optimizeOnce(instrs []bfir.Node, passSpec *string) ([]bfir.Node, []diagnostics.Warning) {
	enabled := enabledPasses(passSpec)
	var warnings []diagnostics.Warning
	result := instrs

	if enabled["combine_inc"] {
		result = recurseLoops(result, combineIncFlat)
	}
	if enabled["combine_ptr"] {
		result = recurseLoops(result, combinePtrFlat)
	}
	if enabled["known_zero"] {
		result = knownZero(result)
	}
	if enabled["multiply"] {
		result = recurseLoops(result, multiplyFlat)
	}
	if enabled["zeroing_loop"] {
		result = recurseLoops(result, zeroingLoopFlat)
	}
	if enabled["combine_set"] {
		result = recurseLoops(result, combineSetFlat)
	}
	if enabled["dead_loop"] {
		result = recurseLoops(result, deadLoopFlat)
	}
	if enabled["redundant_set"] {
		result = redundantSet(result)
	}
	if enabled["read_clobber"] {
		result = recurseLoops(result, readClobberFlat)
	}
	if enabled["pure_removal"] {
		var pw []diagnostics.Warning
		result, pw = pureRemoval(result)
		warnings = append(warnings, pw...)
	}
	if enabled["offset_sort"] {
		result = recurseLoops(result, sortRunsFlat)
	}

	return result, warnings
}
