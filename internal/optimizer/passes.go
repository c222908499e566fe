package optimizer

import (
	"bfc/internal/bfir"
	"bfc/internal/diagnostics"
)

// recurseLoops applies flat to instrs, then applies itself to the (possibly
// rewritten) body of every surviving Loop. Every pass recurses into nested
// loop bodies this way unless it needs extra context (known_zero and
// redundant_set track whether they are at the very start of the program,
// so they recurse by hand below).
func recurseLoops(instrs []bfir.Node, flat func([]bfir.Node) []bfir.Node) []bfir.Node {
	rewritten := flat(instrs)
	for i := range rewritten {
		if rewritten[i].Kind == bfir.KindLoop {
			rewritten[i].Body = recurseLoops(rewritten[i].Body, flat)
		}
	}
	return rewritten
}

func isZeroSet(n bfir.Node) bool {
	return n.Kind == bfir.KindSet && n.Amount == 0 && n.Offset == 0
}

// combine_inc: fuse runs of adjacent Increment nodes at the same offset,
// summing their amounts (wrapping) and dropping the result if it sums to
// zero.
func combineIncFlat(instrs []bfir.Node) []bfir.Node {
	var result []bfir.Node
	for _, n := range instrs {
		if len(result) > 0 {
			last := result[len(result)-1]
			if last.Kind == bfir.KindIncrement && n.Kind == bfir.KindIncrement && last.Offset == n.Offset {
				amount := last.Amount + n.Amount
				pos := bfir.Combine(last.Pos, n.Pos)
				if amount == 0 {
					result = result[:len(result)-1]
				} else {
					result[len(result)-1] = bfir.Increment(amount, last.Offset, pos)
				}
				continue
			}
		}
		result = append(result, n)
	}
	return result
}

// combine_ptr: fuse runs of adjacent PointerIncrement nodes, summing their
// amounts and dropping the result if it sums to zero.
func combinePtrFlat(instrs []bfir.Node) []bfir.Node {
	var result []bfir.Node
	for _, n := range instrs {
		if len(result) > 0 {
			last := result[len(result)-1]
			if last.Kind == bfir.KindPointerIncrement && n.Kind == bfir.KindPointerIncrement {
				amount := last.PtrAmount + n.PtrAmount
				pos := bfir.Combine(last.Pos, n.Pos)
				if amount == 0 {
					result = result[:len(result)-1]
				} else {
					result[len(result)-1] = bfir.PointerIncrement(amount, pos)
				}
				continue
			}
		}
		result = append(result, n)
	}
	return result
}

func zeroWidthBefore(pos *bfir.Position) *bfir.Position {
	if pos == nil {
		return nil
	}
	return &bfir.Position{Start: pos.Start, End: pos.Start}
}

func zeroWidthAfter(pos *bfir.Position) *bfir.Position {
	if pos == nil {
		return nil
	}
	return &bfir.Position{Start: pos.End, End: pos.End}
}

// known_zero: the tape is zero on entry, so a Set{0,0} is valid at the very
// start of the program; a loop only exits once its current cell is zero, so
// one is also valid immediately after every Loop. Recurses into loop bodies,
// but the "start of program" insertion only applies at the true top level —
// a loop body starts executing precisely because its cell is nonzero.
func knownZero(instrs []bfir.Node) []bfir.Node {
	return knownZeroAt(instrs, true)
}

func knownZeroAt(instrs []bfir.Node, topLevel bool) []bfir.Node {
	result := make([]bfir.Node, 0, len(instrs)+2)
	if topLevel && !(len(instrs) > 0 && isZeroSet(instrs[0])) {
		var lead *bfir.Position
		if len(instrs) > 0 {
			lead = instrs[0].Pos
		}
		result = append(result, bfir.Set(0, 0, zeroWidthBefore(lead)))
	}
	for i, n := range instrs {
		if n.Kind == bfir.KindLoop {
			n.Body = knownZeroAt(n.Body, false)
		}
		result = append(result, n)
		if n.Kind == bfir.KindLoop {
			var next *bfir.Node
			if i+1 < len(instrs) {
				next = &instrs[i+1]
			}
			if next == nil || !isZeroSet(*next) {
				result = append(result, bfir.Set(0, 0, zeroWidthAfter(n.Pos)))
			}
		}
	}
	return result
}

// multiply: a Loop whose body is only Increment/PointerIncrement, nets zero
// pointer movement, and decrements cell 0 by exactly one per iteration is a
// multiply-accumulate; replace it with the equivalent MultiplyMove.
func multiplyFlat(instrs []bfir.Node) []bfir.Node {
	result := make([]bfir.Node, 0, len(instrs))
	for _, n := range instrs {
		if n.Kind == bfir.KindLoop {
			if mm, ok := tryExtractMultiply(n); ok {
				result = append(result, mm)
				continue
			}
		}
		result = append(result, n)
	}
	return result
}

func tryExtractMultiply(loop bfir.Node) (bfir.Node, bool) {
	body := loop.Body
	for _, n := range body {
		if n.Kind != bfir.KindIncrement && n.Kind != bfir.KindPointerIncrement {
			return bfir.Node{}, false
		}
	}

	changes := map[int]bfir.Cell{}
	offset := 0
	for _, n := range body {
		switch n.Kind {
		case bfir.KindPointerIncrement:
			offset += n.PtrAmount
		case bfir.KindIncrement:
			changes[offset] += n.Amount
		}
	}
	if offset != 0 {
		return bfir.Node{}, false
	}
	if changes[0] != -1 {
		return bfir.Node{}, false
	}
	delete(changes, 0)
	for k, v := range changes {
		if v == 0 {
			delete(changes, k)
		}
	}
	if len(changes) < 1 {
		return bfir.Node{}, false
	}
	return bfir.MultiplyMove(changes, loop.Pos), true
}

// zeroing_loop: Loop{[Increment{-1, offset: 0}]} always runs to exactly zero
// regardless of the starting value, so it is equivalent to Set{0, 0}.
func zeroingLoopFlat(instrs []bfir.Node) []bfir.Node {
	result := make([]bfir.Node, 0, len(instrs))
	for _, n := range instrs {
		if n.Kind == bfir.KindLoop && len(n.Body) == 1 {
			b := n.Body[0]
			if b.Kind == bfir.KindIncrement && b.Amount == -1 && b.Offset == 0 {
				pos := bfir.Combine(n.Pos, b.Pos)
				if pos == nil {
					pos = n.Pos
				}
				result = append(result, bfir.Set(0, 0, pos))
				continue
			}
		}
		result = append(result, n)
	}
	return result
}

// combine_set: three adjacent fusions at the same offset — Increment then
// Set keeps only the Set; Set then Increment folds the increment into the
// Set's amount; Set then Set keeps only the second.
func combineSetFlat(instrs []bfir.Node) []bfir.Node {
	var result []bfir.Node
	for _, n := range instrs {
		if len(result) > 0 {
			if merged, ok := fuseSet(result[len(result)-1], n); ok {
				result[len(result)-1] = merged
				continue
			}
		}
		result = append(result, n)
	}
	return result
}

func mutationOffset(n bfir.Node) (int, bool) {
	if n.Kind == bfir.KindIncrement || n.Kind == bfir.KindSet {
		return n.Offset, true
	}
	return 0, false
}

func fuseSet(a, b bfir.Node) (bfir.Node, bool) {
	aOff, aOk := mutationOffset(a)
	bOff, bOk := mutationOffset(b)
	if !aOk || !bOk || aOff != bOff {
		return bfir.Node{}, false
	}
	pos := bfir.Combine(a.Pos, b.Pos)
	switch {
	case a.Kind == bfir.KindIncrement && b.Kind == bfir.KindSet:
		return bfir.Set(b.Amount, bOff, pos), true
	case a.Kind == bfir.KindSet && b.Kind == bfir.KindIncrement:
		return bfir.Set(a.Amount+b.Amount, aOff, pos), true
	case a.Kind == bfir.KindSet && b.Kind == bfir.KindSet:
		return bfir.Set(b.Amount, bOff, pos), true
	}
	return bfir.Node{}, false
}

// dead_loop: a Loop whose nearest preceding cell change (accounting for
// pointer arithmetic in between) is a Set{0,0} can never run, since the
// cell it tests is already known to be zero.
func deadLoopFlat(instrs []bfir.Node) []bfir.Node {
	drop := make(map[int]bool)
	for i, n := range instrs {
		if n.Kind != bfir.KindLoop {
			continue
		}
		if idx, ok := previousCellChange(instrs, i); ok && isZeroSet(instrs[idx]) {
			drop[i] = true
		}
	}
	result := make([]bfir.Node, 0, len(instrs))
	for i, n := range instrs {
		if drop[i] {
			continue
		}
		result = append(result, n)
	}
	return result
}

// redundant_set: a Set{0,0} is redundant (and removed) when it is the
// nearest cell change following a zero-producing point — either the start
// of the program (the tape already starts zero) or a Loop/MultiplyMove
// (both guarantee the current cell is zero on exit). Ported from
// remove_redundant_sets_inner (original_source/src/compiler/peephole.rs):
// walk forward from each zero-producing point via nextCellChange, rather
// than backward from each Set{0,0} via previousCellChange — previousCellChange
// treats Loop as a hard stop (it can only ever resolve to an Increment,
// Set or MultiplyMove), so a Set{0,0} directly following a surviving Loop
// could never be reached by a backward scan.
func redundantSet(instrs []bfir.Node) []bfir.Node {
	return redundantSetAt(instrs, true)
}

func redundantSetAt(instrs []bfir.Node, topLevel bool) []bfir.Node {
	working := make([]bfir.Node, len(instrs))
	copy(working, instrs)

	drop := make(map[int]bool)
	if topLevel {
		// The tape starts zero, as if a zero-producing instruction sat
		// just before the program's first one.
		if idx, ok := nextCellChange(working, -1); ok && isZeroSet(working[idx]) {
			drop[idx] = true
		}
	}
	for i, n := range working {
		if n.Kind != bfir.KindLoop && n.Kind != bfir.KindMultiplyMove {
			continue
		}
		if idx, ok := nextCellChange(working, i); ok && isZeroSet(working[idx]) {
			drop[idx] = true
		}
	}

	result := make([]bfir.Node, 0, len(working))
	for i, n := range working {
		if drop[i] {
			continue
		}
		if n.Kind == bfir.KindLoop {
			n.Body = redundantSetAt(n.Body, false)
		}
		result = append(result, n)
	}
	return result
}

// read_clobber: a Read overwrites whatever value was in the current cell,
// so a simple mutation (Increment or Set) that fed only that Read — with no
// Write observing the value in between — never had an observable effect.
func readClobberFlat(instrs []bfir.Node) []bfir.Node {
	drop := make(map[int]bool)
	for i, n := range instrs {
		if n.Kind != bfir.KindRead {
			continue
		}
		idx, ok := previousCellChange(instrs, i)
		if !ok {
			continue
		}
		target := instrs[idx]
		if target.Kind != bfir.KindIncrement && target.Kind != bfir.KindSet {
			continue
		}
		observed := false
		for j := idx + 1; j < i; j++ {
			if instrs[j].Kind == bfir.KindWrite {
				observed = true
				break
			}
		}
		if !observed {
			drop[idx] = true
		}
	}
	result := make([]bfir.Node, 0, len(instrs))
	for i, n := range instrs {
		if drop[i] {
			continue
		}
		result = append(result, n)
	}
	return result
}

func isRunMember(n bfir.Node) bool {
	return n.Kind == bfir.KindIncrement || n.Kind == bfir.KindSet || n.Kind == bfir.KindPointerIncrement
}

// offset_sort: within a maximal run of Increment/Set/PointerIncrement,
// retag every mutation with its absolute offset, group by that offset in
// ascending order, and emit a single trailing PointerIncrement carrying the
// run's net pointer delta. Distinct offsets commute, so this never changes
// behavior.
func sortRunsFlat(instrs []bfir.Node) []bfir.Node {
	var result []bfir.Node
	i := 0
	for i < len(instrs) {
		if !isRunMember(instrs[i]) {
			result = append(result, instrs[i])
			i++
			continue
		}
		j := i
		for j < len(instrs) && isRunMember(instrs[j]) {
			j++
		}
		result = append(result, sortRun(instrs[i:j])...)
		i = j
	}
	return result
}

type offsetEntry struct {
	node   bfir.Node
	offset int
	order  int
}

func sortRun(run []bfir.Node) []bfir.Node {
	var entries []offsetEntry
	var ptrPos *bfir.Position
	currentOffset := 0
	order := 0
	for _, n := range run {
		switch n.Kind {
		case bfir.KindPointerIncrement:
			currentOffset += n.PtrAmount
			if ptrPos == nil {
				ptrPos = n.Pos
			} else {
				ptrPos = bfir.Combine(ptrPos, n.Pos)
			}
		case bfir.KindIncrement, bfir.KindSet:
			retagged := n
			retagged.Offset = currentOffset + n.Offset
			entries = append(entries, offsetEntry{node: retagged, offset: retagged.Offset, order: order})
			order++
		}
	}

	for a := 1; a < len(entries); a++ {
		e := entries[a]
		b := a - 1
		for b >= 0 && entries[b].offset > e.offset {
			entries[b+1] = entries[b]
			b--
		}
		entries[b+1] = e
	}

	result := make([]bfir.Node, 0, len(entries)+1)
	for _, e := range entries {
		result = append(result, e.node)
	}
	if currentOffset != 0 {
		result = append(result, bfir.PointerIncrement(currentOffset, ptrPos))
	}
	return result
}

// pure_removal: everything after the last Read, Write, or Loop in a
// sequence is observationally dead — nothing ever looks at the cells it
// touches. Recurses into (surviving) loop bodies, and can contribute one
// warning per level that had something to trim.
func pureRemoval(instrs []bfir.Node) ([]bfir.Node, []diagnostics.Warning) {
	result := make([]bfir.Node, len(instrs))
	copy(result, instrs)

	lastEffectful := -1
	for i, n := range result {
		if n.Kind == bfir.KindRead || n.Kind == bfir.KindWrite || n.Kind == bfir.KindLoop {
			lastEffectful = i
		}
	}

	var warnings []diagnostics.Warning
	if lastEffectful < len(result)-1 {
		removedStart := lastEffectful + 1
		var pos *bfir.Position
		for i := removedStart; i < len(result); i++ {
			if pos == nil {
				pos = result[i].Pos
			} else {
				pos = bfir.Combine(pos, result[i].Pos)
			}
		}
		warnings = append(warnings, diagnostics.Warning{
			Message:  "These instructions have no effect.",
			Position: pos,
		})
		result = result[:removedStart]
	}

	for i := range result {
		if result[i].Kind == bfir.KindLoop {
			body, bodyWarnings := pureRemoval(result[i].Body)
			result[i].Body = body
			warnings = append(warnings, bodyWarnings...)
		}
	}
	return result, warnings
}
