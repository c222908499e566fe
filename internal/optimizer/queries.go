package optimizer

import "bfc/internal/bfir"

// previousCellChange walks backward from i-1, tracking the offset (from
// the current pointer position) whose value the caller cares about, and
// returns the index of the nearest instruction that writes that cell.
// PointerIncrement shifts the tracked offset; Write is transparent (it
// reads but does not write); Read and Loop are opaque barriers. See
// spec.md section 4.4.
func previousCellChange(instrs []bfir.Node, i int) (int, bool) {
	neededOffset := 0
	for idx := i - 1; idx >= 0; idx-- {
		switch instrs[idx].Kind {
		case bfir.KindPointerIncrement:
			neededOffset += instrs[idx].PtrAmount
		case bfir.KindIncrement, bfir.KindSet:
			if instrs[idx].Offset == neededOffset {
				return idx, true
			}
		case bfir.KindMultiplyMove:
			if neededOffset == 0 {
				return idx, true
			}
			if _, ok := instrs[idx].Changes[neededOffset]; ok {
				return idx, true
			}
		case bfir.KindRead, bfir.KindLoop:
			return -1, false
		case bfir.KindWrite:
			// transparent: a write observes the cell but the search
			// continues past it looking for the write that produced
			// the value it observed.
		}
	}
	return -1, false
}

// nextCellChange is the symmetric forward walk from i+1.
func nextCellChange(instrs []bfir.Node, i int) (int, bool) {
	neededOffset := 0
	for idx := i + 1; idx < len(instrs); idx++ {
		switch instrs[idx].Kind {
		case bfir.KindPointerIncrement:
			neededOffset -= instrs[idx].PtrAmount
		case bfir.KindIncrement, bfir.KindSet:
			if instrs[idx].Offset == neededOffset {
				return idx, true
			}
		case bfir.KindMultiplyMove:
			if neededOffset == 0 {
				return idx, true
			}
			if _, ok := instrs[idx].Changes[neededOffset]; ok {
				return idx, true
			}
		case bfir.KindRead, bfir.KindLoop:
			return -1, false
		case bfir.KindWrite:
		}
	}
	return -1, false
}
