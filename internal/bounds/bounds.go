// Package bounds computes a saturating upper bound on the highest cell
// index a program could touch, used to size the runtime tape.
package bounds

import "bfc/internal/bfir"

// MaxCellIndex is the hard clamp on the reported bound, per spec.md
// section 4.2.
const MaxCellIndex = 99_999

// saturating is a 64-bit integer plus a top sentinel ("unbounded"):
// addition with top yields top, and top orders above every number.
type saturating struct {
	value int64
	isTop bool
}

func number(v int64) saturating { return saturating{value: v} }

var top = saturating{isTop: true}

func (s saturating) add(o saturating) saturating {
	if s.isTop || o.isTop {
		return top
	}
	return number(s.value + o.value)
}

// less reports whether s orders strictly before o, with top above every
// number.
func (s saturating) less(o saturating) bool {
	if s.isTop {
		return false
	}
	if o.isTop {
		return true
	}
	return s.value < o.value
}

func maxSaturating(a, b saturating) saturating {
	if a.less(b) {
		return b
	}
	return a
}

// HighestCellIndex returns min(aggregate max index, MaxCellIndex) for the
// given program, per spec.md section 4.2.
func HighestCellIndex(instrs []bfir.Node) int {
	maxIndex, _ := overallMovement(instrs)
	if maxIndex.isTop || maxIndex.value > MaxCellIndex {
		return MaxCellIndex
	}
	return int(maxIndex.value)
}

// overallMovement folds a sequence left, tracking the running maximum cell
// index touched (max_index) and the net pointer delta (net_movement).
func overallMovement(instrs []bfir.Node) (maxIndex, netMovement saturating) {
	netMovement = number(0)
	maxIndex = number(0)

	for _, instr := range instrs {
		instrMax, instrNet := movement(instr)
		maxIndex = maxSaturating(netMovement, maxSaturating(netMovement.add(instrMax), maxIndex))
		netMovement = netMovement.add(instrNet)
	}
	return maxIndex, netMovement
}

// movement returns (max_offset_reached, net_pointer_delta) for a single
// instruction, per the table in spec.md section 4.2.
func movement(instr bfir.Node) (saturating, saturating) {
	switch instr.Kind {
	case bfir.KindPointerIncrement:
		if instr.PtrAmount < 0 {
			return number(0), number(int64(instr.PtrAmount))
		}
		return number(int64(instr.PtrAmount)), number(int64(instr.PtrAmount))

	case bfir.KindIncrement, bfir.KindSet:
		return number(int64(instr.Offset)), number(0)

	case bfir.KindMultiplyMove:
		highest := 0
		for cell := range instr.Changes {
			if cell > highest {
				highest = cell
			}
		}
		return number(int64(highest)), number(0)

	case bfir.KindLoop:
		maxInBody, netInBody := overallMovement(instr.Body)
		if netInBody.isTop {
			return top, top
		}
		if netInBody.value <= 0 {
			return maxInBody, number(0)
		}
		return top, number(0)

	case bfir.KindRead, bfir.KindWrite:
		return number(0), number(0)
	}
	return number(0), number(0)
}
