package bfir

import "testing"

func TestCombinePositions(t *testing.T) {
	tests := []struct {
		name string
		a, b *Position
		want *Position
	}{
		{
			name: "adjacent ranges merge",
			a:    &Position{Start: 0, End: 2},
			b:    &Position{Start: 3, End: 5},
			want: &Position{Start: 0, End: 5},
		},
		{
			name: "overlapping ranges merge",
			a:    &Position{Start: 0, End: 4},
			b:    &Position{Start: 2, End: 6},
			want: &Position{Start: 0, End: 6},
		},
		{
			name: "gap yields second operand",
			a:    &Position{Start: 0, End: 1},
			b:    &Position{Start: 10, End: 12},
			want: &Position{Start: 10, End: 12},
		},
		{
			name: "first operand absent yields absent",
			a:    nil,
			b:    &Position{Start: 1, End: 2},
			want: nil,
		},
		{
			name: "second operand absent yields absent",
			a:    &Position{Start: 1, End: 2},
			b:    nil,
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Combine(tc.a, tc.b)
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("Combine(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got != nil && *got != *tc.want {
				t.Fatalf("Combine(%v, %v) = %v, want %v", tc.a, tc.b, *got, *tc.want)
			}
		})
	}
}

func TestCombineAssociativeWhenAdjacent(t *testing.T) {
	a := &Position{Start: 0, End: 1}
	b := &Position{Start: 2, End: 3}
	c := &Position{Start: 4, End: 5}

	left := Combine(Combine(a, b), c)
	right := Combine(a, Combine(b, c))

	if *left != *right {
		t.Fatalf("combine not associative on adjacent ranges: (a.b).c = %v, a.(b.c) = %v", *left, *right)
	}
}

func TestSortedOffsetsDeterministic(t *testing.T) {
	changes := map[int]Cell{5: 1, -2: 3, 0: 9, 1: -1}
	got := SortedOffsets(changes)
	want := []int{-2, 0, 1, 5}
	if len(got) != len(want) {
		t.Fatalf("SortedOffsets length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedOffsets = %v, want %v", got, want)
		}
	}
}

func TestDumpLoopIndentation(t *testing.T) {
	prog := []Node{
		Increment(1, 0, nil),
		LoopNode([]Node{
			Increment(-1, 0, nil),
			LoopNode([]Node{
				Write(nil),
			}, &Position{Start: 1, End: 2}),
		}, &Position{Start: 0, End: 3}),
	}

	dump := Dump(prog)
	want := "Increment { amount: 1, offset: 0 }\n" +
		"Loop { position: 0..3 }\n" +
		" Increment { amount: -1, offset: 0 }\n" +
		" Loop { position: 1..2 }\n" +
		"  Write\n"

	if dump != want {
		t.Fatalf("Dump() = %q, want %q", dump, want)
	}
}

func TestEqualIgnoresNothingButCompares(t *testing.T) {
	a := []Node{Increment(2, 0, nil), Write(nil)}
	b := []Node{Increment(2, 0, nil), Write(nil)}
	c := []Node{Increment(3, 0, nil), Write(nil)}

	if !Equal(a, b) {
		t.Fatalf("expected a == b")
	}
	if Equal(a, c) {
		t.Fatalf("expected a != c")
	}
}
