package runtime

import (
	"io"

	"bfc/internal/bfir"
)

// Interpreter runs IR directly against real input/output streams. The
// run subcommand uses it to execute the whole program from the start
// unless -compiled is given; it is never resumed from the residual
// instruction left by the abstract interpreter in internal/interp.
type Interpreter struct {
	Tape *Tape
	In   io.Reader
	Out  io.Writer
}

// New returns an interpreter with a freshly allocated tape.
func New(in io.Reader, out io.Writer) *Interpreter {
	return &Interpreter{Tape: NewTape(), In: in, Out: out}
}

// Run executes instrs in order, recursing into Loop bodies. It stops and
// returns the first error encountered: an out-of-range pointer move, or an
// I/O failure on the underlying reader/writer (other than a clean EOF on
// Read, which per spec leaves the current cell unchanged).
func (ip *Interpreter) Run(instrs []bfir.Node) error {
	for _, instr := range instrs {
		if err := ip.step(instr); err != nil {
			return err
		}
	}
	return nil
}

func (ip *Interpreter) step(instr bfir.Node) error {
	switch instr.Kind {
	case bfir.KindIncrement:
		return ip.Tape.IncAt(instr.Offset, instr.Amount)

	case bfir.KindSet:
		return ip.Tape.SetAt(instr.Offset, instr.Amount)

	case bfir.KindPointerIncrement:
		return ip.Tape.Move(instr.PtrAmount)

	case bfir.KindWrite:
		v, err := ip.Tape.ValueAt(0)
		if err != nil {
			return err
		}
		_, err = ip.Out.Write([]byte{byte(v)})
		return err

	case bfir.KindRead:
		return ip.Tape.ReadInto(ip.In)

	case bfir.KindMultiplyMove:
		current, err := ip.Tape.ValueAt(0)
		if err != nil {
			return err
		}
		if current != 0 {
			for _, off := range bfir.SortedOffsets(instr.Changes) {
				if err := ip.Tape.IncAt(off, current*instr.Changes[off]); err != nil {
					return err
				}
			}
			if err := ip.Tape.SetAt(0, 0); err != nil {
				return err
			}
		}
		return nil

	case bfir.KindLoop:
		for {
			v, err := ip.Tape.ValueAt(0)
			if err != nil {
				return err
			}
			if v == 0 {
				return nil
			}
			if err := ip.Run(instr.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadInto reads one byte from r into the current cell. On a clean EOF the
// cell is left unchanged, the conventional behavior for Brainfuck
// implementations that treat end-of-input as "no-op" rather than an error
// (spec.md section 9's Open Question on Read/EOF semantics).
func (t *Tape) ReadInto(r io.Reader) error {
	buf := make([]byte, 1)
	_, err := r.Read(buf)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	return t.SetAt(0, bfir.Cell(buf[0]))
}
