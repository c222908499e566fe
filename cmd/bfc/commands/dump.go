package commands

import (
	"flag"
	"fmt"
	"os"

	"bfc/internal/bfir"
	"bfc/internal/formatter"
)

// DumpCommand parses and optionally optimizes a source file, then prints
// the resulting IR either in the human-readable bfir.Dump format or,
// with -emit=bf, re-serialized back to Brainfuck source.
func DumpCommand(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	level := fs.Int("O", 2, "optimization level to apply before dumping")
	passes := fs.String("passes", "", "comma-separated pass names to restrict optimization to (default: all)")
	emit := fs.String("emit", "ir", "output format: ir or bf")
	warningsOnly := fs.Bool("warnings-only", true, "do not fail on optimizer warnings")
	verbose := fs.Bool("v", false, "print pipeline progress to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errUsage("dump <file.bf> [-emit ir|bf]")
	}
	file := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return err
	}

	p, err := newPipeline(file, *verbose)
	if err != nil {
		return err
	}
	instrs, err := p.parse()
	if err != nil {
		return err
	}

	var passSpec *string
	if *passes != "" {
		passSpec = passes
	}
	instrs, err = p.optimize(instrs, *level, passSpec, *warningsOnly)
	if err != nil {
		return err
	}

	switch *emit {
	case "ir":
		fmt.Print(bfir.Dump(instrs))
	case "bf":
		fmt.Println(formatter.Format(instrs))
	default:
		fmt.Fprintf(os.Stderr, "unknown -emit format %q (want ir or bf)\n", *emit)
		os.Exit(1)
	}
	return nil
}
