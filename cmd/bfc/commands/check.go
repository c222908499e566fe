package commands

import (
	"flag"
	"fmt"
)

// CheckCommand validates a source file's syntax and, unless -O 0, runs the
// optimizer and reports any advisory warnings it raises — without
// executing the program. Exits non-zero if parsing fails, or (unless
// -warnings-only) if the optimizer produced any warnings.
func CheckCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	level := fs.Int("O", 1, "optimization level to check against")
	passes := fs.String("passes", "", "comma-separated pass names to restrict optimization to (default: all)")
	warningsOnly := fs.Bool("warnings-only", false, "report warnings without failing the check")
	verbose := fs.Bool("v", false, "print pipeline progress to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errUsage("check <file.bf>")
	}

	p, err := newPipeline(fs.Arg(0), *verbose)
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
	if _, err := p.optimize(instrs, *level, passSpec, *warningsOnly); err != nil {
		return err
	}

	fmt.Printf("%s: ok\n", p.filename)
	return nil
}
