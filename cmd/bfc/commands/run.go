package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"bfc/internal/bfir"
	"bfc/internal/codegen"
	"bfc/internal/diagnostics"
	"bfc/internal/interp"
	"bfc/internal/linker"
	"bfc/internal/runtime"
)

// RunCommand parses, optionally optimizes, and executes a Brainfuck source
// file against the process's stdin/stdout — by tree-walking the IR
// directly, or, with -compiled, by building and linking it to a native
// binary first and running that instead.
func RunCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	level := fs.Int("O", 2, "optimization level: 0 disables the optimizer, 1 and 2 both run it to a fixed point")
	passes := fs.String("passes", "", "comma-separated pass names to restrict optimization to (default: all)")
	warningsOnly := fs.Bool("warnings-only", false, "do not fail the run on optimizer warnings")
	compiled := fs.Bool("compiled", false, "build and link to a native binary first, then execute that instead of tree-walking the IR")
	cc := fs.String("cc", "clang", "C compiler used to assemble and link when -compiled is set")
	verbose := fs.Bool("v", false, "print pipeline progress to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errUsage("run <file.bf>")
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

	if *compiled {
		return p.runCompiled(instrs, *cc)
	}

	ip := runtime.New(os.Stdin, os.Stdout)
	return ip.Run(instrs)
}

// runCompiled folds the program as far as the abstract interpreter can,
// lowers the result through codegen, links it with the system C compiler
// into a scratch binary, then executes that binary with linker.Run and
// streams its stdout back to the caller.
func (p *pipeline) runCompiled(instrs []bfir.Node, cc string) error {
	state, warn := interp.Execute(instrs, interp.MaxSteps)
	if warn != nil {
		p.render(diagnostics.LevelError, *warn)
		return warn
	}

	module := codegen.Build(moduleName(p.filename), instrs, state)

	tmpDir, err := os.MkdirTemp("", "bfc-run-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	llPath := filepath.Join(tmpDir, "out.ll")
	if err := os.WriteFile(llPath, []byte(module.String()), 0o644); err != nil {
		return err
	}
	binPath := filepath.Join(tmpDir, "a.out")
	if err := linker.Link(cc, llPath, binPath); err != nil {
		return err
	}
	p.logf("run %s: linked %s, executing", p.runID, binPath)

	out, err := linker.Run(binPath)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
