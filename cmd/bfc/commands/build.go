package commands

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"bfc/internal/codegen"
	"bfc/internal/diagnostics"
	"bfc/internal/interp"
	"bfc/internal/linker"
)

// BuildCommand parses, optimizes, folds as much of the program as the
// abstract interpreter can determine statically, and lowers the result to
// an LLVM IR module. If -o is given it additionally shells out to the C
// toolchain to assemble and link that module into a native binary.
func BuildCommand(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	level := fs.Int("O", 2, "optimization level passed to the peephole optimizer before codegen")
	passes := fs.String("passes", "", "comma-separated pass names to restrict optimization to (default: all)")
	output := fs.String("o", "", "output binary path; if set, links the generated module with cc")
	cc := fs.String("cc", "clang", "C compiler used to assemble and link the generated LLVM IR")
	emitIR := fs.String("emit-ir", "", "path to write the generated .ll file (default: <file>.ll)")
	verbose := fs.Bool("v", false, "print pipeline progress to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errUsage("build <file.bf> [-o out]")
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
	instrs, err = p.optimize(instrs, *level, passSpec, false)
	if err != nil {
		return err
	}

	state, warn := interp.Execute(instrs, interp.MaxSteps)
	if warn != nil {
		p.render(diagnostics.LevelError, *warn)
		return warn
	}
	p.logf("run %s: abstract interpreter resolved %d/%d output bytes statically", p.runID, len(state.Outputs), len(state.Outputs))

	module := codegen.Build(moduleName(p.filename), instrs, state)

	llPath := *emitIR
	if llPath == "" {
		llPath = strings.TrimSuffix(p.filename, filepath.Ext(p.filename)) + ".ll"
	}
	if err := os.WriteFile(llPath, []byte(module.String()), 0o644); err != nil {
		return err
	}
	p.logf("run %s: wrote %s", p.runID, llPath)

	if *output == "" {
		return nil
	}
	if err := linker.Link(*cc, llPath, *output); err != nil {
		return err
	}
	p.logf("run %s: linked %s", p.runID, *output)
	return nil
}

func moduleName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
