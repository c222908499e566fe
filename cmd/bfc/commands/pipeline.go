// Package commands implements the bfc subcommands: run, build, dump and
// check. Each is a single function taking the subcommand's argv, mirroring
// how the teacher's internal/commands package shapes one function per
// subcommand returning an error for main to report.
package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"bfc/internal/bfir"
	"bfc/internal/diagnostics"
	"bfc/internal/optimizer"
	"bfc/internal/parser"
)

// pipeline is the shared load -> parse -> optimize stage every subcommand
// starts from.
type pipeline struct {
	runID    string
	filename string
	source   []byte
	verbose  bool
}

func newPipeline(filename string, verbose bool) (*pipeline, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", filename, err)
	}
	p := &pipeline{runID: uuid.NewString(), filename: filename, source: source, verbose: verbose}
	p.logf("run %s: loaded %s (%s bytes)", p.runID, filename, humanize.Comma(int64(len(source))))
	return p, nil
}

func (p *pipeline) logf(format string, args ...interface{}) {
	if p.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// parse runs the parser, reporting a fatal diagnostic and a non-nil error
// on unbalanced brackets.
func (p *pipeline) parse() ([]bfir.Node, error) {
	instrs, warn := parser.Parse(p.source)
	if warn != nil {
		p.render(diagnostics.LevelError, *warn)
		return nil, fmt.Errorf("%s", warn.Message)
	}
	p.logf("run %s: parsed %s instructions", p.runID, humanize.Comma(int64(countNodes(instrs))))
	return instrs, nil
}

// optimize applies the optimizer at the given level (0 disables it
// entirely) restricted to passSpec, rendering any advisory warnings it
// produces. warningsOnly controls whether those warnings are fatal.
func (p *pipeline) optimize(instrs []bfir.Node, level int, passSpec *string, warningsOnly bool) ([]bfir.Node, error) {
	if level == 0 {
		return instrs, nil
	}
	before := countNodes(instrs)
	result, warnings := optimizer.Optimize(instrs, passSpec)
	p.logf("run %s: optimized %s -> %s instructions", p.runID, humanize.Comma(int64(before)), humanize.Comma(int64(countNodes(result))))

	for _, w := range warnings {
		p.render(diagnostics.LevelWarning, w)
	}
	if len(warnings) > 0 && !warningsOnly {
		return result, fmt.Errorf("%s: %d optimizer warning(s)", p.filename, len(warnings))
	}
	return result, nil
}

func (p *pipeline) render(level diagnostics.Level, w diagnostics.Warning) {
	info := diagnostics.NewInfo(level, p.filename, w).WithSource(string(p.source))
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	fmt.Fprintln(os.Stderr, diagnostics.Render(info, useColor))
}

func countNodes(instrs []bfir.Node) int {
	n := 0
	for _, instr := range instrs {
		n++
		if instr.Kind == bfir.KindLoop {
			n += countNodes(instr.Body)
		}
	}
	return n
}
