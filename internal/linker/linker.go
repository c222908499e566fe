// Package linker shells out to the system C toolchain to turn generated
// object code into a native executable. See spec.md section 6 and
// original_source/src/compiler/shell.rs, which this is a direct port of.
package linker

import (
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// shellCommand runs command with args and returns its stdout on success,
// or an error wrapping its stderr on failure.
func shellCommand(command string, args ...string) (string, error) {
	cmd := exec.Command(command, args...)
	out, err := cmd.Output()
	if err == nil {
		return string(out), nil
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		return "", errors.Errorf("%s: %s", command, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return "", errors.Wrapf(err, "could not execute %q; is it on $PATH?", command)
}

// Link invokes the system C compiler to link objectFile into an
// executable at outputPath.
func Link(cc string, objectFile string, outputPath string) error {
	if cc == "" {
		cc = "cc"
	}
	_, err := shellCommand(cc, objectFile, "-o", outputPath)
	if err != nil {
		return errors.Wrap(err, "link failed")
	}
	return nil
}

// Run executes the freshly linked binary at path with args, streaming its
// stdout back to the caller (used by the `run` subcommand, which compiles
// and immediately executes the result).
func Run(path string, args ...string) (string, error) {
	out, err := shellCommand(path, args...)
	if err != nil {
		return "", errors.Wrap(err, "run failed")
	}
	return out, nil
}
