package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets testscript build and exercise the bfc binary as a
// subprocess command inside each script, the standard way a Go CLI's
// end-to-end behavior is tested with this library.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"bfc": runMain,
	}))
}

// runMain adapts main to the func() int shape testscript.RunMain expects.
// testscript runs it in a separate process of the test binary, so an
// os.Exit inside main ends only that process.
func runMain() int {
	main()
	return 0
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
