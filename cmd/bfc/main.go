// cmd/bfc/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"bfc/cmd/bfc/commands"
)

const version = "0.1.0"

// commandAliases mirrors the flat single-letter alias table other project
// CLIs in this codebase use.
var commandAliases = map[string]string{
	"r": "run",
	"b": "build",
	"d": "dump",
	"c": "check",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}
	if cmd == "--version" || cmd == "version" {
		fmt.Println("bfc", version)
		return
	}

	var err error
	switch cmd {
	case "run":
		err = commands.RunCommand(args[1:])
	case "build":
		err = commands.BuildCommand(args[1:])
	case "dump":
		err = commands.DumpCommand(args[1:])
	case "check":
		err = commands.CheckCommand(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmd)
		showUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func showUsage() {
	fmt.Println("bfc - a Brainfuck optimizing compiler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  bfc run <file.bf>          Parse, optimize, and directly execute    (alias: r)")
	fmt.Println("  bfc run <file.bf> -compiled   ...or build, link, and execute natively")
	fmt.Println("  bfc build <file.bf> -o out Parse, optimize, and emit/link native code (alias: b)")
	fmt.Println("  bfc dump <file.bf>         Print the IR for a program                (alias: d)")
	fmt.Println("  bfc check <file.bf>        Validate syntax and optimizer warnings    (alias: c)")
	fmt.Println()
	fmt.Println("Common flags:")
	fmt.Println("  -O 0|1|2        optimization level (0 disables the optimizer)")
	fmt.Println("  -passes a,b,c   restrict optimization to the named passes")
	fmt.Println("  -v              print pipeline progress to stderr")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  bfc r hello.bf")
	fmt.Println("  bfc dump hello.bf -emit bf")
	fmt.Println("  bfc build hello.bf -o hello")
}
