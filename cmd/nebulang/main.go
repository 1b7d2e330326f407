package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/PQNebel/nebulang/internal/diag"
	"github.com/PQNebel/nebulang/internal/lexer"
	"github.com/PQNebel/nebulang/internal/parser"
	"github.com/PQNebel/nebulang/internal/types"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nebulang <command> [options]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  check <file>    Parse and type-check a Nebulang source file\n")
		fmt.Fprintf(os.Stderr, "  tokens <file>   Print the token stream of a Nebulang source file\n")
		fmt.Fprintf(os.Stderr, "  repl            Start an interactive session\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "check":
		runCheck(args)
	case "tokens":
		runTokens(args)
	case "repl":
		runRepl()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runCheck(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: nebulang check <file>\n")
		os.Exit(1)
	}
	filename := args[0]

	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	formatter := diag.NewFormatter()

	toks, lexErrs := lexer.ScanFile(filename, string(src))
	if len(lexErrs) > 0 {
		for _, lexErr := range lexErrs {
			formatter.Format(lexErr.ToDiagnostic())
		}
		os.Exit(1)
	}

	root, err := parser.New(toks).Parse()
	if err != nil {
		report(formatter, err)
		os.Exit(1)
	}

	typ, err := types.Check(root)
	if err != nil {
		report(formatter, err)
		os.Exit(1)
	}

	fmt.Printf("%s: ok, program has type %s\n", filename, typ)
}

func runTokens(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: nebulang tokens <file>\n")
		os.Exit(1)
	}
	filename := args[0]

	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	formatter := diag.NewFormatter()

	toks, lexErrs := lexer.ScanFile(filename, string(src))
	for _, tok := range toks {
		fmt.Printf("%-12s %-8s %s\n", tok.Type, tok.Raw, tok.Span)
	}
	if len(lexErrs) > 0 {
		for _, lexErr := range lexErrs {
			formatter.Format(lexErr.ToDiagnostic())
		}
		os.Exit(1)
	}
}

// report prints err through the diagnostic formatter when it carries location
// context, and as a bare error line otherwise.
func report(formatter *diag.Formatter, err error) {
	if d, ok := err.(interface{ ToDiagnostic() diag.Diagnostic }); ok {
		formatter.Format(d.ToDiagnostic())
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
}
