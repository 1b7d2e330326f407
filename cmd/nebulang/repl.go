package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/PQNebel/nebulang/internal/diag"
	"github.com/PQNebel/nebulang/internal/lexer"
	"github.com/PQNebel/nebulang/internal/parser"
	"github.com/PQNebel/nebulang/internal/types"
)

// replFilename is the pseudo-filename attributed to interactive input, so
// diagnostics can still render snippets through the formatter's source cache.
const replFilename = "<repl>"

// runRepl reads statements line by line. Accepted lines accumulate into one
// growing program that is re-checked from scratch on every entry; a line that
// fails is reported and discarded, leaving the session state untouched.
func runRepl() {
	prompt := liner.NewLiner()
	defer prompt.Close()
	prompt.SetCtrlCAborts(true)

	histPath := historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			prompt.ReadHistory(f)
			f.Close()
		}
	}

	formatter := diag.NewFormatter()
	var accepted []string

	fmt.Println("Nebulang REPL. Type :quit to exit.")
	for {
		input, err := prompt.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			break
		}
		prompt.AppendHistory(input)

		program := strings.Join(append(append([]string{}, accepted...), input), ";\n")
		typ, ok := checkProgram(formatter, program)
		if !ok {
			continue
		}

		accepted = append(accepted, input)
		fmt.Printf("-> %s\n", typ)
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			prompt.WriteHistory(f)
			f.Close()
		}
	}
}

// checkProgram runs the full pipeline over one REPL program, printing any
// diagnostic and reporting whether the program checked.
func checkProgram(formatter *diag.Formatter, program string) (string, bool) {
	formatter.AddSource(replFilename, program)

	toks, lexErrs := lexer.ScanFile(replFilename, program)
	if len(lexErrs) > 0 {
		for _, lexErr := range lexErrs {
			formatter.Format(lexErr.ToDiagnostic())
		}
		return "", false
	}

	root, err := parser.New(toks).Parse()
	if err != nil {
		report(formatter, err)
		return "", false
	}

	typ, err := types.Check(root)
	if err != nil {
		report(formatter, err)
		return "", false
	}
	return typ.String(), true
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nebulang_history")
}
