package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Formatter formats diagnostics with source code snippets.
type Formatter struct {
	out         io.Writer
	sourceCache map[string]string
}

// NewFormatter creates a new diagnostic formatter writing to stderr.
func NewFormatter() *Formatter {
	return NewFormatterTo(os.Stderr)
}

// NewFormatterTo creates a formatter writing to the given writer.
func NewFormatterTo(out io.Writer) *Formatter {
	return &Formatter{
		out:         out,
		sourceCache: make(map[string]string),
	}
}

// AddSource registers in-memory source text for a filename, so snippets can be
// rendered for input that never touched the filesystem (e.g. REPL lines).
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// Format prints a diagnostic: a severity header followed by the offending
// source line with a caret underline, when the source is available.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)

	if d.Span.IsValid() {
		src, err := f.LoadSource(d.Span.Filename)
		if err == nil && src != "" {
			f.printSnippet(src, d.Span)
		} else {
			fmt.Fprintf(f.out, " --> %s\n", d.Span)
		}
	}

	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.out, "help: %s\n", d.Help)
	}
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}

	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
	}
}

func (f *Formatter) printSnippet(src string, span Span) {
	lines := strings.Split(src, "\n")
	if span.Line < 1 || span.Line > len(lines) {
		fmt.Fprintf(f.out, " --> %s\n", span)
		return
	}

	line := strings.TrimRight(lines[span.Line-1], "\r")
	gutter := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(gutter))

	fmt.Fprintf(f.out, "%s--> %s\n", pad, span)
	fmt.Fprintf(f.out, "%s |\n", pad)
	fmt.Fprintf(f.out, "%s | %s\n", gutter, line)
	fmt.Fprintf(f.out, "%s | %s%s\n", pad, indentFor(line, span.Column-1), carets(span, line))
}

// indentFor reproduces the leading portion of the source line using spaces,
// keeping tabs as tabs so the caret lines up in terminals.
func indentFor(line string, width int) string {
	var b strings.Builder
	for i, r := range line {
		if i >= width {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func carets(span Span, line string) string {
	n := span.End - span.Start
	if n < 1 {
		n = 1
	}
	if max := len(line) - (span.Column - 1); max > 0 && n > max {
		n = max
	}
	return strings.Repeat("^", n)
}
