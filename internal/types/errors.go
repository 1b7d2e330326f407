package types

import (
	"fmt"

	"github.com/PQNebel/nebulang/internal/diag"
	"github.com/PQNebel/nebulang/internal/lexer"
)

// TypeError is a fatal type error with location context. As in the parser,
// the first error encountered aborts the whole check.
type TypeError struct {
	Message string
	Span    lexer.Span
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

// ToDiagnostic converts the error into the shared diagnostic structure.
func (e *TypeError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageTypeCheck,
		Severity: diag.SeverityError,
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

func errorf(span lexer.Span, format string, args ...any) error {
	return &TypeError{
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}
