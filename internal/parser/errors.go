package parser

import (
	"fmt"

	"github.com/PQNebel/nebulang/internal/diag"
	"github.com/PQNebel/nebulang/internal/lexer"
)

// ParseError is a fatal syntax error with location context. The first one
// encountered aborts the whole parse; there is no recovery or multi-error
// collection.
type ParseError struct {
	Message string
	Span    lexer.Span
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

// ToDiagnostic converts the error into the shared diagnostic structure.
func (e *ParseError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageParser,
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

func (p *Parser) errorf(span lexer.Span, format string, args ...any) error {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}
