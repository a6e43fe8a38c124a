package parser

import (
	"errors"
	"fmt"
)

// ErrInvalidContents is the target for errors.Is on every grammar violation.
var ErrInvalidContents = errors.New("invalid gherkin contents")

// ParseError reports a grammar violation at a source line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidContents
}

func violation(line int, format string, args ...any) error {
	return &ParseError{Line: line, Message: fmt.Sprintf(format, args...)}
}
