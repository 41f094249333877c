package ir

import (
	"fmt"

	"tlog.app/go/errors"
)

type (
	// PosError is a compile error at a source position.
	// It unwraps to one of the Err* kinds.
	PosError struct {
		Err  error
		Text string

		Line int
		Col  int
	}
)

var (
	ErrUnexpectedEndOfFile = errors.New("unexpected end of file")
	ErrUnexpectedEndOfLine = errors.New("unexpected end of line")

	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidRegister    = errors.New("invalid register")
	ErrInvalidDestination = errors.New("invalid destination")
	ErrInvalidEscape      = errors.New("invalid escape character")
	ErrInvalidLabel       = errors.New("invalid label")
	ErrInvalidCommand     = errors.New("invalid command")
	ErrInvalidEncoding    = errors.New("invalid utf-8")

	ErrUnresolvedLabel = errors.New("unresolved label")
	ErrDivisionByZero  = errors.New("division by zero")
)

func NewPosError(err error, text string, line, col int) PosError {
	return PosError{
		Err:  err,
		Text: text,
		Line: line,
		Col:  col,
	}
}

func (e PosError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%v at %d:%d", e.Err, e.Line, e.Col)
	}

	return fmt.Sprintf("%v %q at %d:%d", e.Err, e.Text, e.Line, e.Col)
}

func (e PosError) Unwrap() error { return e.Err }
