package parse

import (
	"errors"
	"fmt"
)

var ErrParse = errors.New("parse error")

// Error wraps an underlying decode or marker-construction error with
// the file and position it came from.
type Error struct {
	File string
	Line int
	Col  int
	Err  error
}

func (e *Error) Error() string {
	loc := e.File
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", loc, e.Line, e.Col)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
