package resolve

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("referenced file not found")
	ErrCircular = errors.New("circular reference")
	ErrNoMatch  = errors.New("glob matched no files")
)

// NotFoundError reports a reference target that does not exist.
type NotFoundError struct {
	Target         string
	ReferencedFrom string
}

func (e *NotFoundError) Error() string {
	if e.ReferencedFrom == "" {
		return fmt.Sprintf("file %q does not exist", e.Target)
	}
	return fmt.Sprintf("file %q does not exist (referenced from %s)",
		e.Target, e.ReferencedFrom)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// CircularError reports a reference target already being resolved on
// the current call path. Chain lists the ancestors in visitation
// order.
type CircularError struct {
	Target string
	Chain  []string
}

func (e *CircularError) Error() string {
	return fmt.Sprintf("circular reference to %q: %s -> %s",
		e.Target, strings.Join(e.Chain, " -> "), e.Target)
}

func (e *CircularError) Unwrap() error {
	return ErrCircular
}

// NoMatchError reports a glob that, after extension and allow-list
// filtering, matched nothing.
type NoMatchError struct {
	Pattern string
	Base    string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("glob %q relative to %s matched no files", e.Pattern, e.Base)
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}
