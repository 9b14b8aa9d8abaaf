package guard

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotAllowed = errors.New("path not allowed")

// NotAllowedError reports a target whose canonicalized form lies
// outside every allowed root.
type NotAllowedError struct {
	Path  string
	Roots []string
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("path %q not allowed: outside allowed roots [%s]",
		e.Path, strings.Join(e.Roots, ", "))
}

func (e *NotAllowedError) Unwrap() error {
	return ErrNotAllowed
}
