package ir

import "errors"

var (
	// ErrInvalidMarker reports a marker constructed with an empty or
	// absolute target, or a payload of the wrong shape.
	ErrInvalidMarker = errors.New("invalid marker")

	// ErrMissingLocation reports a Ref or Glob marker reaching the
	// resolver before the parser stamped its source location. This is a
	// programming contract violation, not a document error.
	ErrMissingLocation = errors.New("marker has no source location")
)
