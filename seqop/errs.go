package seqop

import (
	"errors"
	"fmt"

	"github.com/weavedoc/weave/ir"
)

var ErrMergeType = errors.New("merge element is not an object")

// MergeTypeError reports a flattened merge element of the wrong type.
type MergeTypeError struct {
	Index int
	Type  ir.Type
}

func (e *MergeTypeError) Error() string {
	return fmt.Sprintf("merge element %d is %s, want Object", e.Index, e.Type)
}

func (e *MergeTypeError) Unwrap() error {
	return ErrMergeType
}
