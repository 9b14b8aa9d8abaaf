package seqop

import (
	"github.com/weavedoc/weave/debug"
	"github.com/weavedoc/weave/ir"
)

// Flatten splices every array element into its place, recursively, so
// that no element of the result is itself an array. Non-array elements
// pass through unchanged, in order.
func Flatten(items []*ir.Node) []*ir.Node {
	res := make([]*ir.Node, 0, len(items))
	for _, y := range items {
		if y.Type == ir.ArrayType {
			res = append(res, Flatten(y.Values)...)
			continue
		}
		res = append(res, y)
	}
	if debug.Seqop() {
		debug.Logf("flatten: %d items -> %d\n", len(items), len(res))
	}
	return res
}
