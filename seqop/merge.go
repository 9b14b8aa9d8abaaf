package seqop

import (
	"github.com/weavedoc/weave/debug"
	"github.com/weavedoc/weave/ir"
)

// Merge combines an already-flattened sequence of objects into one
// object, left to right, last write winning per key. The merge is
// shallow: an object value fully replaces an earlier object value for
// the same key, and a null value overwrites like any other. An empty
// input yields an empty object. Any non-object element fails with a
// MergeTypeError naming its position.
func Merge(items []*ir.Node) (*ir.Node, error) {
	var kvs []ir.KeyVal
	at := map[string]int{}
	for i, y := range items {
		if y.Type != ir.ObjectType {
			return nil, &MergeTypeError{Index: i, Type: y.Type}
		}
		for j, yf := range y.Fields {
			key := yf.String
			val := y.Values[j].Clone()
			if k, ok := at[key]; ok {
				kvs[k].Val = val
				continue
			}
			at[key] = len(kvs)
			kvs = append(kvs, ir.KeyVal{Key: yf.Clone(), Val: val})
		}
	}
	if debug.Seqop() {
		debug.Logf("merge: %d objects -> %d keys\n", len(items), len(kvs))
	}
	return ir.FromKeyVals(kvs), nil
}
