package ir

import (
	"fmt"
	"math"
	"sort"
)

// ToAny exports a resolved tree as a JSON-compatible value: nil, bool,
// int64/float64, string, []any, or map[string]any. It fails on any
// remaining marker node; resolved documents never contain one.
func ToAny(y *Node) (any, error) {
	switch y.Type {
	case NullType:
		return nil, nil
	case BoolType:
		return y.Bool, nil
	case StringType:
		return y.String, nil
	case NumberType:
		if y.Int64 != nil {
			return *y.Int64, nil
		}
		if y.Float64 != nil {
			return *y.Float64, nil
		}
		return nil, fmt.Errorf("number node at %s has no value", y.Path())
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, yv := range y.Values {
			v, err := ToAny(yv)
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, yf := range y.Fields {
			v, err := ToAny(y.Values[i])
			if err != nil {
				return nil, err
			}
			res[yf.String] = v
		}
		return res, nil
	case MarkerType:
		return nil, fmt.Errorf("unresolved %s marker at %s", y.Marker.Tag(), y.Path())
	default:
		panic("type")
	}
}

// FromAny builds a tree from a JSON-compatible value. Object keys are
// sorted so the result is deterministic regardless of map iteration.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return FromInt(int64(x)), nil
		}
		return FromFloat(x), nil
	case []any:
		vals := make([]*Node, len(x))
		for i, e := range x {
			y, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			vals[i] = y
		}
		return FromSlice(vals), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		kvs := make([]KeyVal, len(keys))
		for i, k := range keys {
			y, err := FromAny(x[k])
			if err != nil {
				return nil, err
			}
			kvs[i] = KeyVal{Key: FromString(k), Val: y}
		}
		return FromKeyVals(kvs), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
