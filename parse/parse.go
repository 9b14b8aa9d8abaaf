// Package parse turns YAML, JSON, or JSONC document text into an ir
// tree, recognizing the four weave marker tags (!ref, !glob, !flatten,
// !merge) and stamping reference markers with the absolute path of the
// file they were parsed from.
package parse

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/weavedoc/weave/ir"
)

const (
	refTag     = "!ref"
	globTag    = "!glob"
	flattenTag = "!flatten"
	mergeTag   = "!merge"
)

// Parse decodes one document into an ir tree. If a filename option
// names an absolute path, every reference marker in the result is
// stamped with it.
func Parse(data []byte, opts ...ParseOption) (*ir.Node, error) {
	o := &parseOpts{}
	for _, opt := range opts {
		opt(o)
	}
	if o.jsonc {
		data = jsonc.ToJSON(data)
	}
	var yn yaml.Node
	if err := yaml.Unmarshal(data, &yn); err != nil {
		return nil, &Error{File: o.filename, Err: err}
	}
	if yn.Kind == 0 {
		// empty document
		return ir.Null(), nil
	}
	root := &yn
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return ir.Null(), nil
		}
		root = root.Content[0]
	}
	res, err := convert(root, o, 0)
	if err != nil {
		return nil, err
	}
	if filepath.IsAbs(o.filename) {
		ir.StampSource(res, o.filename)
	}
	return res, nil
}

// ParseFile reads and parses path. JSONC comment stripping is selected
// by the .jsonc extension; everything else parses as YAML, of which
// JSON is a subset.
func ParseFile(path string) (*ir.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	opts := []ParseOption{ParseFilename(abs)}
	if filepath.Ext(abs) == ".jsonc" {
		opts = append(opts, ParseJSONC())
	}
	return Parse(data, opts...)
}

const maxAliasDepth = 1000

func convert(yn *yaml.Node, o *parseOpts, depth int) (*ir.Node, error) {
	if depth > maxAliasDepth {
		return nil, o.errf(yn, "alias nesting too deep")
	}
	switch tag := yn.Tag; tag {
	case refTag, globTag:
		return convertRef(yn, o)
	case flattenTag, mergeTag:
		return convertSeqOp(yn, o, depth)
	}
	switch yn.Kind {
	case yaml.AliasNode:
		return convert(yn.Alias, o, depth+1)
	case yaml.MappingNode:
		return convertMapping(yn, o, depth)
	case yaml.SequenceNode:
		vals, err := convertSeq(yn, o, depth)
		if err != nil {
			return nil, err
		}
		return ir.FromSlice(vals), nil
	case yaml.ScalarNode:
		return convertScalar(yn, o)
	default:
		return nil, o.errf(yn, "unsupported node kind %d", yn.Kind)
	}
}

func convertMapping(yn *yaml.Node, o *parseOpts, depth int) (*ir.Node, error) {
	n := len(yn.Content) / 2
	kvs := make([]ir.KeyVal, 0, n)
	seen := map[string]bool{}
	for i := 0; i < len(yn.Content); i += 2 {
		keyNode, valNode := yn.Content[i], yn.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, o.errf(keyNode, "object key must be a scalar")
		}
		key := keyNode.Value
		if seen[key] {
			return nil, o.errf(keyNode, "duplicate object key %q", key)
		}
		seen[key] = true
		val, err := convert(valNode, o, depth)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: val})
	}
	return ir.FromKeyVals(kvs), nil
}

func convertSeq(yn *yaml.Node, o *parseOpts, depth int) ([]*ir.Node, error) {
	vals := make([]*ir.Node, len(yn.Content))
	for i, c := range yn.Content {
		v, err := convert(c, o, depth)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// convertRef builds a single- or multi-file reference marker. The
// payload must be a mapping with exactly the tag's one property, a
// string.
func convertRef(yn *yaml.Node, o *parseOpts) (*ir.Node, error) {
	prop := "path"
	if yn.Tag == globTag {
		prop = "glob"
	}
	if yn.Kind != yaml.MappingNode {
		return nil, o.errf(yn, "%w: %s payload must be a mapping with a %q property",
			ir.ErrInvalidMarker, yn.Tag, prop)
	}
	var target string
	found := false
	for i := 0; i < len(yn.Content); i += 2 {
		keyNode, valNode := yn.Content[i], yn.Content[i+1]
		if keyNode.Value != prop || found {
			return nil, o.errf(keyNode, "%w: %s payload allows only the %q property, got %q",
				ir.ErrInvalidMarker, yn.Tag, prop, keyNode.Value)
		}
		if valNode.Kind != yaml.ScalarNode {
			return nil, o.errf(valNode, "%w: %s %s must be a string",
				ir.ErrInvalidMarker, yn.Tag, prop)
		}
		target = valNode.Value
		found = true
	}
	if !found {
		return nil, o.errf(yn, "%w: %s payload is missing the %q property",
			ir.ErrInvalidMarker, yn.Tag, prop)
	}
	var (
		m   ir.Marker
		err error
	)
	if yn.Tag == refTag {
		m, err = ir.NewRef(target)
	} else {
		m, err = ir.NewGlob(target)
	}
	if err != nil {
		return nil, o.wrap(yn, err)
	}
	return ir.FromMarker(m), nil
}

func convertSeqOp(yn *yaml.Node, o *parseOpts, depth int) (*ir.Node, error) {
	if yn.Kind != yaml.SequenceNode {
		return nil, o.errf(yn, "%w: %s payload must be a sequence",
			ir.ErrInvalidMarker, yn.Tag)
	}
	items, err := convertSeq(yn, o, depth)
	if err != nil {
		return nil, err
	}
	if yn.Tag == flattenTag {
		return ir.FromMarker(ir.NewFlatten(items)), nil
	}
	return ir.FromMarker(ir.NewMerge(items)), nil
}

func convertScalar(yn *yaml.Node, o *parseOpts) (*ir.Node, error) {
	switch yn.Tag {
	case "!!null":
		return ir.Null(), nil
	case "!!bool":
		var b bool
		if err := yn.Decode(&b); err != nil {
			return nil, o.wrap(yn, err)
		}
		return ir.FromBool(b), nil
	case "!!int":
		var i int64
		if err := yn.Decode(&i); err != nil {
			return nil, o.wrap(yn, err)
		}
		return ir.FromInt(i), nil
	case "!!float":
		var f float64
		if err := yn.Decode(&f); err != nil {
			return nil, o.wrap(yn, err)
		}
		return ir.FromFloat(f), nil
	case "!!str", "!!timestamp":
		return ir.FromString(yn.Value), nil
	default:
		return nil, o.errf(yn, "unrecognized tag %q", yn.Tag)
	}
}

func (o *parseOpts) errf(yn *yaml.Node, format string, args ...any) error {
	return &Error{
		File: o.filename,
		Line: yn.Line,
		Col:  yn.Column,
		Err:  fmt.Errorf(format, args...),
	}
}

func (o *parseOpts) wrap(yn *yaml.Node, err error) error {
	return &Error{File: o.filename, Line: yn.Line, Col: yn.Column, Err: err}
}
