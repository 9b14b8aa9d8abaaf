package ir

import (
	"fmt"
	"path/filepath"
)

// Marker is the closed set of reference markers a document may carry.
// The resolver matches the four variants exhaustively; no other
// implementations exist outside this package.
type Marker interface {
	// Tag returns the surface tag of the marker, e.g. "!ref".
	Tag() string
	clone() Marker
	items() []*Node
}

// Ref is a single-file reference: it stands for the resolved content of
// one document, named by a path relative to the file containing the
// marker.
type Ref struct {
	source string
	Path   string
}

// Glob is a multi-file reference: it stands for an array of resolved
// documents, one per file matched by a glob pattern relative to the
// file containing the marker.
type Glob struct {
	source  string
	Pattern string
}

// Flatten wraps a sequence whose nested sequences are spliced into a
// single level after the items resolve.
type Flatten struct {
	Items []*Node
}

// Merge wraps a sequence of objects combined last-write-wins into one
// object after the items resolve and flatten.
type Merge struct {
	Items []*Node
}

func NewRef(path string) (*Ref, error) {
	if err := checkTarget("!ref", "path", path); err != nil {
		return nil, err
	}
	return &Ref{Path: path}, nil
}

func NewGlob(pattern string) (*Glob, error) {
	if err := checkTarget("!glob", "glob", pattern); err != nil {
		return nil, err
	}
	return &Glob{Pattern: pattern}, nil
}

func NewFlatten(items []*Node) *Flatten {
	return &Flatten{Items: items}
}

func NewMerge(items []*Node) *Merge {
	return &Merge{Items: items}
}

func checkTarget(tag, prop, v string) error {
	if v == "" {
		return fmt.Errorf("%w: %s %s is empty", ErrInvalidMarker, tag, prop)
	}
	if filepath.IsAbs(v) {
		return fmt.Errorf("%w: %s %s %q is absolute, must be relative",
			ErrInvalidMarker, tag, prop, v)
	}
	return nil
}

func (r *Ref) Tag() string     { return "!ref" }
func (g *Glob) Tag() string    { return "!glob" }
func (f *Flatten) Tag() string { return "!flatten" }
func (m *Merge) Tag() string   { return "!merge" }

// Source returns the absolute path of the file this marker was parsed
// from, or "" if it has not been stamped yet.
func (r *Ref) Source() string  { return r.source }
func (g *Glob) Source() string { return g.source }

// SetSource stamps the absolute path of the containing file. The parser
// calls this once per marker; resolution requires it.
func (r *Ref) SetSource(abs string)  { r.source = abs }
func (g *Glob) SetSource(abs string) { g.source = abs }

func (r *Ref) clone() Marker {
	cp := *r
	return &cp
}

func (g *Glob) clone() Marker {
	cp := *g
	return &cp
}

func (f *Flatten) clone() Marker {
	return &Flatten{Items: cloneNodes(f.Items)}
}

func (m *Merge) clone() Marker {
	return &Merge{Items: cloneNodes(m.Items)}
}

func cloneNodes(ys []*Node) []*Node {
	res := make([]*Node, len(ys))
	for i, y := range ys {
		res[i] = y.Clone()
	}
	return res
}

func (r *Ref) items() []*Node     { return nil }
func (g *Glob) items() []*Node    { return nil }
func (f *Flatten) items() []*Node { return f.Items }
func (m *Merge) items() []*Node   { return m.Items }

// StampSource stamps abs as the source location of every Ref and Glob
// marker in the tree, including markers nested in flatten/merge items.
func StampSource(y *Node, abs string) {
	y.Visit(func(node *Node, isPost bool) (bool, error) {
		if isPost || node.Type != MarkerType {
			return true, nil
		}
		switch m := node.Marker.(type) {
		case *Ref:
			m.SetSource(abs)
		case *Glob:
			m.SetSource(abs)
		}
		return true, nil
	})
}
