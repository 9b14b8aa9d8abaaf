package resolve

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"

	"github.com/weavedoc/weave/debug"
	"github.com/weavedoc/weave/guard"
	"github.com/weavedoc/weave/ir"
	"github.com/weavedoc/weave/seqop"
)

// Resolver is configuration only; it is reusable and each ResolveFile
// call carries its own traversal state.
type Resolver struct {
	parser     Parser
	fs         FileSystem
	glob       Globber
	extraRoots []string
	exts       []string
}

func New(opts ...Option) *Resolver {
	r := &Resolver{
		exts: []string{".yaml", ".yml", ".json", ".jsonc"},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fs == nil {
		r.fs = osFS{}
	}
	if r.glob == nil {
		r.glob = osGlob{}
	}
	if r.parser == nil {
		r.parser = &fsParser{fs: r.fs}
	}
	return r
}

// state is the mutable traversal state of one top-level ResolveFile
// invocation: the ancestor stack and the allowed roots, threaded by
// reference through the whole walk and never shared across
// invocations.
type state struct {
	anc   *ancestors
	roots *guard.Roots
}

// ResolveFile parses the entry file and returns an equivalent tree
// with every marker replaced by resolved content. The allowed roots
// are the entry file's parent directory plus any configured extras.
func (r *Resolver) ResolveFile(entry string) (*ir.Node, error) {
	abs, err := filepath.Abs(entry)
	if err != nil {
		return nil, err
	}
	roots, err := guard.NewRoots(append([]string{filepath.Dir(abs)}, r.extraRoots...)...)
	if err != nil {
		return nil, err
	}
	st := &state{
		anc:   newAncestors(),
		roots: roots,
	}
	return r.loadFile(abs, "", st)
}

// loadFile brackets one file on the ancestor stack: cycle check and
// push, existence check, parse, recurse, pop. The pop is deferred so
// it runs on every exit path.
func (r *Resolver) loadFile(target, from string, st *state) (*ir.Node, error) {
	if err := st.anc.enter(target); err != nil {
		return nil, err
	}
	defer st.anc.exit()
	if !r.fs.Exists(target) {
		return nil, &NotFoundError{Target: target, ReferencedFrom: from}
	}
	if debug.Resolve() {
		debug.Logf("resolve: load %s\n", target)
	}
	y, err := r.parser.ParseFile(target)
	if err != nil {
		return nil, err
	}
	return r.resolveNode(y, st)
}

func (r *Resolver) resolveNode(node *ir.Node, st *state) (*ir.Node, error) {
	switch node.Type {
	case ir.NullType, ir.BoolType, ir.NumberType, ir.StringType:
		return node.Clone(), nil
	case ir.ObjectType:
		res := &ir.Node{Type: ir.ObjectType}
		res.Fields = make([]*ir.Node, len(node.Fields))
		res.Values = make([]*ir.Node, len(node.Values))
		for i, field := range node.Fields {
			yy, err := r.resolveNode(node.Values[i], st)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field.String, err)
			}
			resField := field.Clone()
			resField.Parent = res
			resField.ParentIndex = i
			resField.ParentField = field.String
			yy.Parent = res
			yy.ParentIndex = i
			yy.ParentField = field.String
			res.Fields[i] = resField
			res.Values[i] = yy
		}
		return res, nil
	case ir.ArrayType:
		res := &ir.Node{Type: ir.ArrayType}
		res.Values = make([]*ir.Node, len(node.Values))
		for i, yy := range node.Values {
			resY, err := r.resolveNode(yy, st)
			if err != nil {
				return nil, fmt.Errorf("list item %d: %w", i, err)
			}
			resY.Parent = res
			resY.ParentIndex = i
			res.Values[i] = resY
		}
		return res, nil
	case ir.MarkerType:
		switch m := node.Marker.(type) {
		case *ir.Ref:
			return r.resolveRef(m, st)
		case *ir.Glob:
			return r.resolveGlob(m, st)
		case *ir.Flatten:
			items, err := r.resolveItems(m.Items, st)
			if err != nil {
				return nil, fmt.Errorf("!flatten: %w", err)
			}
			return ir.FromSlice(seqop.Flatten(items)), nil
		case *ir.Merge:
			items, err := r.resolveItems(m.Items, st)
			if err != nil {
				return nil, fmt.Errorf("!merge: %w", err)
			}
			merged, err := seqop.Merge(seqop.Flatten(items))
			if err != nil {
				return nil, fmt.Errorf("!merge: %w", err)
			}
			return merged, nil
		default:
			panic("marker")
		}
	default:
		panic("type")
	}
}

func (r *Resolver) resolveItems(items []*ir.Node, st *state) ([]*ir.Node, error) {
	res := make([]*ir.Node, len(items))
	for i, y := range items {
		yy, err := r.resolveNode(y, st)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		res[i] = yy
	}
	return res, nil
}

func (r *Resolver) resolveRef(m *ir.Ref, st *state) (*ir.Node, error) {
	if m.Source() == "" {
		return nil, fmt.Errorf("%w: !ref %q", ir.ErrMissingLocation, m.Path)
	}
	target := filepath.Join(filepath.Dir(m.Source()), m.Path)
	if err := st.roots.Check(target); err != nil {
		return nil, fmt.Errorf("!ref %q in %s: %w", m.Path, m.Source(), err)
	}
	return r.loadFile(target, m.Source(), st)
}

// resolveGlob expands a multi-file reference into an array of resolved
// documents, one per match, ordered by ascending absolute path. A
// match outside the allowed roots is excluded silently rather than
// failing the resolution: the glob may legitimately span both allowed
// and disallowed regions, unlike a single reference which names its
// target deliberately.
func (r *Resolver) resolveGlob(m *ir.Glob, st *state) (*ir.Node, error) {
	if m.Source() == "" {
		return nil, fmt.Errorf("%w: !glob %q", ir.ErrMissingLocation, m.Pattern)
	}
	base := filepath.Dir(m.Source())
	matches, err := r.glob.Match(filepath.Join(base, m.Pattern))
	if err != nil {
		return nil, fmt.Errorf("!glob %q in %s: %w", m.Pattern, m.Source(), err)
	}
	targets := make([]string, 0, len(matches))
	for _, match := range matches {
		abs, err := filepath.Abs(match)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(r.exts, filepath.Ext(abs)) {
			if debug.Glob() {
				debug.Logf("glob: skip %s: unrecognized extension\n", abs)
			}
			continue
		}
		if !st.roots.Allows(abs) {
			if debug.Glob() {
				debug.Logf("glob: exclude %s: outside allowed roots\n", abs)
			}
			continue
		}
		targets = append(targets, abs)
	}
	if len(targets) == 0 {
		return nil, &NoMatchError{Pattern: m.Pattern, Base: base}
	}
	// byte-wise ascending: the result order is a contract, stable
	// across operating systems and directory listing orders.
	sort.Strings(targets)
	res := make([]*ir.Node, len(targets))
	for i, target := range targets {
		y, err := r.loadFile(target, m.Source(), st)
		if err != nil {
			return nil, err
		}
		res[i] = y
	}
	return ir.FromSlice(res), nil
}
