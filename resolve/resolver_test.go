package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weavedoc/weave/guard"
	"github.com/weavedoc/weave/ir"
	"github.com/weavedoc/weave/seqop"
)

// writeTree writes files (relative path -> content) under dir,
// creating parent directories as needed.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func resolveToAny(t *testing.T, r *Resolver, entry string) any {
	t.Helper()
	y, err := r.ResolveFile(entry)
	if err != nil {
		t.Fatalf("ResolveFile(%s): %v", entry, err)
	}
	if ir.HasMarkers(y) {
		t.Fatal("resolved tree still contains markers")
	}
	v, err := ir.ToAny(y)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestResolveSingleRef(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml":     "database: !ref {path: ./database.yaml}\n",
		"database.yaml": "host: localhost\nport: 5432\n",
	})
	got := resolveToAny(t, New(), filepath.Join(tmp, "main.yaml"))
	want := map[string]any{
		"database": map[string]any{
			"host": "localhost",
			"port": int64(5432),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestResolveNestedRefs(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"a.yaml":     "b: !ref {path: ./sub/b.yaml}\n",
		"sub/b.yaml": "c: !ref {path: ./c.yaml}\n",
		"sub/c.yaml": "leaf: true\n",
	})
	got := resolveToAny(t, New(), filepath.Join(tmp, "a.yaml"))
	want := map[string]any{
		"b": map[string]any{
			"c": map[string]any{"leaf": true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestResolveSameFileTwice(t *testing.T) {
	// The ancestor stack is a call-stack mirror, not a cache: the same
	// file referenced along sibling paths is fine.
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml":   "x: !ref {path: ./shared.yaml}\ny: !ref {path: ./shared.yaml}\n",
		"shared.yaml": "v: 1\n",
	})
	got := resolveToAny(t, New(), filepath.Join(tmp, "main.yaml"))
	want := map[string]any{
		"x": map[string]any{"v": int64(1)},
		"y": map[string]any{"v": int64(1)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestResolveCycles(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name: "self reference",
			files: map[string]string{
				"main.yaml": "me: !ref {path: ./main.yaml}\n",
			},
		},
		{
			name: "two cycle",
			files: map[string]string{
				"main.yaml":  "o: !ref {path: ./other.yaml}\n",
				"other.yaml": "m: !ref {path: ./main.yaml}\n",
			},
		},
		{
			name: "three cycle",
			files: map[string]string{
				"main.yaml": "a: !ref {path: ./a.yaml}\n",
				"a.yaml":    "b: !ref {path: ./b.yaml}\n",
				"b.yaml":    "m: !ref {path: ./main.yaml}\n",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			writeTree(t, tmp, tt.files)
			_, err := New().ResolveFile(filepath.Join(tmp, "main.yaml"))
			if !errors.Is(err, ErrCircular) {
				t.Fatalf("got %v, want ErrCircular", err)
			}
			var ce *CircularError
			if !errors.As(err, &ce) {
				t.Fatalf("got %T", err)
			}
			if len(ce.Chain) != len(tt.files) {
				t.Errorf("chain %v, want %d ancestors", ce.Chain, len(tt.files))
			}
			if ce.Chain[0] != filepath.Join(tmp, "main.yaml") {
				t.Errorf("chain starts at %q, want the entry file", ce.Chain[0])
			}
		})
	}
}

func TestResolveDiamondIsNotACycle(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml": "left: !ref {path: ./l.yaml}\nright: !ref {path: ./r.yaml}\n",
		"l.yaml":    "d: !ref {path: ./d.yaml}\n",
		"r.yaml":    "d: !ref {path: ./d.yaml}\n",
		"d.yaml":    "v: 7\n",
	})
	got := resolveToAny(t, New(), filepath.Join(tmp, "main.yaml"))
	d := map[string]any{"d": map[string]any{"v": int64(7)}}
	want := map[string]any{"left": d, "right": d}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestResolveNotFound(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml": "x: !ref {path: ./missing.yaml}\n",
	})
	_, err := New().ResolveFile(filepath.Join(tmp, "main.yaml"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("got %T", err)
	}
	if nfe.Target != filepath.Join(tmp, "missing.yaml") {
		t.Errorf("target = %q", nfe.Target)
	}
	if nfe.ReferencedFrom != filepath.Join(tmp, "main.yaml") {
		t.Errorf("referenced from = %q", nfe.ReferencedFrom)
	}
}

func TestResolveEntryNotFound(t *testing.T) {
	_, err := New().ResolveFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestResolvePathNotAllowed(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"inside/main.yaml":    "x: !ref {path: ../outside/secret.yaml}\n",
		"outside/secret.yaml": "k: v\n",
	})
	entry := filepath.Join(tmp, "inside", "main.yaml")
	_, err := New().ResolveFile(entry)
	if !errors.Is(err, guard.ErrNotAllowed) {
		t.Fatalf("got %v, want guard.ErrNotAllowed", err)
	}

	// The same reference works when the outside directory is an
	// explicit extra root.
	got := resolveToAny(t, New(WithRoots(filepath.Join(tmp, "outside"))), entry)
	want := map[string]any{"x": map[string]any{"k": "v"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestResolveSymlinkEscape(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"inside/main.yaml":    "x: !ref {path: ./link.yaml}\n",
		"outside/secret.yaml": "k: v\n",
	})
	link := filepath.Join(tmp, "inside", "link.yaml")
	if err := os.Symlink(filepath.Join(tmp, "outside", "secret.yaml"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	_, err := New().ResolveFile(filepath.Join(tmp, "inside", "main.yaml"))
	if !errors.Is(err, guard.ErrNotAllowed) {
		t.Fatalf("got %v, want guard.ErrNotAllowed", err)
	}
}

func TestResolveGlob(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml":        "configs: !glob {glob: ./configs/*}\n",
		"configs/a.yaml":   "name: a\nvalue: 1\n",
		"configs/b.yaml":   "name: b\nvalue: 2\n",
		"configs/note.txt": "not a document\n",
	})
	got := resolveToAny(t, New(), filepath.Join(tmp, "main.yaml"))
	want := map[string]any{
		"configs": []any{
			map[string]any{"name": "a", "value": int64(1)},
			map[string]any{"name": "b", "value": int64(2)},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

// permuteGlob returns matches in a fixed, deliberately shuffled order.
type permuteGlob struct {
	inner Globber
	perm  func([]string) []string
}

func (g *permuteGlob) Match(pattern string) ([]string, error) {
	matches, err := g.inner.Match(pattern)
	if err != nil {
		return nil, err
	}
	return g.perm(matches), nil
}

func TestResolveGlobOrderIsDeterministic(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml":      "configs: !glob {glob: ./configs/*}\n",
		"configs/a.yaml": "name: a\n",
		"configs/b.yaml": "name: b\n",
		"configs/c.yaml": "name: c\n",
	})
	entry := filepath.Join(tmp, "main.yaml")
	baseline := resolveToAny(t, New(), entry)

	perms := []func([]string) []string{
		func(m []string) []string {
			for i, j := 0, len(m)-1; i < j; i, j = i+1, j-1 {
				m[i], m[j] = m[j], m[i]
			}
			return m
		},
		func(m []string) []string {
			if len(m) > 2 {
				m[0], m[2] = m[2], m[0]
			}
			return m
		},
	}
	for i, perm := range perms {
		r := New(WithGlobber(&permuteGlob{inner: osGlob{}, perm: perm}))
		got := resolveToAny(t, r, entry)
		if diff := cmp.Diff(baseline, got); diff != "" {
			t.Errorf("perm %d changed the output (-baseline +got):\n%s", i, diff)
		}
	}
}

func TestResolveGlobSilentExclusion(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main/entry.yaml": "xs: !glob {glob: ../*/data.yaml}\n",
		"main/data.yaml":  "where: inside\n",
		"other/data.yaml": "where: outside\n",
	})
	// Allowed roots cover only main/; the glob spans main/ and other/.
	// The outside match is excluded, not an error.
	got := resolveToAny(t, New(), filepath.Join(tmp, "main", "entry.yaml"))
	want := map[string]any{
		"xs": []any{map[string]any{"where": "inside"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestResolveGlobNoMatch(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml": "xs: !glob {glob: ./configs/*}\n",
	})
	_, err := New().ResolveFile(filepath.Join(tmp, "main.yaml"))
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("got %v, want ErrNoMatch", err)
	}
	var nme *NoMatchError
	if !errors.As(err, &nme) {
		t.Fatalf("got %T", err)
	}
	if nme.Pattern != "./configs/*" {
		t.Errorf("pattern = %q", nme.Pattern)
	}
}

func TestResolveGlobAllFilteredIsNoMatch(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml":        "xs: !glob {glob: ./configs/*}\n",
		"configs/note.txt": "not a document\n",
	})
	_, err := New().ResolveFile(filepath.Join(tmp, "main.yaml"))
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("got %v, want ErrNoMatch", err)
	}
}

func TestResolveGlobCycle(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml":      "xs: !glob {glob: ./parts/*}\n",
		"parts/bad.yaml": "m: !ref {path: ../main.yaml}\n",
	})
	_, err := New().ResolveFile(filepath.Join(tmp, "main.yaml"))
	if !errors.Is(err, ErrCircular) {
		t.Fatalf("got %v, want ErrCircular", err)
	}
}

func TestResolveFlatten(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml": "all: !flatten\n  - first\n  - !ref {path: ./more.yaml}\n  - [x, [y]]\n",
		"more.yaml": "- a\n- b\n",
	})
	got := resolveToAny(t, New(), filepath.Join(tmp, "main.yaml"))
	want := map[string]any{
		"all": []any{"first", "a", "b", "x", "y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestResolveMerge(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml": "config: !merge\n  - !glob {glob: ./conf.d/*}\n  - {override: true}\n",
		"conf.d/10-base.yaml": "host: localhost\nport: 80\n",
		"conf.d/20-prod.yaml": "port: 443\n",
	})
	got := resolveToAny(t, New(), filepath.Join(tmp, "main.yaml"))
	// The glob expands to an array; merge flattens it one level, then
	// combines last-write-wins in sort order, the literal object last.
	want := map[string]any{
		"config": map[string]any{
			"host":     "localhost",
			"port":     int64(443),
			"override": true,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestResolveMergeTypeError(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml":   "config: !merge\n  - {a: 1}\n  - !ref {path: ./scalar.yaml}\n",
		"scalar.yaml": "just a string\n",
	})
	_, err := New().ResolveFile(filepath.Join(tmp, "main.yaml"))
	if !errors.Is(err, seqop.ErrMergeType) {
		t.Fatalf("got %v, want seqop.ErrMergeType", err)
	}
}

// unstampedParser returns markers without source locations, violating
// the parser contract.
type unstampedParser struct{}

func (unstampedParser) ParseFile(path string) (*ir.Node, error) {
	ref, err := ir.NewRef("./x.yaml")
	if err != nil {
		return nil, err
	}
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.FromString("x"), Val: ir.FromMarker(ref)},
	}), nil
}

func TestResolveMissingLocation(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{"main.yaml": "ignored: true\n"})
	r := New(WithParser(unstampedParser{}))
	_, err := r.ResolveFile(filepath.Join(tmp, "main.yaml"))
	if !errors.Is(err, ir.ErrMissingLocation) {
		t.Fatalf("got %v, want ir.ErrMissingLocation", err)
	}
}

func TestResolveJSONCReference(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"main.yaml": "svc: !ref {path: ./svc.jsonc}\n",
		"svc.jsonc": "{\n  // comments are fine here\n  \"port\": 9090,\n}\n",
	})
	got := resolveToAny(t, New(), filepath.Join(tmp, "main.yaml"))
	want := map[string]any{"svc": map[string]any{"port": int64(9090)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestResolverIsReusable(t *testing.T) {
	tmp := t.TempDir()
	writeTree(t, tmp, map[string]string{
		"ok.yaml":    "x: !ref {path: ./leaf.yaml}\n",
		"leaf.yaml":  "v: 1\n",
		"cycle.yaml": "c: !ref {path: ./cycle.yaml}\n",
	})
	r := New()
	if _, err := r.ResolveFile(filepath.Join(tmp, "cycle.yaml")); !errors.Is(err, ErrCircular) {
		t.Fatalf("got %v, want ErrCircular", err)
	}
	// A failed invocation leaves no ancestor state behind.
	got := resolveToAny(t, r, filepath.Join(tmp, "ok.yaml"))
	want := map[string]any{"x": map[string]any{"v": int64(1)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
