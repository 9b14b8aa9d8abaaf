// Package guard implements the allowed-roots sandbox for reference
// targets: a target may only resolve inside one of a configured set of
// directories, compared after symlink canonicalization.
package guard

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/weavedoc/weave/debug"
)

// Roots is an ordered, de-duplicated set of canonicalized absolute
// directories within which reference targets may resolve.
type Roots struct {
	dirs []string
}

// NewRoots canonicalizes each directory (absolute, symlinks resolved)
// and returns the de-duplicated set in the given order. Every root must
// exist: a root that cannot be canonicalized is a configuration error.
func NewRoots(dirs ...string) (*Roots, error) {
	r := &Roots{}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("allowed root %q: %w", dir, err)
		}
		real, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, fmt.Errorf("allowed root %q: %w", dir, err)
		}
		if slices.Contains(r.dirs, real) {
			continue
		}
		r.dirs = append(r.dirs, real)
	}
	return r, nil
}

// Dirs returns the canonicalized roots in configuration order.
func (r *Roots) Dirs() []string {
	return slices.Clone(r.dirs)
}

// Allows reports whether the canonicalized form of path lies at or
// under one of the roots. The prefix test is path-segment aligned:
// /tmp/allowed-but-not-really is not under the root /tmp/allowed.
func (r *Roots) Allows(path string) bool {
	real, err := canonicalize(path)
	if err != nil {
		if debug.Guard() {
			debug.Logf("guard: cannot canonicalize %q: %v\n", path, err)
		}
		return false
	}
	for _, dir := range r.dirs {
		if real == dir || strings.HasPrefix(real, withSep(dir)) {
			return true
		}
	}
	if debug.Guard() {
		debug.Logf("guard: %q (real %q) outside roots %v\n", path, real, r.dirs)
	}
	return false
}

// Check is Allows with a structured error naming the target and the
// roots.
func (r *Roots) Check(path string) error {
	if r.Allows(path) {
		return nil
	}
	return &NotAllowedError{Path: path, Roots: r.Dirs()}
}

// canonicalize resolves symlinks in path. A target that does not exist
// yet still gets its parent directory resolved, so a symlinked
// directory cannot smuggle a not-yet-checked name past the roots.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	dir, base := filepath.Split(abs)
	realDir, err := filepath.EvalSymlinks(filepath.Clean(dir))
	if err != nil {
		return "", err
	}
	return filepath.Join(realDir, base), nil
}

func withSep(dir string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}
