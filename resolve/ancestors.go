package resolve

import "slices"

// ancestors mirrors the call stack of in-progress file resolutions: a
// path is present exactly while its file's resolution is an ancestor
// of the current point of execution. It is not a cache.
type ancestors struct {
	paths []string
	seen  map[string]struct{}
}

func newAncestors() *ancestors {
	return &ancestors{seen: map[string]struct{}{}}
}

// enter pushes path, failing with a CircularError carrying the chain
// in visitation order if path is already on the stack. Every
// successful enter must be paired with exit, deferred so unwinding
// survives error returns.
func (a *ancestors) enter(path string) error {
	if _, ok := a.seen[path]; ok {
		return &CircularError{
			Target: path,
			Chain:  slices.Clone(a.paths),
		}
	}
	a.seen[path] = struct{}{}
	a.paths = append(a.paths, path)
	return nil
}

func (a *ancestors) exit() {
	last := a.paths[len(a.paths)-1]
	delete(a.seen, last)
	a.paths = a.paths[:len(a.paths)-1]
}
