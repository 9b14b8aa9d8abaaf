// Package resolve implements the reference resolution engine: a
// depth-first walk over an ir tree that replaces every marker with the
// content it designates, detecting reference cycles with an ancestor
// stack and confining file targets to a set of allowed root
// directories.
package resolve
