// Package encode renders ir trees as YAML or JSON text. Object keys
// are emitted in byte-wise ascending order so output is deterministic.
// Markers render as their surface syntax in YAML; JSON output requires
// a fully resolved tree.
package encode
