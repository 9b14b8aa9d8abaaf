// Package seqop implements the two structural operators that compose
// with reference resolution: flatten (recursive sequence splicing) and
// merge (last-write-wins shallow object combination).
package seqop
