// Package debug gates diagnostic logging on WEAVE_DEBUG_* environment
// variables.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Resolve bool
	Guard   bool
	Glob    bool
	Seqop   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Resolve = boolEnv("WEAVE_DEBUG_RESOLVE")
	d.Guard = boolEnv("WEAVE_DEBUG_GUARD")
	d.Glob = boolEnv("WEAVE_DEBUG_GLOB")
	d.Seqop = boolEnv("WEAVE_DEBUG_SEQOP")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Resolve() bool {
	return d.Resolve
}
func Guard() bool {
	return d.Guard
}
func Glob() bool {
	return d.Glob
}
func Seqop() bool {
	return d.Seqop
}
