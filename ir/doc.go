// Package ir defines the document tree that weave resolves: generic
// scalar, array, and object nodes plus the four reference markers
// (!ref, !glob, !flatten, !merge) that resolution replaces with content.
package ir
