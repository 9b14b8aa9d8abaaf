package resolve

import (
	"os"
	"path/filepath"

	"github.com/weavedoc/weave/ir"
	"github.com/weavedoc/weave/parse"
)

// Parser produces the ir tree of a document file, with reference
// markers stamped with the file's absolute path.
type Parser interface {
	ParseFile(path string) (*ir.Node, error)
}

// FileSystem is the file access the engine needs: bounded, complete
// reads, no held streams.
type FileSystem interface {
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
}

// Globber enumerates the absolute paths matching an absolute glob
// pattern. Order is irrelevant: the engine sorts.
type Globber interface {
	Match(pattern string) ([]string, error)
}

type osFS struct{}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

type osGlob struct{}

func (osGlob) Match(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	res := matches[:0]
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil || fi.IsDir() {
			continue
		}
		res = append(res, m)
	}
	return res, nil
}

// fsParser is the default Parser: it reads through the configured
// FileSystem and decodes with the parse package, so an injected fake
// file system is honored without also injecting a parser.
type fsParser struct {
	fs FileSystem
}

func (p *fsParser) ParseFile(path string) (*ir.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := p.fs.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	opts := []parse.ParseOption{parse.ParseFilename(abs)}
	if filepath.Ext(abs) == ".jsonc" {
		opts = append(opts, parse.ParseJSONC())
	}
	return parse.Parse(data, opts...)
}
