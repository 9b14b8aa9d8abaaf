package resolve

type Option func(*Resolver)

// WithRoots adds allowed root directories beyond the implicit default,
// the entry file's parent directory.
func WithRoots(dirs ...string) Option {
	return func(r *Resolver) { r.extraRoots = append(r.extraRoots, dirs...) }
}

// WithExtensions replaces the set of file extensions a glob match must
// carry to be considered a document. The default is .yaml, .yml,
// .json, .jsonc.
func WithExtensions(exts ...string) Option {
	return func(r *Resolver) { r.exts = exts }
}

func WithParser(p Parser) Option {
	return func(r *Resolver) { r.parser = p }
}

func WithFS(fs FileSystem) Option {
	return func(r *Resolver) { r.fs = fs }
}

func WithGlobber(g Globber) Option {
	return func(r *Resolver) { r.glob = g }
}
