package parse

type parseOpts struct {
	filename string
	jsonc    bool
}

type ParseOption func(*parseOpts)

// ParseFilename sets the file path used in error messages. An absolute
// path is also stamped as the source location of every reference
// marker in the result.
func ParseFilename(name string) ParseOption {
	return func(o *parseOpts) { o.filename = name }
}

// ParseJSONC strips // and /* */ comments and trailing commas before
// decoding.
func ParseJSONC() ParseOption {
	return func(o *parseOpts) { o.jsonc = true }
}
