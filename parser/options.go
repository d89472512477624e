package parser

// Options controls parser behaviors.
type Options struct {
	// Trace dumps the combinator trace of every rule attempt to stdout.
	Trace bool
}

// DefaultOptions provides the default parser options.
var DefaultOptions = Options{}
