package js

import "strings"

// Dialect selects the tree-sitter grammar used to read a script
type Dialect int

const (
	// TypeScript is the zero value: its grammar accepts annotated and plain
	// scripts alike, so it is also used when the file type is unknown
	TypeScript Dialect = iota
	// JavaScript parses .js/.gjs sources with the JavaScript grammar
	JavaScript
)

func (d Dialect) String() string {
	if d == JavaScript {
		return "javascript"
	}
	return "typescript"
}

// DialectForPath picks the grammar for a file by its extension
func DialectForPath(path string) Dialect {
	switch {
	case strings.HasSuffix(path, ".js"),
		strings.HasSuffix(path, ".gjs"),
		strings.HasSuffix(path, ".mjs"),
		strings.HasSuffix(path, ".cjs"):
		return JavaScript
	default:
		return TypeScript
	}
}

// Binding is what a local identifier refers to after import resolution
type Binding struct {
	// ImportIdentifier is the exported name, e.g. "hbs" or "default"
	ImportIdentifier string
	// ModuleSpecifier is the module the name was imported from
	ModuleSpecifier string
}

// TaggedTemplate is a tagged template literal whose tag resolved to a
// recognised import
type TaggedTemplate struct {
	// Tag is the identifier as written at the call site
	Tag string
	// Binding is the import the tag resolved to
	Binding Binding
	// Content is the literal text between the backticks, verbatim
	Content string
	// Opening is the source from the start of the tag through the opening backtick
	Opening string
	// Start is the byte offset of the tag identifier
	Start int
	// ContentStart is the byte offset just past the opening backtick
	ContentStart int
	// ContentEnd is the byte offset of the closing backtick
	ContentEnd int
	// End is the byte offset just past the closing backtick
	End int
}
