package parser

// Kind identifies how an embedded template was introduced
type Kind string

const (
	// KindTag is a <template>...</template> block
	KindTag Kind = "tag"
	// KindLiteral is a tagged template literal such as hbs`...`
	KindLiteral Kind = "literal"
)

// Delimiter is the text of an opening or closing delimiter as matched,
// plus the sub-group captured from it. Capture is empty when nothing was
// captured.
type Delimiter struct {
	Text    string `json:"text" yaml:"text"`
	Capture string `json:"capture,omitempty" yaml:"capture,omitempty"`
}

// RawMatch is one template found in a script, before positions are turned
// into coordinates. Offsets are byte offsets into the parsed source.
type RawMatch struct {
	Kind Kind
	// TagIdentifier is "template" for tags and the call-site identifier for
	// literals, which may be a local alias
	TagIdentifier string
	// ImportIdentifier is the exported name the literal tag resolved to
	ImportIdentifier string
	// ImportModuleSpecifier is the module the literal tag was imported from
	ImportModuleSpecifier string
	Content               string
	ContentStart          int
	ContentEnd            int
	// MatchStart and MatchEnd span the delimiters as well as the content
	MatchStart     int
	MatchEnd       int
	DelimiterStart Delimiter
	DelimiterEnd   Delimiter
}
