package extract

import "github.com/ddzz/ember-template-lint/internal/parser"

// Kind identifies how an embedded template was introduced
type Kind = parser.Kind

// Delimiter is an opening or closing delimiter as matched in source
type Delimiter = parser.Delimiter

// Origin kinds
const (
	KindTag     = parser.KindTag
	KindLiteral = parser.KindLiteral
)

// Occurrence is one template found in the input, ready for the rule engine
type Occurrence struct {
	// Content is the template text exactly as written
	Content string `json:"content" yaml:"content"`
	// Start and End delimit Content in the input, for both kinds of embedded
	// template, so Start is past any delimiter. Origin.MatchStart and
	// Origin.MatchEnd span the delimiters too. Both are zero for whole-file
	// templates.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
	// Line and Column locate Start, zero-based, Column in bytes
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	// ColumnUTF16 is Column counted in UTF-16 code units
	ColumnUTF16 int `json:"columnUTF16" yaml:"columnUTF16"`
	// IsEmbedded is set when the template was found inside a script. It is
	// unset (and omitted from output) when the whole input is the template.
	IsEmbedded   bool    `json:"isEmbedded,omitempty" yaml:"isEmbedded,omitempty"`
	IsStrictMode bool    `json:"isStrictMode" yaml:"isStrictMode"`
	Origin       *Origin `json:"originInfo,omitempty" yaml:"originInfo,omitempty"`
}

// Origin records how an embedded template was introduced
type Origin struct {
	Kind Kind `json:"kind" yaml:"kind"`
	// TagIdentifier is "template" for tags; for literals it is the
	// identifier written at the call site, which may be an alias
	TagIdentifier string `json:"tagIdentifier" yaml:"tagIdentifier"`
	// ImportIdentifier is the exported name a literal tag resolved to
	ImportIdentifier string `json:"importIdentifier,omitempty" yaml:"importIdentifier,omitempty"`
	// ImportModuleSpecifier is the module a literal tag was imported from
	ImportModuleSpecifier string    `json:"importModuleSpecifier,omitempty" yaml:"importModuleSpecifier,omitempty"`
	Content               string    `json:"content" yaml:"content"`
	DelimiterStart        Delimiter `json:"delimiterStart" yaml:"delimiterStart"`
	DelimiterEnd          Delimiter `json:"delimiterEnd" yaml:"delimiterEnd"`
	// MatchStart and MatchEnd span the delimiters as well as the content
	MatchStart int `json:"matchStart" yaml:"matchStart"`
	MatchEnd   int `json:"matchEnd" yaml:"matchEnd"`
}

// TemplateInfo returns the fields strict mode classification depends on
func (o *Origin) TemplateInfo() TemplateInfo {
	return TemplateInfo{
		Kind:                  o.Kind,
		ImportIdentifier:      o.ImportIdentifier,
		ImportModuleSpecifier: o.ImportModuleSpecifier,
	}
}

// Result is the outcome of an extraction: either the whole input is a
// template (WholeFile) or it is a script holding embedded templates
// (Embedded).
type Result interface {
	// Templates flattens the result into occurrences in source order
	Templates() []Occurrence
	sealed()
}

// WholeFile is a result where the entire input is one template
type WholeFile struct {
	Source string
}

// Templates returns the single strict, non-embedded occurrence spanning the
// input
func (w WholeFile) Templates() []Occurrence {
	return []Occurrence{{
		Content:      w.Source,
		IsStrictMode: true,
	}}
}

func (WholeFile) sealed() {}

// Embedded is a result where the input is a script. Occurrences may be
// empty when the script holds no templates.
type Embedded struct {
	Occurrences []Occurrence
}

// Templates returns the embedded occurrences
func (e Embedded) Templates() []Occurrence {
	if e.Occurrences == nil {
		return []Occurrence{}
	}
	return e.Occurrences
}

func (Embedded) sealed() {}
