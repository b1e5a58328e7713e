package extract

import "github.com/ddzz/ember-template-lint/internal/parser/js"

// TemplateInfo is the part of an Origin that decides strict mode
type TemplateInfo struct {
	Kind                  Kind
	ImportIdentifier      string
	ImportModuleSpecifier string
}

// IsStrictMode reports whether a template is compiled with strict
// semantics. <template> tags always are. A tagged literal is strict only
// when its tag resolves to hbs from ember-template-imports; ImportIdentifier
// must already be alias-resolved, otherwise `import { hbs as x }` would look
// like an unknown tag.
func IsStrictMode(info TemplateInfo) bool {
	if info.Kind == KindTag {
		return true
	}
	return info.ImportIdentifier == js.TemplateLiteralIdentifier &&
		info.ImportModuleSpecifier == js.TemplateLiteralModuleSpecifier
}
