package js

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Module specifier and export name of the tag that compiles templates in
// strict mode
const (
	TemplateLiteralModuleSpecifier = "ember-template-imports"
	TemplateLiteralIdentifier      = "hbs"
)

// recognizedTags lists every import that marks a tagged template literal as
// an embedded template
var recognizedTags = [...]Binding{
	{ImportIdentifier: TemplateLiteralIdentifier, ModuleSpecifier: TemplateLiteralModuleSpecifier},
	{ImportIdentifier: "hbs", ModuleSpecifier: "ember-cli-htmlbars"},
	{ImportIdentifier: "hbs", ModuleSpecifier: "@ember/template-compilation"},
	{ImportIdentifier: "default", ModuleSpecifier: "ember-cli-htmlbars-inline-precompile"},
	{ImportIdentifier: "default", ModuleSpecifier: "htmlbars-inline-precompile"},
}

// RecognizedTags returns a copy of the recognised template tag imports
func RecognizedTags() []Binding {
	return append([]Binding(nil), recognizedTags[:]...)
}

// IsRecognized reports whether b names a template tag import
func IsRecognized(b Binding) bool {
	for _, r := range recognizedTags {
		if r == b {
			return true
		}
	}
	return false
}

// collectBindings maps each locally visible identifier introduced by a
// top-level value import to the export it refers to. Only recognised
// template tags are kept.
func collectBindings(root *sitter.Node, source []byte) map[string]Binding {
	bindings := map[string]Binding{}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		if stmt == nil || stmt.Kind() != "import_statement" || isTypeOnly(stmt) {
			continue
		}
		sourceNode := stmt.ChildByFieldName("source")
		if sourceNode == nil {
			continue
		}
		module := unquote(sourceNode.Utf8Text(source))

		for j := uint(0); j < stmt.NamedChildCount(); j++ {
			clause := stmt.NamedChild(j)
			if clause == nil || clause.Kind() != "import_clause" {
				continue
			}
			addClauseBindings(bindings, clause, module, source)
		}
	}
	return bindings
}

func addClauseBindings(bindings map[string]Binding, clause *sitter.Node, module string, source []byte) {
	add := func(local, imported string) {
		b := Binding{ImportIdentifier: imported, ModuleSpecifier: module}
		if IsRecognized(b) {
			bindings[local] = b
		}
	}

	for k := uint(0); k < clause.NamedChildCount(); k++ {
		child := clause.NamedChild(k)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			// import hbs from '...'
			add(child.Utf8Text(source), "default")

		case "named_imports":
			for m := uint(0); m < child.NamedChildCount(); m++ {
				spec := child.NamedChild(m)
				if spec == nil || spec.Kind() != "import_specifier" || isTypeOnly(spec) {
					continue
				}
				name := spec.ChildByFieldName("name")
				if name == nil {
					continue
				}
				imported := unquote(name.Utf8Text(source))
				local := imported
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = alias.Utf8Text(source)
				}
				add(local, imported)
			}
		}
		// namespace imports bind an object, never a tag function
	}
}

// isTypeOnly reports whether an import statement or specifier carries the
// TypeScript `type`/`typeof` modifier
func isTypeOnly(n *sitter.Node) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		switch child.Kind() {
		case "type", "typeof":
			return true
		}
	}
	return false
}

func unquote(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '\'', '"', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}
