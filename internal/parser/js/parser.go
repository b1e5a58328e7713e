package js

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ddzz/ember-template-lint/internal/log"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Parser finds tagged template literals in a script and resolves their tags
// through the script's imports
type Parser struct {
	parser        *sitter.Parser
	templateQuery *sitter.Query
	genericQuery  *sitter.Query // matches hbs<Type>`...` (generic form parsed as binary_expression)
	dialect       Dialect
}

// ErrSyntax is returned by ParseTemplatesStrict for sources with syntax errors
var ErrSyntax = errors.New("script has syntax errors")

var (
	jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())
	tsLang = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
)

const templateQuerySource = `
	(call_expression
		function: (identifier) @tag
		arguments: (template_string) @template)
`

// Generic form: hbs<Type>`...` is valid TypeScript but the grammars may read
// it as nested binary expressions instead of a call_expression with
// type_arguments.
// See: https://github.com/tree-sitter/tree-sitter-typescript/issues/341
const genericQuerySource = `
	(binary_expression
		left: (binary_expression
			left: (identifier) @tag)
		right: (template_string) @template)
`

func newPool(lang *sitter.Language, dialect Dialect) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			parser := sitter.NewParser()
			if err := parser.SetLanguage(lang); err != nil {
				panic(fmt.Sprintf("failed to set %s language: %v", dialect, err))
			}

			templateQuery, qerr := sitter.NewQuery(lang, templateQuerySource)
			if qerr != nil {
				panic(fmt.Sprintf("failed to compile %s template query: %v", dialect, qerr))
			}

			genericQuery, qerr := sitter.NewQuery(lang, genericQuerySource)
			if qerr != nil {
				panic(fmt.Sprintf("failed to compile %s generic query: %v", dialect, qerr))
			}

			return &Parser{
				parser:        parser,
				templateQuery: templateQuery,
				genericQuery:  genericQuery,
				dialect:       dialect,
			}
		},
	}
}

// parserPools holds reusable parsers, one pool per dialect
var parserPools = map[Dialect]*sync.Pool{
	TypeScript: newPool(tsLang, TypeScript),
	JavaScript: newPool(jsLang, JavaScript),
}

// AcquireParser gets a parser for the dialect from its pool
func AcquireParser(dialect Dialect) *Parser {
	pool, ok := parserPools[dialect]
	if !ok {
		pool = parserPools[TypeScript]
	}
	p := pool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to its pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPools[p.dialect].Put(p)
	}
}

// Dialect returns the grammar this parser reads
func (p *Parser) Dialect() Dialect {
	return p.dialect
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.templateQuery != nil {
		p.templateQuery.Close()
	}
	if p.genericQuery != nil {
		p.genericQuery.Close()
	}
}

// ClosePool closes all pooled parsers
func ClosePool() {
	for _, pool := range parserPools {
		for range 100 {
			if p, ok := pool.Get().(*Parser); ok && p != nil {
				p.Close()
			}
		}
	}
}

// ParseTemplates finds tagged template literals whose tag is bound to a
// recognised template import. Results are in source order. A literal nested
// in the substitution of another reported literal is dropped.
func (p *Parser) ParseTemplates(source string) []TaggedTemplate {
	templates, _ := p.parse(source)
	return templates
}

// ParseTemplatesStrict is ParseTemplates for sources that must be well
// formed: it fails with ErrSyntax when the grammar had to recover from an
// error anywhere in the tree.
func (p *Parser) ParseTemplatesStrict(source string) ([]TaggedTemplate, error) {
	templates, ok := p.parse(source)
	if !ok {
		return nil, ErrSyntax
	}
	return templates, nil
}

// parse reports the templates found and whether the tree is error free
func (p *Parser) parse(source string) ([]TaggedTemplate, bool) {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()

	root := tree.RootNode()
	clean := !root.HasError()
	bindings := collectBindings(root, sourceBytes)
	if len(bindings) == 0 {
		return nil, clean
	}

	seen := map[uint]bool{}
	var templates []TaggedTemplate
	for _, query := range []*sitter.Query{p.templateQuery, p.genericQuery} {
		templates = p.runTemplateQuery(query, root, sourceBytes, bindings, seen, templates)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Start < templates[j].Start
	})
	return dropNested(templates), clean
}

// runTemplateQuery executes a single tree-sitter query against the parsed
// tree and appends every match whose tag resolves through bindings
func (p *Parser) runTemplateQuery(
	query *sitter.Query,
	root *sitter.Node,
	sourceBytes []byte,
	bindings map[string]Binding,
	seen map[uint]bool,
	templates []TaggedTemplate,
) []TaggedTemplate {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(query, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var tagNode, templateNode sitter.Node
		foundTag, foundTemplate := false, false

		for _, capture := range match.Captures {
			switch query.CaptureNames()[capture.Index] {
			case "tag":
				tagNode = capture.Node
				foundTag = true
			case "template":
				templateNode = capture.Node
				foundTemplate = true
			}
		}
		if !foundTag || !foundTemplate {
			continue
		}

		tagName := tagNode.Utf8Text(sourceBytes)
		binding, ok := bindings[tagName]
		if !ok {
			log.Debug("Skipping %s`...` at byte %d: tag is not bound to a template import", tagName, tagNode.StartByte())
			continue
		}

		templateStart := templateNode.StartByte()
		if seen[templateStart] {
			continue
		}
		seen[templateStart] = true

		start := int(tagNode.StartByte())          //nolint:gosec // G115: byte offsets are bounded by source length
		contentStart := int(templateStart) + 1     //nolint:gosec // G115: byte offsets are bounded by source length
		end := int(templateNode.EndByte())         //nolint:gosec // G115: byte offsets are bounded by source length
		contentEnd := end - 1
		if contentEnd < contentStart {
			// unterminated literal recovered by the grammar
			continue
		}

		templates = append(templates, TaggedTemplate{
			Tag:          tagName,
			Binding:      binding,
			Content:      string(sourceBytes[contentStart:contentEnd]),
			Opening:      string(sourceBytes[start:contentStart]),
			Start:        start,
			ContentStart: contentStart,
			ContentEnd:   contentEnd,
			End:          end,
		})
	}

	return templates
}

// dropNested removes templates contained in an earlier template. Input must
// be sorted by Start.
func dropNested(templates []TaggedTemplate) []TaggedTemplate {
	out := templates[:0]
	outerEnd := -1
	for _, t := range templates {
		if t.Start < outerEnd {
			continue
		}
		out = append(out, t)
		outerEnd = t.End
	}
	return out
}
