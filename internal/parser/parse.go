// Package parser locates embedded templates in JavaScript and TypeScript
// sources. It knows nothing about strict mode or line numbers; see the
// extract package for that.
package parser

import (
	"errors"
	"sort"

	"github.com/ddzz/ember-template-lint/internal/parser/js"
	"github.com/ddzz/ember-template-lint/internal/parser/tag"
)

// Parse returns every <template> block and every tagged template literal
// bound to a recognised import, in source order. It fails with a
// *ParseError when the source cannot be tokenized as a script.
//
// Template blocks are found by a lexical scan and then masked out, so the
// tree-sitter grammar only ever sees plain JavaScript or TypeScript when it
// resolves literal tags.
func Parse(source string, dialect js.Dialect) ([]RawMatch, error) {
	regions, err := tag.Scan(source)
	if err != nil {
		return nil, toParseError(err)
	}

	p := js.AcquireParser(dialect)
	defer js.ReleaseParser(p)
	return merge(source, regions, p.ParseTemplates(tag.Mask(source, regions))), nil
}

// ParseLenient is Parse for sources known to be scripts, such as files with
// a script extension. Quotes and slashes the scanner cannot pair up, as in
// JSX text, are skipped; the masked result must then parse without errors
// in the dialect's grammar, otherwise it fails with a *ParseError.
func ParseLenient(source string, dialect js.Dialect) ([]RawMatch, error) {
	regions, err := tag.ScanLenient(source)
	if err != nil {
		return nil, toParseError(err)
	}

	p := js.AcquireParser(dialect)
	defer js.ReleaseParser(p)
	literals, err := p.ParseTemplatesStrict(tag.Mask(source, regions))
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	return merge(source, regions, literals), nil
}

func toParseError(err error) error {
	var syntaxErr *tag.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Offset: syntaxErr.Offset, Reason: syntaxErr.Reason}
	}
	return &ParseError{Reason: err.Error()}
}

// merge combines template blocks and literals in source order. Literals were
// found in masked text, so their text is re-read from source at the same
// offsets. A block inside a literal's substitution is dropped: the outermost
// match wins.
func merge(source string, regions []tag.Region, literals []js.TaggedTemplate) []RawMatch {
	matches := make([]RawMatch, 0, len(regions)+len(literals))
	for _, r := range regions {
		matches = append(matches, fromRegion(r))
	}
	for _, l := range literals {
		matches = append(matches, fromTaggedTemplate(source, l))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchStart < matches[j].MatchStart
	})

	out := matches[:0]
	outerEnd := -1
	for _, m := range matches {
		if m.MatchStart < outerEnd {
			continue
		}
		out = append(out, m)
		outerEnd = m.MatchEnd
	}
	return out
}

func fromRegion(r tag.Region) RawMatch {
	return RawMatch{
		Kind:           KindTag,
		TagIdentifier:  tag.Name,
		Content:        r.Content,
		ContentStart:   r.ContentStart,
		ContentEnd:     r.ContentEnd,
		MatchStart:     r.Start,
		MatchEnd:       r.End,
		DelimiterStart: Delimiter{Text: r.Open},
		DelimiterEnd:   Delimiter{Text: tag.Close},
	}
}

func fromTaggedTemplate(source string, t js.TaggedTemplate) RawMatch {
	return RawMatch{
		Kind:                  KindLiteral,
		TagIdentifier:         t.Tag,
		ImportIdentifier:      t.Binding.ImportIdentifier,
		ImportModuleSpecifier: t.Binding.ModuleSpecifier,
		Content:               source[t.ContentStart:t.ContentEnd],
		ContentStart:          t.ContentStart,
		ContentEnd:            t.ContentEnd,
		MatchStart:            t.Start,
		MatchEnd:              t.End,
		DelimiterStart:        Delimiter{Text: source[t.Start:t.ContentStart], Capture: t.Tag},
		DelimiterEnd:          Delimiter{Text: "`"},
	}
}
