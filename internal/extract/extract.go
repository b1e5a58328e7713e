// Package extract finds the templates a linter has to check in a file.
//
// Template-only files (by extension) are returned whole. Scripts are parsed
// for <template> blocks and recognised tagged template literals, each
// reported with its position and whether it compiles in strict mode.
// Extraction is pure: no I/O, no state shared between calls.
package extract

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ddzz/ember-template-lint/internal/log"
	"github.com/ddzz/ember-template-lint/internal/parser"
	"github.com/ddzz/ember-template-lint/internal/parser/js"
	"github.com/ddzz/ember-template-lint/internal/position"
)

// ErrMalformedInput indicates input that cannot be treated as source text
var ErrMalformedInput = errors.New("malformed input")

// ExtractTemplates returns the templates in source, in source order.
// relativePath is only used for its extension and may be empty, as when
// reading from stdin.
func ExtractTemplates(source, relativePath string) ([]Occurrence, error) {
	result, err := Extract(source, relativePath)
	if err != nil {
		return nil, err
	}
	return result.Templates(), nil
}

// Extract decides whether source is a template or a script and returns the
// matching Result.
//
//   - a path whose extension is not a script extension: WholeFile
//   - a script that cannot be parsed: WholeFile. With a script path the
//     source is first rescanned leniently and accepted if the grammar
//     reads it without errors.
//   - no path and no embedded templates found: WholeFile
//   - otherwise: Embedded, possibly empty
func Extract(source, relativePath string) (Result, error) {
	if !utf8.ValidString(source) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrMalformedInput, describe(relativePath))
	}

	if relativePath != "" && !IsSupportedScriptFileExtension(relativePath) {
		return WholeFile{Source: source}, nil
	}

	dialect := js.DialectForPath(relativePath)
	matches, err := parser.Parse(source, dialect)
	if err != nil && relativePath != "" {
		// the extension says script: retry before giving up on it
		log.Debug("Rescanning %s leniently: %v", relativePath, err)
		matches, err = parser.ParseLenient(source, dialect)
	}
	if err != nil {
		log.Debug("Treating %s as a template: %v", describe(relativePath), err)
		return WholeFile{Source: source}, nil
	}

	if len(matches) == 0 && relativePath == "" {
		return WholeFile{Source: source}, nil
	}

	occurrences := make([]Occurrence, 0, len(matches))
	for _, m := range matches {
		occurrences = append(occurrences, fromRawMatch(source, m))
	}
	log.Debug("Found %d embedded templates in %s", len(occurrences), describe(relativePath))
	return Embedded{Occurrences: occurrences}, nil
}

// CoordinatesOf returns the zero-based line and byte column of offset in text
func CoordinatesOf(text string, offset int) position.Coordinates {
	return position.CoordinatesOf(text, offset)
}

func fromRawMatch(source string, m parser.RawMatch) Occurrence {
	origin := &Origin{
		Kind:                  m.Kind,
		TagIdentifier:         m.TagIdentifier,
		ImportIdentifier:      m.ImportIdentifier,
		ImportModuleSpecifier: m.ImportModuleSpecifier,
		Content:               m.Content,
		DelimiterStart:        m.DelimiterStart,
		DelimiterEnd:          m.DelimiterEnd,
		MatchStart:            m.MatchStart,
		MatchEnd:              m.MatchEnd,
	}
	coords := position.CoordinatesOf(source, m.ContentStart)
	return Occurrence{
		Content:      m.Content,
		Start:        m.ContentStart,
		End:          m.ContentEnd,
		Line:         coords.Line,
		Column:       coords.Column,
		ColumnUTF16:  position.UTF16Column(source, m.ContentStart),
		IsEmbedded:   true,
		IsStrictMode: IsStrictMode(origin.TemplateInfo()),
		Origin:       origin,
	}
}

func describe(relativePath string) string {
	if relativePath == "" {
		return "<stdin>"
	}
	return relativePath
}
