// Package tag finds inline <template> blocks in JavaScript and TypeScript
// source. It is a lexical scanner, not a parser: it understands just enough
// of the language (strings, comments, regular expressions, template literals
// and braces) to tell code from text, and skips everything else.
package tag

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Placeholder is written over the start of each masked region. It is a valid
// expression and a valid class member, so the masked source stays parseable.
const Placeholder = "[0]"

// keywords after which a '/' starts a regular expression rather than a division
var regexKeywords = map[string]bool{
	"await":      true,
	"case":       true,
	"delete":     true,
	"do":         true,
	"else":       true,
	"in":         true,
	"instanceof": true,
	"new":        true,
	"of":         true,
	"return":     true,
	"throw":      true,
	"typeof":     true,
	"void":       true,
	"yield":      true,
}

// keywords whose parenthesised condition may be followed by a regular expression,
// as in `if (a) /x/.test(b)`
var conditionKeywords = map[string]bool{
	"if":    true,
	"for":   true,
	"while": true,
	"with":  true,
}

type scanner struct {
	src     string
	pos     int
	regexOK bool
	regions []Region
	// lenient skips the opening quote or slash of an unterminated string or
	// regular expression instead of failing
	lenient bool
	// condEnd is the offset just past the last condition keyword
	condEnd int
	// parens records, per open '(', whether it holds a statement condition
	parens []bool
}

// Scan returns every template region in source order. It fails with a
// *SyntaxError when the source contains an unterminated string, comment,
// regular expression, template literal or template tag, or an unbalanced
// closing brace.
func Scan(source string) ([]Region, error) {
	return scan(source, false)
}

// ScanLenient is Scan for sources known to be scripts. A quote or slash
// that does not start a well-formed string or regular expression, such as
// the apostrophe in JSX text, is skipped as punctuation. Unterminated
// comments, template literals and template tags still fail.
func ScanLenient(source string) ([]Region, error) {
	return scan(source, true)
}

func scan(source string, lenient bool) ([]Region, error) {
	s := &scanner{src: source, regexOK: true, lenient: lenient, condEnd: -1}
	if strings.HasPrefix(source, "#!") {
		s.skipLine()
	}
	if err := s.scanCode(false); err != nil {
		return nil, err
	}
	return s.regions, nil
}

// Mask returns source with every region blanked out. Byte length and
// newline positions are preserved so offsets into the masked text are
// offsets into source.
func Mask(source string, regions []Region) string {
	if len(regions) == 0 {
		return source
	}
	b := []byte(source)
	for _, r := range regions {
		for i := r.Start; i < r.End; i++ {
			if b[i] != '\n' && b[i] != '\r' {
				b[i] = ' '
			}
		}
		copy(b[r.Start:], Placeholder)
	}
	return string(b)
}

func (s *scanner) fail(offset int, reason string) error {
	return &SyntaxError{Offset: offset, Reason: reason}
}

// scanCode consumes code until EOF, or until the '}' closing a template
// substitution when nested is set.
func (s *scanner) scanCode(nested bool) error {
	start := s.pos
	depth := 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f':
			s.pos++

		case c == '/' && s.peek(1) == '/':
			s.skipLine()

		case c == '/' && s.peek(1) == '*':
			end := strings.Index(s.src[s.pos+2:], "*/")
			if end < 0 {
				return s.fail(s.pos, "unterminated comment")
			}
			s.pos += end + 4

		case c == '/':
			if s.regexOK {
				if err := s.scanRegex(); err != nil {
					return err
				}
				s.regexOK = false
			} else {
				s.pos++
				s.regexOK = true
			}

		case c == '\'' || c == '"':
			if err := s.scanString(c); err != nil {
				return err
			}
			s.regexOK = false

		case c == '`':
			if err := s.scanTemplateLiteral(); err != nil {
				return err
			}
			s.regexOK = false

		case c == '<' && s.atTemplateOpen():
			if err := s.scanTemplateTag(); err != nil {
				return err
			}
			s.regexOK = false

		case c == '{':
			depth++
			s.pos++
			s.regexOK = true

		case c == '}':
			if depth == 0 {
				if nested {
					s.pos++
					return nil
				}
				return s.fail(s.pos, "unexpected '}'")
			}
			depth--
			s.pos++
			s.regexOK = true

		case c == '(':
			s.parens = append(s.parens, s.followsCondition())
			s.pos++
			s.regexOK = true

		case c == ')':
			s.pos++
			s.regexOK = false
			if n := len(s.parens); n > 0 {
				s.regexOK = s.parens[n-1]
				s.parens = s.parens[:n-1]
			}

		case c == ']':
			s.pos++
			s.regexOK = false

		case (c == '+' || c == '-') && s.peek(1) == c:
			// regexOK is unchanged: false after an operand (i++ / 2), and a
			// prefix operator (x = ++i) is itself followed by an operand
			s.pos += 2

		case c >= '0' && c <= '9', c == '.' && isDigit(s.peek(1)):
			s.scanNumber()
			s.regexOK = false

		case c < utf8.RuneSelf && isIdentStart(rune(c)):
			s.scanWord()

		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(s.src[s.pos:])
			switch {
			case isIdentStart(r):
				s.scanWord()
			case unicode.IsSpace(r) || r == '\uFEFF':
				s.pos += size
			default:
				s.pos += size
				s.regexOK = true
			}

		default:
			s.pos++
			s.regexOK = true
		}
	}
	if nested {
		return s.fail(start, "unterminated template substitution")
	}
	return nil
}

func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) skipLine() {
	if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
		s.pos += i
		return
	}
	s.pos = len(s.src)
}

func (s *scanner) scanString(quote byte) error {
	start := s.pos
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case quote:
			s.pos++
			return nil
		case '\n':
			return s.skipOrFail(start, "unterminated string")
		default:
			s.pos++
		}
	}
	return s.skipOrFail(start, "unterminated string")
}

func (s *scanner) scanRegex() error {
	start := s.pos
	s.pos++
	inClass := false
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case c == '\\':
			s.pos += 2
			continue
		case c == '\n':
			return s.skipOrFail(start, "unterminated regular expression")
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			s.pos++
			for s.pos < len(s.src) && isIdentPart(rune(s.src[s.pos])) {
				s.pos++
			}
			return nil
		}
		s.pos++
	}
	return s.skipOrFail(start, "unterminated regular expression")
}

func (s *scanner) scanTemplateLiteral() error {
	start := s.pos
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case '`':
			s.pos++
			return nil
		case '$':
			if s.peek(1) != '{' {
				s.pos++
				continue
			}
			s.pos += 2
			s.regexOK = true
			if err := s.scanCode(true); err != nil {
				return err
			}
		default:
			s.pos++
		}
	}
	return s.fail(start, "unterminated template literal")
}

// atTemplateOpen reports whether an opening template tag starts at pos
func (s *scanner) atTemplateOpen() bool {
	return isTemplateOpen(s.src, s.pos)
}

func isTemplateOpen(src string, at int) bool {
	if !strings.HasPrefix(src[at:], OpenPrefix) {
		return false
	}
	next := at + len(OpenPrefix)
	if next >= len(src) {
		return false
	}
	switch src[next] {
	case '>', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func (s *scanner) scanTemplateTag() error {
	start := s.pos
	gt := strings.IndexByte(s.src[start:], '>')
	if gt < 0 {
		return s.fail(start, "unterminated <template> tag")
	}
	contentStart := start + gt + 1

	depth := 0
	at := contentStart
	for {
		rel := strings.IndexByte(s.src[at:], '<')
		if rel < 0 {
			return s.fail(start, "unclosed <template>")
		}
		at += rel
		switch {
		case strings.HasPrefix(s.src[at:], Close):
			if depth == 0 {
				end := at + len(Close)
				s.regions = append(s.regions, Region{
					Open:         s.src[start:contentStart],
					Content:      s.src[contentStart:at],
					Start:        start,
					ContentStart: contentStart,
					ContentEnd:   at,
					End:          end,
				})
				s.pos = end
				return nil
			}
			depth--
			at += len(Close)
		case isTemplateOpen(s.src, at):
			depth++
			at += len(OpenPrefix)
		default:
			at++
		}
	}
}

func (s *scanner) scanNumber() {
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c != '.' && c != '_' && !isDigit(c) && !isASCIILetter(c) {
			return
		}
		s.pos++
	}
}

// scanWord consumes an identifier or keyword and updates regexOK for it
func (s *scanner) scanWord() {
	start := s.pos
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isIdentPart(r) {
			break
		}
		s.pos += size
	}
	word := s.src[start:s.pos]
	s.regexOK = regexKeywords[word]
	if conditionKeywords[word] {
		s.condEnd = s.pos
	}
}

// followsCondition reports whether only whitespace separates pos from the
// last condition keyword
func (s *scanner) followsCondition() bool {
	return s.condEnd >= 0 && strings.TrimSpace(s.src[s.condEnd:s.pos]) == ""
}

// skipOrFail skips the byte at start when lenient, or fails with reason
func (s *scanner) skipOrFail(start int, reason string) error {
	if !s.lenient {
		return s.fail(start, reason)
	}
	s.pos = start + 1
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || r == '#' || r == '\\' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '\u200C' || r == '\u200D'
}
