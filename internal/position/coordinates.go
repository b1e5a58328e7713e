// Package position converts between byte offsets and line/column
// coordinates. Lines and columns are zero-based, lines are split on '\n'
// and columns count bytes unless stated otherwise.
package position

import "strings"

// Coordinates is a zero-based line and byte column
type Coordinates struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// clampOffset bounds offset to [0, len(text)]
func clampOffset(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(text) {
		return len(text)
	}
	return offset
}

// CoordinatesOf returns the line and column of offset in text. The line is
// the number of newlines before offset; the column is the distance from the
// start of that line.
func CoordinatesOf(text string, offset int) Coordinates {
	offset = clampOffset(text, offset)
	before := text[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return Coordinates{
		Line:   strings.Count(before, "\n"),
		Column: offset - lineStart,
	}
}

// OffsetOf is the inverse of CoordinatesOf. Lines past the end of text
// resolve to len(text); columns are clamped to the end of their line.
func OffsetOf(text string, c Coordinates) int {
	if c.Line < 0 {
		return 0
	}
	lineStart := 0
	for range c.Line {
		i := strings.IndexByte(text[lineStart:], '\n')
		if i < 0 {
			return len(text)
		}
		lineStart += i + 1
	}
	lineEnd := len(text)
	if i := strings.IndexByte(text[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
	}
	col := c.Column
	if col < 0 {
		col = 0
	}
	if lineStart+col > lineEnd {
		return lineEnd
	}
	return lineStart + col
}

// UTF16Column returns the column of offset counted in UTF-16 code units,
// the unit JavaScript tooling uses for string positions
func UTF16Column(text string, offset int) int {
	offset = clampOffset(text, offset)
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	return ByteOffsetToUTF16(text[lineStart:], offset-lineStart)
}
