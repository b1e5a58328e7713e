package parser

import (
	"errors"
	"fmt"
)

// ErrParseFailure indicates the source could not be read as a script
var ErrParseFailure = errors.New("source is not a parseable script")

// ParseError describes where and why a script could not be read
type ParseError struct {
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d", ErrParseFailure, e.Reason, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return ErrParseFailure
}
