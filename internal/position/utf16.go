package position

import (
	"unicode/utf16"
	"unicode/utf8"
)

// ByteOffsetToUTF16 converts a byte offset in s to a UTF-16 code unit offset.
// Characters above U+FFFF count as two units. An offset that falls inside a
// multi-byte character is rounded down to the start of that character.
func ByteOffsetToUTF16(s string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(s) {
		byteOffset = len(s)
	}

	units := 0
	at := 0
	for at < byteOffset {
		r, size := utf8.DecodeRuneInString(s[at:])
		if at+size > byteOffset {
			break
		}
		if r == utf8.RuneError && size == 1 {
			// invalid byte counts as one unit
			units++
		} else {
			units += utf16.RuneLen(r)
		}
		at += size
	}
	return units
}
