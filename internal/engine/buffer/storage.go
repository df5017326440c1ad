package buffer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Storage is the text backend the indentation engine operates on.
//
// Implementations own the text; callers never hold on to a Storage beyond a
// single operation. Line queries follow standard line splitting on "\n",
// "\r\n" and "\r".
type Storage interface {
	// Len returns the total byte length of the text.
	Len() Location

	// Substring returns the text covered by r.
	Substring(r Range) (string, error)

	// ApplyMutation commits an edit event.
	ApplyMutation(m Mutation) error

	// ReplaceString overwrites the text within r.
	ReplaceString(r Range, text string) error

	// LineRange returns the content range (terminator excluded) of the line
	// containing loc. The second result is false if loc is out of bounds.
	LineRange(loc Location) (Range, bool)

	// LeadingWhitespaceRange returns the span of whitespace at the start of
	// the line containing loc. The range is empty when the line has no
	// leading whitespace. The second result is false if loc is out of bounds.
	LeadingWhitespaceRange(loc Location) (Range, bool)
}

// LineText returns the content of the line range r, or the empty string if
// the range cannot be read.
func LineText(s Storage, r Range) string {
	text, err := s.Substring(r)
	if err != nil {
		return ""
	}
	return text
}

// TrimmedText returns the content of r with surrounding whitespace removed.
func TrimmedText(s Storage, r Range) string {
	return strings.TrimSpace(LineText(s, r))
}

// IsBlank reports whether the content of r is empty or whitespace only.
func IsBlank(s Storage, r Range) bool {
	return TrimmedText(s, r) == ""
}

// isLineTerminator reports whether b starts a line terminator.
func isLineTerminator(b byte) bool {
	return b == '\n' || b == '\r'
}

// isIndentSpace reports whether r counts as indentation whitespace.
func isIndentSpace(r rune) bool {
	return r != '\n' && r != '\r' && unicode.IsSpace(r)
}

// leadingWhitespaceLen returns the byte length of the whitespace prefix of line.
func leadingWhitespaceLen(line string) int {
	n := 0
	for n < len(line) {
		r, size := utf8.DecodeRuneInString(line[n:])
		if !isIndentSpace(r) {
			break
		}
		n += size
	}
	return n
}
