package indent

import (
	"strings"

	"github.com/dshills/textform/internal/engine/buffer"
)

// LinePredicate reports whether the line with content range r qualifies.
type LinePredicate func(s buffer.Storage, r buffer.Range) bool

// NonEmptyLine accepts any line with at least one byte of content,
// including lines holding only whitespace.
func NonEmptyLine(_ buffer.Storage, r buffer.Range) bool {
	return !r.IsEmpty()
}

// NonBlankLine accepts lines holding at least one non-whitespace character.
func NonBlankLine(s buffer.Storage, r buffer.Range) bool {
	return !buffer.IsBlank(s, r)
}

// NonEmptyLineWithoutPrefixPredicate accepts lines that have non-whitespace
// content not starting with prefix.
func NonEmptyLineWithoutPrefixPredicate(prefix string) LinePredicate {
	return func(s buffer.Storage, r buffer.Range) bool {
		text := buffer.TrimmedText(s, r)
		if text == "" {
			return false
		}
		return !strings.HasPrefix(text, prefix)
	}
}

// LineHasPrefix accepts lines whose trimmed content starts with prefix.
func LineHasPrefix(prefix string) LinePredicate {
	return func(s buffer.Storage, r buffer.Range) bool {
		return strings.HasPrefix(buffer.TrimmedText(s, r), prefix)
	}
}

// LineHasSuffix accepts lines whose trimmed content ends with suffix.
func LineHasSuffix(suffix string) LinePredicate {
	return func(s buffer.Storage, r buffer.Range) bool {
		return strings.HasSuffix(buffer.TrimmedText(s, r), suffix)
	}
}
