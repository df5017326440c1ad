package buffer

import "strings"

// Option configures a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the terminator NormalizeLineEndings converts to.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// DetectLineEnding returns the terminator used most often in text. Ties
// prefer LF, then CRLF. Text without terminators is LF.
func DetectLineEnding(text string) LineEnding {
	crlf := strings.Count(text, "\r\n")
	lf := strings.Count(text, "\n") - crlf
	cr := strings.Count(text, "\r") - crlf

	switch {
	case lf >= crlf && lf >= cr:
		return LineEndingLF
	case crlf >= cr:
		return LineEndingCRLF
	default:
		return LineEndingCR
	}
}
