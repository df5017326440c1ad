package buffer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the line ending name.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "crlf"
	case LineEndingCR:
		return "cr"
	default:
		return "lf"
	}
}

// Sequence returns the terminator characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is a line-indexed text store implementing Storage.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	lineStarts []Location // offset of the first byte of each line
	lineEnds   []Location // offset of each line's terminator (or len(text))
	lineEnding LineEnding
}

var _ Storage = (*Buffer)(nil)

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	return NewBufferFromString("", opts...)
}

// NewBufferFromString creates a buffer with initial content. The line ending
// is detected from s unless an option sets it.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := &Buffer{
		text:       s,
		lineEnding: DetectLineEnding(s),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.reindex()
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading buffer content: %w", err)
	}
	return NewBufferFromString(string(data), opts...), nil
}

// reindex rebuilds the line tables. Caller must hold the write lock.
func (b *Buffer) reindex() {
	b.lineStarts = b.lineStarts[:0]
	b.lineEnds = b.lineEnds[:0]
	b.lineStarts = append(b.lineStarts, 0)

	text := b.text
	for i := 0; i < len(text); i++ {
		if !isLineTerminator(text[i]) {
			continue
		}
		b.lineEnds = append(b.lineEnds, i)
		if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			i++
		}
		b.lineStarts = append(b.lineStarts, i+1)
	}
	b.lineEnds = append(b.lineEnds, len(text))
}

// lineAt returns the index of the line containing offset.
// Caller must hold a lock and have validated offset.
func (b *Buffer) lineAt(offset Location) int {
	// First line whose start is beyond offset, minus one.
	return sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	}) - 1
}

// Queries

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() Location {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// Substring returns the text covered by r.
func (b *Buffer) Substring(r Range) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !r.IsValid() || r.End > len(b.text) {
		return "", ErrRangeInvalid
	}
	return b.text[r.Start:r.End], nil
}

// LineRange returns the content range of the line containing loc.
func (b *Buffer) LineRange(loc Location) (Range, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if loc < 0 || loc > len(b.text) {
		return Range{}, false
	}
	line := b.lineAt(loc)
	return Range{Start: b.lineStarts[line], End: b.lineEnds[line]}, true
}

// LeadingWhitespaceRange returns the leading whitespace span of the line
// containing loc.
func (b *Buffer) LeadingWhitespaceRange(loc Location) (Range, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if loc < 0 || loc > len(b.text) {
		return Range{}, false
	}
	line := b.lineAt(loc)
	start := b.lineStarts[line]
	n := leadingWhitespaceLen(b.text[start:b.lineEnds[line]])
	return Range{Start: start, End: start + n}, true
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end Location, text string) (Location, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > len(b.text) {
		return 0, ErrOffsetOutOfRange
	}
	if start > end || end > len(b.text) {
		return 0, ErrRangeInvalid
	}

	var sb strings.Builder
	sb.Grow(len(b.text) - (end - start) + len(text))
	sb.WriteString(b.text[:start])
	sb.WriteString(text)
	sb.WriteString(b.text[end:])
	b.text = sb.String()
	b.reindex()

	return start + len(text), nil
}

// ApplyMutation commits a mutation to the buffer.
func (b *Buffer) ApplyMutation(m Mutation) error {
	if _, err := b.Replace(m.Range.Start, m.Range.End, m.Text); err != nil {
		return fmt.Errorf("applying %s: %w", m, err)
	}
	return nil
}

// ReplaceString overwrites the text within r.
func (b *Buffer) ReplaceString(r Range, text string) error {
	if _, err := b.Replace(r.Start, r.End, text); err != nil {
		return fmt.Errorf("replacing %s: %w", r, err)
	}
	return nil
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// NormalizeLineEndings rewrites every terminator in text to the buffer's
// line ending.
func (b *Buffer) NormalizeLineEndings(text string) string {
	seq := b.LineEnding().Sequence()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if seq == "\n" {
		return text
	}
	return strings.ReplaceAll(text, "\n", seq)
}
