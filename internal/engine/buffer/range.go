package buffer

import "fmt"

// Location is a byte offset into the text.
type Location = int

// Range represents a byte range in the buffer.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start Location // Inclusive start position
	End   Location // Exclusive end position
}

// NewRange creates a new Range from start and end offsets.
func NewRange(start, end Location) Range {
	return Range{Start: start, End: end}
}

// EmptyRange returns a zero-length range at the given location.
func EmptyRange(at Location) Range {
	return Range{Start: at, End: at}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if the range is valid (0 <= Start <= End).
func (r Range) IsValid() bool {
	return r.Start >= 0 && r.Start <= r.End
}
