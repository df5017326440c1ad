package buffer

import "fmt"

// Mutation is a text edit event: the range being replaced and the
// replacement text. An insertion has an empty range; a deletion has empty
// text.
type Mutation struct {
	Range Range
	Text  string
}

// NewInsert creates a Mutation that inserts text at a position.
func NewInsert(offset Location, text string) Mutation {
	return Mutation{Range: EmptyRange(offset), Text: text}
}

// NewDelete creates a Mutation that deletes a range of text.
func NewDelete(start, end Location) Mutation {
	return Mutation{Range: NewRange(start, end)}
}

// String returns a human-readable representation of the mutation.
func (m Mutation) String() string {
	switch {
	case m.Range.IsEmpty():
		return fmt.Sprintf("Insert(%d, %q)", m.Range.Start, m.Text)
	case m.Text == "":
		return "Delete" + m.Range.String()
	default:
		return fmt.Sprintf("Replace%s with %q", m.Range, m.Text)
	}
}

// PostApplyRange returns the range covered by the replacement text once the
// mutation has been applied.
func (m Mutation) PostApplyRange() Range {
	return Range{Start: m.Range.Start, End: m.Range.Start + len(m.Text)}
}
