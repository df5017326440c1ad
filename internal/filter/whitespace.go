package filter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dshills/textform/internal/engine/buffer"
	"github.com/dshills/textform/internal/indent"
	"github.com/dshills/textform/internal/trigger"
)

// SubstitutionFunc computes the replacement for a line's leading whitespace.
// r is the current whitespace range; it may be empty.
type SubstitutionFunc func(r buffer.Range, s buffer.Storage) (string, error)

// LineLeadingWhitespaceFilter rewrites a line's leading whitespace whenever
// the typed text completes its matching string.
type LineLeadingWhitespaceFilter struct {
	recognizer *trigger.Recognizer
	provider   SubstitutionFunc
	logger     *slog.Logger
}

// NewLineLeadingWhitespaceFilter creates a filter that fires on matching and
// asks provider for the new whitespace.
func NewLineLeadingWhitespaceFilter(matching string, provider SubstitutionFunc) *LineLeadingWhitespaceFilter {
	return &LineLeadingWhitespaceFilter{
		recognizer: trigger.NewRecognizer(matching),
		provider:   provider,
		logger:     slog.Default().With("component", "whitespace-filter", "matching", matching),
	}
}

// String returns the matching string.
func (f *LineLeadingWhitespaceFilter) String() string {
	return f.recognizer.MatchingString()
}

// State returns the state of the underlying recognizer.
func (f *LineLeadingWhitespaceFilter) State() trigger.State {
	return f.recognizer.State()
}

// ProcessMutation implements Filter.
//
// While the recognizer is Triggered the filter applies m itself, replaces
// the line's leading whitespace with the provider's value and returns
// Discard. Mutations that insert nothing leave a Triggered recognizer
// Triggered, so a deletion right after a trigger is also handled here.
// When the line has no leading-whitespace range the filter still returns
// Discard rather than Continue, because m has already been applied.
func (f *LineLeadingWhitespaceFilter) ProcessMutation(m buffer.Mutation, s buffer.Storage) (Action, error) {
	f.recognizer.ProcessMutation(m)

	if f.recognizer.State() != trigger.Triggered {
		return Continue, nil
	}

	if err := s.ApplyMutation(m); err != nil {
		return Continue, err
	}

	wsRange, ok := s.LeadingWhitespaceRange(m.Range.Start)
	if !ok || f.provider == nil {
		return Discard, nil
	}

	value, err := f.provider(wsRange, s)
	if err != nil {
		return Discard, fmt.Errorf("substitution for %q: %w", f.String(), err)
	}

	if err := s.ReplaceString(wsRange, value); err != nil {
		return Discard, err
	}

	f.logger.Debug("replaced leading whitespace", "range", wsRange.String(), "value", value)
	return Discard, nil
}

// ReindentProvider returns a SubstitutionFunc that replaces the whitespace
// with the indenter's answer for that line. Lines without a reference line
// keep their current whitespace.
func ReindentProvider(ind *indent.Indenter, unit string, width int) SubstitutionFunc {
	return func(r buffer.Range, s buffer.Storage) (string, error) {
		result, err := ind.ComputeIndentation(r.Start, s)
		if errors.Is(err, indent.ErrUnableToComputeReferenceRange) {
			return s.Substring(r)
		}
		if err != nil {
			return "", err
		}
		return indent.Render(result, s, unit, width)
	}
}

// ConstantProvider returns a SubstitutionFunc that always yields value.
func ConstantProvider(value string) SubstitutionFunc {
	return func(buffer.Range, buffer.Storage) (string, error) {
		return value, nil
	}
}
