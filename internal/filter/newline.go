package filter

import (
	"log/slog"

	"github.com/dshills/textform/internal/engine/buffer"
	"github.com/dshills/textform/internal/indent"
)

// NewlineIndentFilter indents the new line whenever a line terminator is
// typed.
type NewlineIndentFilter struct {
	indenter *indent.Indenter
	unit     string
	width    int
	logger   *slog.Logger
}

// NewNewlineIndentFilter creates a filter rendering indentation with unit and
// tab width.
func NewNewlineIndentFilter(ind *indent.Indenter, unit string, width int) *NewlineIndentFilter {
	return &NewlineIndentFilter{
		indenter: ind,
		unit:     unit,
		width:    width,
		logger:   slog.Default().With("component", "newline-filter"),
	}
}

// ProcessMutation implements Filter.
func (f *NewlineIndentFilter) ProcessMutation(m buffer.Mutation, s buffer.Storage) (Action, error) {
	if !isLineTerminator(m.Text) {
		return Continue, nil
	}

	if err := s.ApplyMutation(m); err != nil {
		return Continue, err
	}

	loc := m.PostApplyRange().End
	wsRange, ok := s.LeadingWhitespaceRange(loc)
	if !ok {
		return Discard, nil
	}

	value := f.indenter.ComputeIndentationString(buffer.EmptyRange(loc), s, f.unit, f.width)
	if err := s.ReplaceString(wsRange, value); err != nil {
		return Discard, err
	}

	f.logger.Debug("indented new line", "location", loc, "value", value)
	return Discard, nil
}

func isLineTerminator(text string) bool {
	return text == "\n" || text == "\r\n" || text == "\r"
}
