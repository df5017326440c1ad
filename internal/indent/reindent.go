package indent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/textform/internal/engine/buffer"
)

// Reindent rewrites the leading whitespace of every line in s, top to bottom.
//
// Whitespace-only lines are emptied. Lines with no reference line (such as
// the first line) keep their indentation. Each line is computed after the
// lines above it have been rewritten, so indentation cascades.
func (i *Indenter) Reindent(s buffer.Storage, unit string, width int) error {
	loc := 0
	for {
		line, ok := s.LineRange(loc)
		if !ok {
			return nil
		}

		end, err := i.reindentLine(line, s, unit, width)
		if err != nil {
			return err
		}
		line.End = end

		next, ok := nextLineStart(line, s)
		if !ok {
			return nil
		}
		loc = next
	}
}

// reindentLine rewrites one line and returns the line's new end offset.
func (i *Indenter) reindentLine(line buffer.Range, s buffer.Storage, unit string, width int) (buffer.Location, error) {
	if buffer.IsBlank(s, line) {
		if !line.IsEmpty() {
			if err := s.ReplaceString(line, ""); err != nil {
				return 0, fmt.Errorf("clearing blank line %s: %w", line, err)
			}
		}
		return line.Start, nil
	}

	result, err := i.ComputeIndentation(line.Start, s)
	if errors.Is(err, ErrUnableToComputeReferenceRange) {
		return line.End, nil
	}
	if err != nil {
		return 0, err
	}

	want, err := Render(result, s, unit, width)
	if err != nil {
		return 0, err
	}

	ws, ok := s.LeadingWhitespaceRange(line.Start)
	if !ok {
		return 0, fmt.Errorf("line %s: %w", line, buffer.ErrOffsetOutOfRange)
	}
	if err := s.ReplaceString(ws, want); err != nil {
		return 0, fmt.Errorf("reindenting line %s: %w", line, err)
	}
	return line.End + len(want) - ws.Len(), nil
}

// nextLineStart returns the offset just past line's terminator.
func nextLineStart(line buffer.Range, s buffer.Storage) (buffer.Location, bool) {
	n := s.Len()
	if line.End >= n {
		return 0, false
	}

	end := line.End + 2
	if end > n {
		end = n
	}
	term, err := s.Substring(buffer.NewRange(line.End, end))
	if err != nil {
		return 0, false
	}
	if strings.HasPrefix(term, "\r\n") {
		return line.End + 2, true
	}
	return line.End + 1, true
}
