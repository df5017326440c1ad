package indent

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/textform/internal/engine/buffer"
)

// DefaultTabWidth is used when a non-positive tab width is supplied.
const DefaultTabWidth = 4

// Render converts an indentation result into literal whitespace.
//
// Equal reproduces the reference whitespace verbatim, RelativeIncrease
// appends unit, and RelativeDecrease removes one unit (see Outdent).
func Render(result Indentation, s buffer.Storage, unit string, width int) (string, error) {
	ws, err := referenceWhitespace(result.Range, s)
	if err != nil {
		return "", err
	}

	switch result.Kind {
	case RelativeIncrease:
		return ws + unit, nil
	case RelativeDecrease:
		return Outdent(ws, unit, width), nil
	default:
		return ws, nil
	}
}

// referenceWhitespace returns the leading whitespace of the line starting at r.Start.
func referenceWhitespace(r buffer.Range, s buffer.Storage) (string, error) {
	wsRange, ok := s.LeadingWhitespaceRange(r.Start)
	if !ok {
		return "", fmt.Errorf("reference line %s: %w", r, buffer.ErrOffsetOutOfRange)
	}
	return s.Substring(wsRange)
}

// Outdent removes one indentation unit from the end of ws.
//
// If ws ends with unit it is trimmed off. Otherwise the visual width of unit
// is subtracted from the visual width of ws and the remainder is rebuilt,
// with tabs if either ws or unit uses them.
func Outdent(ws, unit string, width int) string {
	if unit == "" {
		return ws
	}
	if strings.HasSuffix(ws, unit) {
		return ws[:len(ws)-len(unit)]
	}

	cols := Columns(ws, width) - Columns(unit, width)
	if cols <= 0 {
		return ""
	}
	useTabs := strings.ContainsRune(ws, '\t') || strings.ContainsRune(unit, '\t')
	return Whitespace(cols, width, useTabs)
}

// Columns returns the visual width of ws. Tabs advance to the next multiple
// of width; other characters use their display width.
func Columns(ws string, width int) int {
	width = normalizeWidth(width)

	col := 0
	for _, r := range ws {
		if r == '\t' {
			col += width - col%width
			continue
		}
		col += runewidth.RuneWidth(r)
	}
	return col
}

// Whitespace builds a whitespace string spanning cols columns.
func Whitespace(cols, width int, useTabs bool) string {
	if cols <= 0 {
		return ""
	}
	if !useTabs {
		return strings.Repeat(" ", cols)
	}

	width = normalizeWidth(width)
	return strings.Repeat("\t", cols/width) + strings.Repeat(" ", cols%width)
}

// Unit returns the indentation unit for the given style.
func Unit(useTabs bool, size int) string {
	if useTabs {
		return "\t"
	}
	return strings.Repeat(" ", normalizeWidth(size))
}

func normalizeWidth(width int) int {
	if width <= 0 {
		return DefaultTabWidth
	}
	return width
}
