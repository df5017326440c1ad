// Package indent decides how far a line should be indented relative to the
// line above it.
//
// An Indenter finds a reference line by walking backward from a location,
// skipping lines rejected by its reference predicate and never choosing the
// line that contains the location. It then evaluates its Rules against the
// reference line and the current line and reports one of three outcomes:
//
//   - Equal: reuse the reference line's indentation
//   - RelativeIncrease: reference indentation plus one unit
//   - RelativeDecrease: reference indentation minus one unit
//
// Rules form a closed set:
//
//   - PrecedingLinePrefixIndenter: reference line starts with a literal
//   - PrecedingLineSuffixIndenter: reference line ends with a literal
//   - CurrentLinePrefixOutdenter: current line starts with a literal
//
// Precedence:
//
// Every rule is evaluated. If any rule asks for an increase and any rule asks
// for a decrease the result is Equal. Otherwise the direction that was asked
// for wins, however many rules asked for it. Rule order does not matter.
//
// Rendering:
//
// Render and ComputeIndentationString turn a result into literal whitespace
// given an indentation unit (such as "\t" or "    ") and a tab width.
//
// Basic usage:
//
//	ind := indent.New()
//	buf := buffer.NewBufferFromString("func f() {\n")
//
//	ws := ind.ComputeIndentationString(buffer.EmptyRange(11), buf, "\t", 4)  // "\t"
package indent
